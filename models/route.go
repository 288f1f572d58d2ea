package models

// TravelMode selects the routing profile for a direct point-to-point route.
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeCycling TravelMode = "cycling"
)

// Detour requests use transport vocabulary instead of routing profiles.
// Each maps onto one of the direct modes (taxi/bus -> driving, moto -> cycling).
const (
	DetourModeTaxi = "taxi"
	DetourModeBus  = "bus"
	DetourModeMoto = "moto"
)

// ParseTravelMode validates a direct-routing mode string.
// An empty mode defaults to driving.
func ParseTravelMode(s string) (TravelMode, bool) {
	if s == "" {
		return ModeDriving, true
	}
	switch TravelMode(s) {
	case ModeDriving, ModeWalking, ModeCycling:
		return TravelMode(s), true
	}
	return "", false
}

// ParseDetourMode validates a detour transport mode and resolves the
// underlying travel mode it routes with. An empty mode defaults to taxi.
func ParseDetourMode(s string) (TravelMode, bool) {
	if s == "" {
		s = DetourModeTaxi
	}
	switch s {
	case DetourModeTaxi, DetourModeBus:
		return ModeDriving, true
	case DetourModeMoto:
		return ModeCycling, true
	}
	return "", false
}

// Speed returns the per-mode speed constant used to derive durations from
// local edge costs. The values are inherited from the graph import and are
// consistent across the system, not real-world calibrated.
func (m TravelMode) Speed() float64 {
	switch m {
	case ModeDriving:
		return 25
	case ModeWalking:
		return 2
	default:
		return 8
	}
}

// OSRMProfile maps a travel mode onto the OSRM profile vocabulary.
func (m TravelMode) OSRMProfile() string {
	switch m {
	case ModeWalking:
		return "foot"
	case ModeCycling:
		return "bike"
	default:
		return "car"
	}
}

// RouteStep is one graph edge or one provider-reported maneuver.
// For locally computed routes Source/Target hold place names or synthesized
// "Node <id>" labels; for provider routes both hold the instruction text.
type RouteStep struct {
	Geometry string  `json:"geometry"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// Route is one complete alternative between two points.
type Route struct {
	Distance       float64     `json:"distance"`
	Duration       float64     `json:"duration"`
	Steps          []RouteStep `json:"steps"`
	StartPlaceName string      `json:"startPlaceName"`
	EndPlaceName   string      `json:"endPlaceName"`
	Geometry       string      `json:"geometry"`
}

// RouteResponse is the single response shape for every routing entry point.
// Exactly one of Routes or Error is populated; consumers distinguish success
// from failure by which field is set.
type RouteResponse struct {
	Routes []Route `json:"routes,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// RouteRequest is the body of POST /api/routes.
type RouteRequest struct {
	Points         []GeoPoint `json:"points" validate:"required,len=2,dive"`
	Mode           string     `json:"mode"`
	StartPlaceName string     `json:"startPlaceName"`
	EndPlaceName   string     `json:"endPlaceName"`
}

// DetourRouteRequest is the body of POST /api/routes/with-detour.
type DetourRouteRequest struct {
	Start           *GeoPoint `json:"start" validate:"required"`
	Detour          *GeoPoint `json:"detour" validate:"required"`
	End             *GeoPoint `json:"end" validate:"required"`
	TransportMode   string    `json:"transportMode"`
	StartPlaceName  string    `json:"startPlaceName"`
	DetourPlaceName string    `json:"detourPlaceName"`
	EndPlaceName    string    `json:"endPlaceName"`
}
