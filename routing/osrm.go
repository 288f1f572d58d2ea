package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yaounde-maps/map-api/models"
)

const (
	// defaultOSRMBaseURL is the public OSRM demo server.
	defaultOSRMBaseURL = "https://router.project-osrm.org"

	// osrmTimeout bounds a single routing call. The external tier is a
	// fallback, so a hung provider must not stall the request worker.
	osrmTimeout = 15 * time.Second

	httpMaxIdleConns    = 10
	httpIdleConnTimeout = 30 * time.Second
)

// OSRMClient calls the OSRM /route/v1 API and converts its route/leg/step
// tree into the shared Route shape.
type OSRMClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOSRMClient creates a client for the given base URL. An empty baseURL
// selects the public OSRM server.
func NewOSRMClient(baseURL string) *OSRMClient {
	if baseURL == "" {
		baseURL = defaultOSRMBaseURL
	}
	transport := &http.Transport{
		MaxIdleConns:        httpMaxIdleConns,
		MaxIdleConnsPerHost: httpMaxIdleConns,
		IdleConnTimeout:     httpIdleConnTimeout,
	}
	return &OSRMClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   osrmTimeout,
			Transport: transport,
		},
	}
}

// --- JSON types for the OSRM route response ---

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Geometry osrmGeometry `json:"geometry"`
	Legs     []osrmLeg    `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Geometry osrmGeometry `json:"geometry"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmGeometry struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type osrmManeuver struct {
	Instruction string `json:"instruction"`
}

// Routes fetches up to 3 alternatives for the given point sequence.
// This client is itself a fallback tier: every failure (network, non-Ok
// code, unparseable body, zero routes) is logged and surfaced as an empty
// slice, never as an error.
func (c *OSRMClient) Routes(ctx context.Context, points []models.GeoPoint, mode models.TravelMode, startLabel, endLabel string) []models.Route {
	routes, err := c.fetch(ctx, points, mode, startLabel, endLabel)
	if err != nil {
		log.Printf("osrm: falling through (%v)", err)
		return nil
	}
	return routes
}

func (c *OSRMClient) fetch(ctx context.Context, points []models.GeoPoint, mode models.TravelMode, startLabel, endLabel string) ([]models.Route, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", len(points))
	}

	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = formatCoord(p.Lng) + "," + formatCoord(p.Lat)
	}
	url := fmt.Sprintf("%s/route/v1/%s/%s?steps=true&geometries=geojson&alternatives=3",
		c.baseURL, mode.OSRMProfile(), strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var parsed osrmResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Code != "" && parsed.Code != "Ok" {
		msg := parsed.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, fmt.Errorf("provider code %s: %s", parsed.Code, msg)
	}

	var routes []models.Route
	for _, r := range parsed.Routes {
		routes = append(routes, convertOSRMRoute(r, startLabel, endLabel))
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no routes in response")
	}
	return routes, nil
}

// convertOSRMRoute walks one route's legs and steps. Distances and durations
// are taken verbatim from the provider, never recomputed.
func convertOSRMRoute(r osrmRoute, startLabel, endLabel string) models.Route {
	routeGeometry := lineStringWKT(r.Geometry.Coordinates)

	var steps []models.RouteStep
	for _, leg := range r.Legs {
		for _, s := range leg.Steps {
			instruction := s.Maneuver.Instruction
			if instruction == "" {
				instruction = "Step"
			}
			steps = append(steps, models.RouteStep{
				Geometry: lineStringWKT(s.Geometry.Coordinates),
				Source:   instruction,
				Target:   instruction,
				Distance: s.Distance,
				Duration: s.Duration,
			})
		}
	}

	// Some profiles return no step breakdown. Keep the route usable by
	// spanning it with a single default step.
	if len(steps) == 0 && routeGeometry != "" {
		steps = append(steps, models.RouteStep{
			Geometry: routeGeometry,
			Source:   "Start",
			Target:   "End",
			Distance: r.Distance,
			Duration: r.Duration,
		})
	}

	return models.Route{
		Distance:       r.Distance,
		Duration:       r.Duration,
		Steps:          steps,
		StartPlaceName: startLabel,
		EndPlaceName:   endLabel,
		Geometry:       routeGeometry,
	}
}
