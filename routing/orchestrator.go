package routing

import (
	"context"
	"log"

	"github.com/yaounde-maps/map-api/models"
)

// Caller-visible error strings. The specific local-tier failure reason is
// diagnostic only and never surfaced.
const (
	errNoRoute       = "No route found with local and external methods"
	errUnableToRoute = "Unable to calculate route"
	errNoLegOne      = "No route found for start to detour"
	errNoLegTwo      = "No route found for detour to end"
)

// PointResolver maps a geographic point to a routable graph node.
type PointResolver interface {
	Resolve(ctx context.Context, p models.GeoPoint) (int64, error)
}

// PathPlanner computes local route alternatives between two resolved nodes.
type PathPlanner interface {
	Plan(ctx context.Context, source, target int64, mode models.TravelMode) ([]models.Route, error)
}

// ExternalRouter fetches provider routes for a point sequence. It returns an
// empty slice on any failure.
type ExternalRouter interface {
	Routes(ctx context.Context, points []models.GeoPoint, mode models.TravelMode, startLabel, endLabel string) []models.Route
}

// Orchestrator is the routing façade. It attempts the local graph tier
// first and falls back to the external provider, normalizing both sources
// into one response shape.
type Orchestrator struct {
	resolver PointResolver
	planner  PathPlanner
	external ExternalRouter
}

// NewOrchestrator wires the two routing tiers together.
func NewOrchestrator(resolver PointResolver, planner PathPlanner, external ExternalRouter) *Orchestrator {
	return &Orchestrator{resolver: resolver, planner: planner, external: external}
}

// Route computes ranked alternatives between exactly two points.
//
// Tier 1 resolves both points to graph nodes and runs the local planner.
// Every tier-1 outcome short of success (no node, same node, disconnected
// nodes, empty result, graph infrastructure failure) falls through to the
// external tier; only after both tiers come up empty is an error returned.
func (o *Orchestrator) Route(ctx context.Context, start, end models.GeoPoint, mode models.TravelMode, startLabel, endLabel string) models.RouteResponse {
	local, localErr := o.planLocal(ctx, start, end, mode)
	if len(local) > 0 {
		log.Printf("routing: local tier found %d alternatives", len(local))
		for i := range local {
			local[i].StartPlaceName = startLabel
			local[i].EndPlaceName = endLabel
		}
		return models.RouteResponse{Routes: local}
	}

	unavailable := localErr != nil && !IsLocalMiss(localErr)
	if localErr != nil {
		log.Printf("routing: local tier unavailable, switching to external API: %v", localErr)
	} else {
		log.Printf("routing: local tier exhausted, switching to external API")
	}

	external := o.external.Routes(ctx, []models.GeoPoint{start, end}, mode, startLabel, endLabel)
	if len(external) > 0 {
		log.Printf("routing: external tier found %d alternatives", len(external))
		return models.RouteResponse{Routes: external}
	}

	// Both tiers empty. An infrastructure failure in tier 1 gets the
	// generic message; a clean miss gets the exhaustion message.
	if unavailable {
		return models.RouteResponse{Error: errUnableToRoute}
	}
	return models.RouteResponse{Error: errNoRoute}
}

// planLocal runs the whole local tier: node resolution, then the
// k-shortest-paths planner.
func (o *Orchestrator) planLocal(ctx context.Context, start, end models.GeoPoint, mode models.TravelMode) ([]models.Route, error) {
	source, err := o.resolver.Resolve(ctx, start)
	if err != nil {
		return nil, err
	}
	target, err := o.resolver.Resolve(ctx, end)
	if err != nil {
		return nil, err
	}
	log.Printf("routing: resolved nodes source=%d target=%d", source, target)
	return o.planner.Plan(ctx, source, target, mode)
}

// RouteWithDetour computes one combined route through an intermediate
// point. Both legs go through the external provider; leg 1 fully completes
// before leg 2 is issued. Only the first alternative of each leg is used.
func (o *Orchestrator) RouteWithDetour(ctx context.Context, start, detour, end models.GeoPoint, mode models.TravelMode, startLabel, detourLabel, endLabel string) models.RouteResponse {
	first := o.external.Routes(ctx, []models.GeoPoint{start, detour}, mode, startLabel, detourLabel)
	if len(first) == 0 {
		log.Printf("routing: detour leg 1 came up empty")
		return models.RouteResponse{Error: errNoLegOne}
	}

	second := o.external.Routes(ctx, []models.GeoPoint{detour, end}, mode, detourLabel, endLabel)
	if len(second) == 0 {
		log.Printf("routing: detour leg 2 came up empty")
		return models.RouteResponse{Error: errNoLegTwo}
	}

	combined := composeDetour(first[0], second[0], startLabel, endLabel)
	log.Printf("routing: detour route composed from %d + %d steps", len(first[0].Steps), len(second[0].Steps))
	return models.RouteResponse{Routes: []models.Route{combined}}
}

// composeDetour stitches two legs into one route: concatenated steps,
// summed metrics, and one flattened LINESTRING rebuilt from every step's
// coordinate list in original point order.
func composeDetour(first, second models.Route, startLabel, endLabel string) models.Route {
	steps := make([]models.RouteStep, 0, len(first.Steps)+len(second.Steps))
	steps = append(steps, first.Steps...)
	steps = append(steps, second.Steps...)

	return models.Route{
		Distance:       first.Distance + second.Distance,
		Duration:       first.Duration + second.Duration,
		Steps:          steps,
		StartPlaceName: startLabel,
		EndPlaceName:   endLabel,
		Geometry:       mergeStepGeometries(steps),
	}
}
