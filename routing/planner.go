package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaounde-maps/map-api/models"
)

// PathEdge is one row of a k-shortest-paths result, already joined against
// the edge table and the place labels.
type PathEdge struct {
	PathID      int
	PathSeq     int
	Geometry    string
	SourceLabel string
	TargetLabel string
	Cost        float64
}

// GraphStore is the read-only query surface of the road graph.
// Implemented by repository.GraphRepository.
type GraphStore interface {
	// NearestRoadNode returns the edge endpoint closest to the point,
	// ordered by projected distance.
	NearestRoadNode(ctx context.Context, p models.GeoPoint) (int64, error)
	// NodeEdgeCount reports how many distinct endpoints of the two nodes
	// are incident to at least one edge.
	NodeEdgeCount(ctx context.Context, source, target int64) (int, error)
	// KShortestPaths runs the ksp query and returns its step rows ordered
	// by (path_id, path_seq).
	KShortestPaths(ctx context.Context, source, target int64, k int) ([]PathEdge, error)
}

// PlaceNodeStore supplies the labeled-place fallback for node resolution.
// Implemented by the place repositories.
type PlaceNodeStore interface {
	NearestPlaceID(ctx context.Context, p models.GeoPoint) (int64, error)
}

// Sentinel reasons for a clean local-tier miss. The orchestrator treats all
// of them as "try the external tier", never as caller-visible errors.
var (
	ErrNoNodeFound       = errors.New("no node found near the provided coordinates")
	ErrSameNode          = errors.New("source and target nodes are the same")
	ErrNodesNotInNetwork = errors.New("nodes not found in road network")
)

// IsLocalMiss reports whether err is an expected local-tier exhaustion
// rather than an infrastructure failure.
func IsLocalMiss(err error) bool {
	return errors.Is(err, ErrNoNodeFound) ||
		errors.Is(err, ErrSameNode) ||
		errors.Is(err, ErrNodesNotInNetwork)
}

// NodeResolver maps a geographic point onto the nearest routable graph node.
// The road network can be sparse around arbitrary query points, so a failed
// or empty road-node lookup falls back to the nearest labeled place.
type NodeResolver struct {
	graph  GraphStore
	places PlaceNodeStore
}

// NewNodeResolver creates a resolver over the given stores.
func NewNodeResolver(graph GraphStore, places PlaceNodeStore) *NodeResolver {
	return &NodeResolver{graph: graph, places: places}
}

// Resolve returns the graph node nearest to p, or ErrNoNodeFound when
// neither tier has a candidate.
func (r *NodeResolver) Resolve(ctx context.Context, p models.GeoPoint) (int64, error) {
	id, err := r.graph.NearestRoadNode(ctx, p)
	if err == nil {
		return id, nil
	}

	placeID, placeErr := r.places.NearestPlaceID(ctx, p)
	if placeErr != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoNodeFound, placeErr)
	}
	return placeID, nil
}

// Planner computes up to k local route alternatives with a k-shortest-paths
// query over the weighted road graph.
type Planner struct {
	graph GraphStore
	k     int
}

// NewPlanner creates a planner requesting up to 3 alternatives.
func NewPlanner(graph GraphStore) *Planner {
	return &Planner{graph: graph, k: 3}
}

// Plan returns the local route alternatives between two resolved nodes.
// A nil error with an empty slice means the graph simply has no path; the
// sentinel errors signal conditions that the caller should treat the same
// way. Any other error is an infrastructure failure.
func (p *Planner) Plan(ctx context.Context, source, target int64, mode models.TravelMode) ([]models.Route, error) {
	if source == target {
		return nil, ErrSameNode
	}

	count, err := p.graph.NodeEdgeCount(ctx, source, target)
	if err != nil {
		return nil, fmt.Errorf("validate nodes %d/%d: %w", source, target, err)
	}
	if count == 0 {
		return nil, ErrNodesNotInNetwork
	}

	edges, err := p.graph.KShortestPaths(ctx, source, target, p.k)
	if err != nil {
		return nil, fmt.Errorf("k-shortest-paths %d -> %d: %w", source, target, err)
	}

	return assembleRoutes(edges, mode.Speed()), nil
}

// routeBuilder accumulates the steps of one path alternative during the
// row scan. State is local to a single Plan call.
type routeBuilder struct {
	steps    []models.RouteStep
	distance float64
	duration float64
}

// assembleRoutes groups ksp rows by path id, preserving intra-path sequence
// order and the order in which paths first appear. Path groups without steps
// yield no route.
func assembleRoutes(edges []PathEdge, speed float64) []models.Route {
	builders := make(map[int]*routeBuilder)
	var order []int

	for _, edge := range edges {
		b, ok := builders[edge.PathID]
		if !ok {
			b = &routeBuilder{}
			builders[edge.PathID] = b
			order = append(order, edge.PathID)
		}

		step := models.RouteStep{
			Geometry: edge.Geometry,
			Source:   edge.SourceLabel,
			Target:   edge.TargetLabel,
			Distance: edge.Cost,
			Duration: edge.Cost / speed,
		}
		b.steps = append(b.steps, step)
		b.distance += step.Distance
		b.duration += step.Duration
	}

	var routes []models.Route
	for _, id := range order {
		b := builders[id]
		if len(b.steps) == 0 {
			continue
		}
		geoms := make([]string, len(b.steps))
		for i, s := range b.steps {
			geoms[i] = s.Geometry
		}
		routes = append(routes, models.Route{
			Distance: b.distance,
			Duration: b.duration,
			Steps:    b.steps,
			Geometry: strings.Join(geoms, ","),
		})
	}
	return routes
}
