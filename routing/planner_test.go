package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/yaounde-maps/map-api/models"
)

// --- mock GraphStore ---

type mockGraphStore struct {
	nearestID    int64
	nearestErr   error
	edgeCount    int
	edgeCountErr error
	edges        []PathEdge
	edgesErr     error

	kspCalls int
}

func (m *mockGraphStore) NearestRoadNode(_ context.Context, _ models.GeoPoint) (int64, error) {
	return m.nearestID, m.nearestErr
}

func (m *mockGraphStore) NodeEdgeCount(_ context.Context, _, _ int64) (int, error) {
	return m.edgeCount, m.edgeCountErr
}

func (m *mockGraphStore) KShortestPaths(_ context.Context, _, _ int64, _ int) ([]PathEdge, error) {
	m.kspCalls++
	return m.edges, m.edgesErr
}

// --- mock PlaceNodeStore ---

type mockPlaceNodeStore struct {
	id  int64
	err error
}

func (m *mockPlaceNodeStore) NearestPlaceID(_ context.Context, _ models.GeoPoint) (int64, error) {
	return m.id, m.err
}

// --- NodeResolver tests ---

func TestNodeResolverRoadNode(t *testing.T) {
	resolver := NewNodeResolver(
		&mockGraphStore{nearestID: 42},
		&mockPlaceNodeStore{err: errors.New("should not be called")},
	)

	id, err := resolver.Resolve(context.Background(), models.GeoPoint{Lat: 3.8, Lng: 11.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("resolved node = %d, expected 42", id)
	}
}

func TestNodeResolverPlaceFallback(t *testing.T) {
	resolver := NewNodeResolver(
		&mockGraphStore{nearestErr: errors.New("road graph query failed")},
		&mockPlaceNodeStore{id: 7},
	)

	id, err := resolver.Resolve(context.Background(), models.GeoPoint{Lat: 3.8, Lng: 11.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Errorf("resolved node = %d, expected place fallback 7", id)
	}
}

func TestNodeResolverNoCandidate(t *testing.T) {
	resolver := NewNodeResolver(
		&mockGraphStore{nearestErr: errors.New("no road node")},
		&mockPlaceNodeStore{err: errors.New("no place")},
	)

	_, err := resolver.Resolve(context.Background(), models.GeoPoint{Lat: 3.8, Lng: 11.5})
	if !errors.Is(err, ErrNoNodeFound) {
		t.Errorf("expected ErrNoNodeFound, got %v", err)
	}
	if !IsLocalMiss(err) {
		t.Error("ErrNoNodeFound should count as a local miss")
	}
}

// --- Planner tests ---

func TestPlannerSameNode(t *testing.T) {
	graph := &mockGraphStore{}
	planner := NewPlanner(graph)

	_, err := planner.Plan(context.Background(), 5, 5, models.ModeDriving)
	if !errors.Is(err, ErrSameNode) {
		t.Fatalf("expected ErrSameNode, got %v", err)
	}
	if graph.kspCalls != 0 {
		t.Errorf("ksp query ran %d times for same-node input, expected 0", graph.kspCalls)
	}
}

func TestPlannerNodesNotInNetwork(t *testing.T) {
	graph := &mockGraphStore{edgeCount: 0}
	planner := NewPlanner(graph)

	_, err := planner.Plan(context.Background(), 1, 2, models.ModeDriving)
	if !errors.Is(err, ErrNodesNotInNetwork) {
		t.Fatalf("expected ErrNodesNotInNetwork, got %v", err)
	}
	if graph.kspCalls != 0 {
		t.Errorf("ksp query ran %d times for disconnected nodes, expected 0", graph.kspCalls)
	}
}

func TestPlannerInfraError(t *testing.T) {
	graph := &mockGraphStore{edgeCount: 2, edgesErr: errors.New("db down")}
	planner := NewPlanner(graph)

	_, err := planner.Plan(context.Background(), 1, 2, models.ModeDriving)
	if err == nil {
		t.Fatal("expected error on graph store failure, got nil")
	}
	if IsLocalMiss(err) {
		t.Error("infrastructure failure should not count as a local miss")
	}
}

func TestPlannerNoPathIsNotAnError(t *testing.T) {
	graph := &mockGraphStore{edgeCount: 2, edges: nil}
	planner := NewPlanner(graph)

	routes, err := planner.Plan(context.Background(), 1, 2, models.ModeDriving)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 0 {
		t.Errorf("expected no routes, got %d", len(routes))
	}
}

func TestPlannerGroupsAlternativesByPathID(t *testing.T) {
	graph := &mockGraphStore{
		edgeCount: 2,
		edges: []PathEdge{
			{PathID: 1, PathSeq: 1, Geometry: "LINESTRING(11.5 3.8, 11.51 3.81)", SourceLabel: "Poste Centrale", TargetLabel: "Node 12", Cost: 100},
			{PathID: 1, PathSeq: 2, Geometry: "LINESTRING(11.51 3.81, 11.52 3.82)", SourceLabel: "Node 12", TargetLabel: "Marché Central", Cost: 50},
			{PathID: 2, PathSeq: 1, Geometry: "LINESTRING(11.5 3.8, 11.53 3.83)", SourceLabel: "Poste Centrale", TargetLabel: "Marché Central", Cost: 200},
		},
	}
	planner := NewPlanner(graph)

	routes, err := planner.Plan(context.Background(), 1, 2, models.ModeDriving)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(routes))
	}

	best := routes[0]
	if len(best.Steps) != 2 {
		t.Fatalf("first alternative has %d steps, expected 2", len(best.Steps))
	}
	if best.Distance != 150 {
		t.Errorf("first alternative distance = %f, expected 150", best.Distance)
	}
	// driving speed constant is 25
	if best.Duration != 6 {
		t.Errorf("first alternative duration = %f, expected 6", best.Duration)
	}
	if best.Steps[0].Duration != 4 || best.Steps[1].Duration != 2 {
		t.Errorf("step durations = %f, %f, expected 4, 2", best.Steps[0].Duration, best.Steps[1].Duration)
	}
	expectedGeom := "LINESTRING(11.5 3.8, 11.51 3.81),LINESTRING(11.51 3.81, 11.52 3.82)"
	if best.Geometry != expectedGeom {
		t.Errorf("first alternative geometry = %q, expected %q", best.Geometry, expectedGeom)
	}

	second := routes[1]
	if second.Distance != 200 || second.Duration != 8 {
		t.Errorf("second alternative = (%f, %f), expected (200, 8)", second.Distance, second.Duration)
	}
}

func TestPlannerModeSpeeds(t *testing.T) {
	tests := []struct {
		mode     models.TravelMode
		expected float64
	}{
		{models.ModeDriving, 100.0 / 25},
		{models.ModeWalking, 100.0 / 2},
		{models.ModeCycling, 100.0 / 8},
	}

	for _, tc := range tests {
		t.Run(string(tc.mode), func(t *testing.T) {
			graph := &mockGraphStore{
				edgeCount: 2,
				edges: []PathEdge{
					{PathID: 1, PathSeq: 1, Geometry: "LINESTRING(1 2, 3 4)", SourceLabel: "a", TargetLabel: "b", Cost: 100},
				},
			}
			routes, err := NewPlanner(graph).Plan(context.Background(), 1, 2, tc.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(routes) != 1 {
				t.Fatalf("expected 1 route, got %d", len(routes))
			}
			if routes[0].Duration != tc.expected {
				t.Errorf("duration = %f, expected %f", routes[0].Duration, tc.expected)
			}
		})
	}
}
