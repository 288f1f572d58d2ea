package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yaounde-maps/map-api/models"
	"github.com/yaounde-maps/map-api/routing"
)

// GraphRepository queries the pgRouting road graph. The road_edges table
// carries {id, source, target, geom, cost, reverse_cost}; places supplies
// optional labels for edge endpoints.
type GraphRepository struct {
	pool *pgxpool.Pool
}

// NewGraphRepository creates a repository over the shared pool.
func NewGraphRepository(pool *pgxpool.Pool) *GraphRepository {
	return &GraphRepository{pool: pool}
}

// NearestRoadNode finds the edge endpoint (source or target) closest to the
// point by projected distance. First row wins; there is no secondary key.
func (r *GraphRepository) NearestRoadNode(ctx context.Context, p models.GeoPoint) (int64, error) {
	query := `
		SELECT DISTINCT source AS id, ST_Distance(
			ST_Transform(geom, 3857),
			ST_Transform(ST_SetSRID(ST_Point($1, $2), 4326), 3857)
		) AS distance
		FROM road_edges
		WHERE source IS NOT NULL
		UNION
		SELECT DISTINCT target AS id, ST_Distance(
			ST_Transform(geom, 3857),
			ST_Transform(ST_SetSRID(ST_Point($1, $2), 4326), 3857)
		) AS distance
		FROM road_edges
		WHERE target IS NOT NULL
		ORDER BY distance
		LIMIT 1
	`

	var id int64
	var distance float64
	err := r.pool.QueryRow(ctx, query, p.Lng, p.Lat).Scan(&id, &distance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("no road node near (%f, %f): %w", p.Lat, p.Lng, err)
		}
		return 0, fmt.Errorf("failed to query nearest road node: %w", err)
	}

	return id, nil
}

// NodeEdgeCount counts the distinct endpoints of the two nodes that are
// incident to at least one edge. Zero means the nodes are not part of the
// road network.
func (r *GraphRepository) NodeEdgeCount(ctx context.Context, source, target int64) (int, error) {
	query := `
		SELECT COUNT(*) AS count FROM (
			SELECT source AS node FROM road_edges WHERE source = $1 OR target = $1
			UNION
			SELECT target AS node FROM road_edges WHERE source = $2 OR target = $2
		) nodes
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, source, target).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count node edges: %w", err)
	}

	return count, nil
}

// KShortestPaths runs pgr_ksp over the positive-cost edges and joins the
// resulting edge list back against geometry and place labels. Rows come
// back ordered by (path_id, path_seq).
func (r *GraphRepository) KShortestPaths(ctx context.Context, source, target int64, k int) ([]routing.PathEdge, error) {
	query := `
		WITH paths AS (
			SELECT path_id, path_seq, node, edge, cost, agg_cost
			FROM pgr_ksp(
				'SELECT id, source, target, cost, reverse_cost FROM road_edges WHERE cost IS NOT NULL AND cost > 0',
				$1, $2, $3, false
			)
		)
		SELECT
			p.path_id,
			p.path_seq,
			ST_AsText(e.geom) AS geometry,
			COALESCE(pl1.name, 'Node ' || e.source) AS source,
			COALESCE(pl2.name, 'Node ' || e.target) AS target,
			p.cost AS distance
		FROM paths p
		JOIN road_edges e ON p.edge = e.id
		LEFT JOIN places pl1 ON e.source = pl1.id
		LEFT JOIN places pl2 ON e.target = pl2.id
		WHERE p.edge > 0
		ORDER BY p.path_id, p.path_seq
	`

	rows, err := r.pool.Query(ctx, query, source, target, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query k-shortest paths: %w", err)
	}
	defer rows.Close()

	var edges []routing.PathEdge
	for rows.Next() {
		var e routing.PathEdge
		if err := rows.Scan(&e.PathID, &e.PathSeq, &e.Geometry, &e.SourceLabel, &e.TargetLabel, &e.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan path edge row: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating path edge rows: %w", err)
	}

	return edges, nil
}
