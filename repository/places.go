package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yaounde-maps/map-api/models"
)

// ErrPlaceNotFound is returned when a lookup has no candidate row.
var ErrPlaceNotFound = errors.New("place not found")

// PlaceRepository reads and writes the curated places table
// {id, name, geom}. Writes only happen through the geocoding cache path.
type PlaceRepository struct {
	pool *pgxpool.Pool
}

// NewPlaceRepository creates a repository over the shared pool.
func NewPlaceRepository(pool *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{pool: pool}
}

// FindByNameContaining returns up to 10 places whose name contains the
// (already normalized) fragment, case-insensitively.
func (r *PlaceRepository) FindByNameContaining(ctx context.Context, name string) ([]models.Place, error) {
	query := `
		SELECT id, name, ST_X(geom) AS lng, ST_Y(geom) AS lat
		FROM places
		WHERE name ILIKE $1
		LIMIT 10
	`

	rows, err := r.pool.Query(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query places by name: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Coordinates.Lng, &p.Coordinates.Lat); err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating place rows: %w", err)
	}

	return places, nil
}

// FindClosest returns the place nearest to the coordinates using the
// KNN geometry operator.
func (r *PlaceRepository) FindClosest(ctx context.Context, p models.GeoPoint) (*models.Place, error) {
	query := `
		SELECT id, name, ST_X(geom) AS lng, ST_Y(geom) AS lat
		FROM places
		WHERE geom IS NOT NULL
		ORDER BY geom <-> ST_SetSRID(ST_Point($1, $2), 4326)
		LIMIT 1
	`

	var place models.Place
	err := r.pool.QueryRow(ctx, query, p.Lng, p.Lat).Scan(&place.ID, &place.Name, &place.Coordinates.Lng, &place.Coordinates.Lat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("failed to query closest place: %w", err)
	}

	return &place, nil
}

// NearestPlaceID returns only the id of the nearest place. The node
// resolver uses it as the second tier when the road graph has no endpoint
// near the query point.
func (r *PlaceRepository) NearestPlaceID(ctx context.Context, p models.GeoPoint) (int64, error) {
	query := `
		SELECT id
		FROM places
		WHERE geom IS NOT NULL
		ORDER BY geom <-> ST_SetSRID(ST_Point($1, $2), 4326)
		LIMIT 1
	`

	var id int64
	err := r.pool.QueryRow(ctx, query, p.Lng, p.Lat).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPlaceNotFound
		}
		return 0, fmt.Errorf("failed to query nearest place: %w", err)
	}

	return id, nil
}

// Save inserts a geocoded place. Called only for results inside the
// service-area bounds.
func (r *PlaceRepository) Save(ctx context.Context, place models.Place) error {
	query := `
		INSERT INTO places (name, geom)
		VALUES ($1, ST_SetSRID(ST_Point($2, $3), 4326))
	`

	if _, err := r.pool.Exec(ctx, query, place.Name, place.Coordinates.Lng, place.Coordinates.Lat); err != nil {
		return fmt.Errorf("failed to insert place: %w", err)
	}

	return nil
}
