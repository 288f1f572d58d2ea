package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yaounde-maps/map-api/models"

	_ "modernc.org/sqlite"
)

// SQLitePlaceRepository reads a local SQLite mirror of the places table
// {id, name, lat, lng}. It backs deployments without a Postgres place table
// and keeps the place endpoints usable offline. The mirror is read-only:
// geocode cache writes stay in Postgres.
type SQLitePlaceRepository struct {
	db *sql.DB
}

// NewSQLitePlaceRepository opens the mirror database and verifies it.
func NewSQLitePlaceRepository(dbPath string) (*SQLitePlaceRepository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLitePlaceRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLitePlaceRepository) Close() error {
	return r.db.Close()
}

// FindByNameContaining returns up to 10 places whose name contains the
// fragment, case-insensitively.
func (r *SQLitePlaceRepository) FindByNameContaining(ctx context.Context, name string) ([]models.Place, error) {
	query := `
		SELECT id, name, lat, lng
		FROM places
		WHERE lower(name) LIKE ?
		LIMIT 10
	`

	rows, err := r.db.QueryContext(ctx, query, "%"+strings.ToLower(name)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query places by name: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Coordinates.Lat, &p.Coordinates.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating place rows: %w", err)
	}

	return places, nil
}

// FindClosest orders by squared degree distance. Good enough at city scale
// where the mirror is used; the Postgres path uses real projected distance.
func (r *SQLitePlaceRepository) FindClosest(ctx context.Context, p models.GeoPoint) (*models.Place, error) {
	query := `
		SELECT id, name, lat, lng
		FROM places
		WHERE lat IS NOT NULL AND lng IS NOT NULL
		ORDER BY (lat - ?) * (lat - ?) + (lng - ?) * (lng - ?)
		LIMIT 1
	`

	var place models.Place
	err := r.db.QueryRowContext(ctx, query, p.Lat, p.Lat, p.Lng, p.Lng).
		Scan(&place.ID, &place.Name, &place.Coordinates.Lat, &place.Coordinates.Lng)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("failed to query closest place: %w", err)
	}

	return &place, nil
}

// NearestPlaceID returns only the id of the nearest place.
func (r *SQLitePlaceRepository) NearestPlaceID(ctx context.Context, p models.GeoPoint) (int64, error) {
	query := `
		SELECT id
		FROM places
		WHERE lat IS NOT NULL AND lng IS NOT NULL
		ORDER BY (lat - ?) * (lat - ?) + (lng - ?) * (lng - ?)
		LIMIT 1
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, p.Lat, p.Lat, p.Lng, p.Lng).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPlaceNotFound
		}
		return 0, fmt.Errorf("failed to query nearest place: %w", err)
	}

	return id, nil
}

// Save is rejected: the mirror is a read-only snapshot.
func (r *SQLitePlaceRepository) Save(ctx context.Context, place models.Place) error {
	return errors.New("place mirror is read-only")
}
