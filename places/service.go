// Package places answers "where is place X": local table first, external
// geocoder as fallback, with in-bounds geocode results cached back into the
// local table.
package places

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/yaounde-maps/map-api/models"
)

// ErrNameRequired is returned by Search for blank names.
var ErrNameRequired = errors.New("the name parameter is required")

// PlaceStore is the local place table. Implemented by
// repository.PlaceRepository and repository.SQLitePlaceRepository.
type PlaceStore interface {
	FindByNameContaining(ctx context.Context, name string) ([]models.Place, error)
	FindClosest(ctx context.Context, p models.GeoPoint) (*models.Place, error)
	Save(ctx context.Context, place models.Place) error
}

// Geocoder resolves a free-text name to a place, or nil when unknown.
type Geocoder interface {
	Search(ctx context.Context, name string) (*models.Place, error)
}

// Service is the place lookup façade.
type Service struct {
	store    PlaceStore
	geocoder Geocoder
	bounds   models.GeoBounds
}

// NewService creates a place service bounded to the given area.
func NewService(store PlaceStore, geocoder Geocoder, bounds models.GeoBounds) *Service {
	return &Service{store: store, geocoder: geocoder, bounds: bounds}
}

// Search finds places by name. When the local table has no match, the name
// is geocoded; in-bounds results are written back to the table and the
// local search is re-run so the caller always sees table rows.
func (s *Service) Search(ctx context.Context, name string) ([]models.Place, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	normalized := normalizeName(name)
	found, err := s.store.FindByNameContaining(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	if len(found) > 0 {
		return found, nil
	}

	geocoded, err := s.geocoder.Search(ctx, name)
	if err != nil {
		log.Printf("places: geocoder lookup failed for %q: %v", name, err)
		return found, nil
	}
	if geocoded == nil {
		log.Printf("places: no geocoder match for %q", name)
		return found, nil
	}

	if !s.bounds.Contains(geocoded.Coordinates) {
		log.Printf("places: geocoded %q outside service area (%f, %f), not cached",
			name, geocoded.Coordinates.Lat, geocoded.Coordinates.Lng)
		return found, nil
	}

	geocoded.Name = normalizeName(geocoded.Name)
	if err := s.store.Save(ctx, *geocoded); err != nil {
		log.Printf("places: failed to cache geocoded place %q: %v", geocoded.Name, err)
		return found, nil
	}

	found, err = s.store.FindByNameContaining(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("re-search places: %w", err)
	}
	return found, nil
}

// Closest returns the place nearest to the validated coordinates.
func (s *Service) Closest(ctx context.Context, p models.GeoPoint) (*models.Place, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.store.FindClosest(ctx, p)
}

// normalizeName strips diacritics, lowercases, and trims. Place names are
// stored normalized so that "Ngoa-Ékélé" and "ngoa-ekele" match.
func normalizeName(name string) string {
	decomposed := norm.NFD.String(name)
	var sb strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.ToLower(strings.TrimSpace(sb.String()))
}
