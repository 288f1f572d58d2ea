package models

import (
	"errors"
	"math"
)

// GeoPoint is a WGS84 coordinate pair.
// JSON field names match the frontend map client.
type GeoPoint struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// ErrInvalidCoordinates is returned when a point lies outside the WGS84 range
// or carries a non-finite value.
var ErrInvalidCoordinates = errors.New("invalid geographic coordinates")

// Validate checks that both coordinates are finite and within WGS84 bounds.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return ErrInvalidCoordinates
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// GeoBounds is an axis-aligned lat/lng box.
type GeoBounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether p lies inside the box (borders inclusive).
func (b GeoBounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// YaoundeBounds is the service area. Places geocoded outside this box are
// rejected rather than cached.
var YaoundeBounds = GeoBounds{
	MinLat: 3.75,
	MaxLat: 3.95,
	MinLng: 11.4,
	MaxLng: 11.6,
}
