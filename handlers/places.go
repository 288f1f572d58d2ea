package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/yaounde-maps/map-api/models"
	"github.com/yaounde-maps/map-api/places"
	"github.com/yaounde-maps/map-api/repository"
)

// PlaceFinder defines the interface for place lookups
type PlaceFinder interface {
	Search(ctx context.Context, name string) ([]models.Place, error)
	Closest(ctx context.Context, p models.GeoPoint) (*models.Place, error)
}

// PlaceHandler handles HTTP requests for place data
type PlaceHandler struct {
	finder PlaceFinder
}

// NewPlaceHandler creates a new handler with the given finder
func NewPlaceHandler(finder PlaceFinder) *PlaceHandler {
	return &PlaceHandler{finder: finder}
}

// SearchPlacesResponse is the JSON response structure for GET /api/places/search
type SearchPlacesResponse struct {
	Places []models.Place `json:"places"`
	Count  int            `json:"count"`
}

// SearchPlaces handles GET /api/places/search?name=...
func (h *PlaceHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.URL.Query().Get("name")

	found, err := h.finder.Search(ctx, name)
	if err != nil {
		if errors.Is(err, places.ErrNameRequired) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "The name parameter is required",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to search places",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	if found == nil {
		found = []models.Place{}
	}
	writeJSON(w, http.StatusOK, SearchPlacesResponse{
		Places: found,
		Count:  len(found),
	})
}

// ClosestPlace handles GET /api/places/closest?lat=...&lng=...
func (h *PlaceHandler) ClosestPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid geographic coordinates",
		})
		return
	}

	place, err := h.finder.Closest(ctx, models.GeoPoint{Lat: lat, Lng: lng})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCoordinates) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "Invalid geographic coordinates",
			})
			return
		}
		if errors.Is(err, repository.ErrPlaceNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error: "No place found near the provided coordinates",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to find closest place",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, place)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
