package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/yaounde-maps/map-api/models"
)

// RoutePlanner defines the interface for route orchestration
type RoutePlanner interface {
	Route(ctx context.Context, start, end models.GeoPoint, mode models.TravelMode, startLabel, endLabel string) models.RouteResponse
	RouteWithDetour(ctx context.Context, start, detour, end models.GeoPoint, mode models.TravelMode, startLabel, detourLabel, endLabel string) models.RouteResponse
}

// RouteHandler handles HTTP requests for route calculation
type RouteHandler struct {
	planner  RoutePlanner
	validate *validator.Validate
}

// NewRouteHandler creates a new handler with the given planner
func NewRouteHandler(planner RoutePlanner) *RouteHandler {
	return &RouteHandler{
		planner:  planner,
		validate: validator.New(),
	}
}

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CalculateRoute handles POST /api/routes
// Validates the two points and mode before any routing attempt, then runs
// the two-tier orchestration.
func (h *RouteHandler) CalculateRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body models.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRouteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&body); err != nil {
		writeRouteError(w, http.StatusBadRequest, validationMessage(err, "Exactly two points are required for routing"))
		return
	}

	mode, ok := models.ParseTravelMode(body.Mode)
	if !ok {
		writeRouteError(w, http.StatusBadRequest, "Invalid travel mode")
		return
	}

	startLabel := body.StartPlaceName
	if startLabel == "" {
		startLabel = "Unknown Start"
	}
	endLabel := body.EndPlaceName
	if endLabel == "" {
		endLabel = "Unknown Destination"
	}

	response := h.planner.Route(ctx, body.Points[0], body.Points[1], mode, startLabel, endLabel)
	writeRouteResponse(w, response)
}

// CalculateRouteWithDetour handles POST /api/routes/with-detour
// Validates the three points and transport mode, then composes the two
// detour legs.
func (h *RouteHandler) CalculateRouteWithDetour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body models.DetourRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRouteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&body); err != nil {
		writeRouteError(w, http.StatusBadRequest, validationMessage(err, "Start, detour and end points are required"))
		return
	}

	mode, ok := models.ParseDetourMode(body.TransportMode)
	if !ok {
		writeRouteError(w, http.StatusBadRequest, "Invalid travel mode")
		return
	}

	response := h.planner.RouteWithDetour(ctx,
		*body.Start, *body.Detour, *body.End,
		mode,
		body.StartPlaceName, body.DetourPlaceName, body.EndPlaceName,
	)
	writeRouteResponse(w, response)
}

// validationMessage distinguishes structural failures (missing or
// wrong-arity points) from coordinate-range failures. Structural problems
// win when both are present.
func validationMessage(err error, structuralMsg string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fieldErr := range verrs {
			if fieldErr.Tag() == "required" || fieldErr.Tag() == "len" {
				return structuralMsg
			}
		}
	}
	return "Invalid geographic coordinates"
}

// writeRouteResponse maps the response shape onto a status code: any
// populated Error field is a 500, everything else a 200.
func writeRouteResponse(w http.ResponseWriter, response models.RouteResponse) {
	w.Header().Set("Content-Type", "application/json")
	if response.Error != "" {
		w.WriteHeader(http.StatusInternalServerError)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(response)
}

// writeRouteError rejects a request before any routing attempt occurs.
func writeRouteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.RouteResponse{Error: msg})
}
