package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"campus_router/pkg/geo"
	"campus_router/pkg/gpx"
	"campus_router/pkg/routing"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	engine *routing.Engine
	stats  StatsResponse
}

// NewHandlers creates handlers with the given routing engine.
func NewHandlers(engine *routing.Engine, stats StatsResponse) *Handlers {
	return &Handlers{
		engine: engine,
		stats:  stats,
	}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRouteRequest(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Route(r.Context(), req.Profile, req.Strategy,
		geo.LatLng{Lat: req.Start.Lat, Lng: req.Start.Lng},
		geo.LatLng{Lat: req.End.Lat, Lng: req.End.Lng})
	if err != nil {
		writeRouteError(w, err)
		return
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = routing.DefaultStrategy
	}
	resp := RouteResponse{
		Profile:         req.Profile,
		Strategy:        strategy,
		DistanceMeters:  result.DistanceMeters,
		DurationSeconds: result.DurationSeconds,
		StepCount:       result.StepCount,
		Geometry:        toLatLngJSON(result.Points),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleRouteGPX handles POST /api/v1/route/gpx: same request body as
// HandleRoute, but the response is a downloadable GPX 1.1 track.
func (h *Handlers) HandleRouteGPX(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRouteRequest(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Route(r.Context(), req.Profile, req.Strategy,
		geo.LatLng{Lat: req.Start.Lat, Lng: req.Start.Lng},
		geo.LatLng{Lat: req.End.Lat, Lng: req.End.Lng})
	if err != nil {
		writeRouteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="route.gpx"`)
	if err := gpx.Write(w, "Campus route ("+req.Profile+")", result.Points); err != nil {
		// Headers are already out; all we can do is log via the middleware
		// recovery path, so just drop the connection state.
		return
	}
}

// HandleProfiles handles GET /api/v1/profiles.
func (h *Handlers) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfilesResponse{Profiles: h.engine.Profiles()})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

// decodeRouteRequest parses and validates the shared route request body.
// On failure it writes the error response and returns ok=false.
func (h *Handlers) decodeRouteRequest(w http.ResponseWriter, r *http.Request) (RouteRequest, bool) {
	var req RouteRequest

	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return req, false
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return req, false
	}

	if req.Profile == "" {
		writeError(w, http.StatusBadRequest, "missing_profile", "profile")
		return req, false
	}
	if err := validateCoord(req.Start); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return req, false
	}
	if err := validateCoord(req.End); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end")
		return req, false
	}
	return req, true
}

func writeRouteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, routing.ErrUnknownProfile):
		writeError(w, http.StatusBadRequest, "unknown_profile", "profile")
	case errors.Is(err, routing.ErrUnknownStrategy):
		writeError(w, http.StatusBadRequest, "unknown_strategy", "strategy")
	case errors.Is(err, routing.ErrPointTooFar):
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_path", "")
	case errors.Is(err, routing.ErrNoRoute):
		writeError(w, http.StatusNotFound, "no_route_found", "")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func toLatLngJSON(pts []geo.LatLng) []LatLngJSON {
	out := make([]LatLngJSON, len(pts))
	for i, ll := range pts {
		out[i] = LatLngJSON{Lat: ll.Lat, Lng: ll.Lng}
	}
	return out
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
