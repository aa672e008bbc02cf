package api

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	Start    LatLngJSON `json:"start"`
	End      LatLngJSON `json:"end"`
	Profile  string     `json:"profile"`
	Strategy string     `json:"strategy,omitempty"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	Profile         string       `json:"profile"`
	Strategy        string       `json:"strategy"`
	DistanceMeters  float64      `json:"distance_meters"`
	DurationSeconds float64      `json:"duration_seconds"`
	StepCount       int          `json:"step_count"`
	Geometry        []LatLngJSON `json:"geometry"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ProfilesResponse is the JSON response for GET /api/v1/profiles.
type ProfilesResponse struct {
	Profiles []string `json:"profiles"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes uint32 `json:"num_nodes"`
	NumEdges uint32 `json:"num_edges"`
	NumPOIs  int    `json:"num_pois"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
