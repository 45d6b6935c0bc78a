package handlers

import "github.com/vzahanych/weather-lookup-app/internal/weather"

// WeatherRequest is the query of GET /api/weather. Units falls back to the
// session unit when empty.
type WeatherRequest struct {
	City  string `form:"city" json:"city"`
	Units string `form:"units" json:"units" validate:"units"`
}

// WeatherResponse is a snapshot as served by the JSON API.
type WeatherResponse = weather.Snapshot

// ErrorResponse represents an error response with validation
type ErrorResponse struct {
	Error   string `json:"error" validate:"required,min=1,max=500"`
	Code    string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Details string `json:"details,omitempty" validate:"omitempty,max=1000"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string `json:"status" validate:"required,oneof=ok alive ready degraded unavailable"`
	Uptime    string `json:"uptime" validate:"required"`
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Detail    string `json:"detail,omitempty"`
}

// UnitsResponse answers the JSON flavour of the unit toggle.
type UnitsResponse struct {
	Units       string `json:"units"`
	ToggleLabel string `json:"toggle_label"`
}
