package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-lookup-app/internal/lookup"
	"github.com/vzahanych/weather-lookup-app/internal/server/utils"
	"github.com/vzahanych/weather-lookup-app/internal/units"
	"github.com/vzahanych/weather-lookup-app/internal/validation"
	"github.com/vzahanych/weather-lookup-app/internal/weather"
)

// LookupRecorder interface for recording lookup metrics
type LookupRecorder interface {
	RecordLookup(ctx context.Context, outcome lookup.Outcome)
	RecordUnitToggle(ctx context.Context)
}

// WeatherHandler serves the JSON API. Lookups here do not touch the page
// state; only the default unit is read from the session.
type WeatherHandler struct {
	fetcher lookup.Fetcher
	session *lookup.Session
	logger  *zap.Logger
	metrics LookupRecorder
}

func NewWeatherHandler(fetcher lookup.Fetcher, session *lookup.Session, logger *zap.Logger, metrics LookupRecorder) *WeatherHandler {
	return &WeatherHandler{
		fetcher: fetcher,
		session: session,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if err := validation.ValidateStruct(req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	city, err := validation.City(req.City)
	if err != nil {
		h.record(ctx, lookup.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: weather.UserMessage(err),
			Code:  "CITY_REQUIRED",
		})
		return
	}

	unit := h.session.Unit()
	if req.Units != "" {
		unit, _ = units.Parse(req.Units)
	}

	reqLogger.Info("Processing weather request",
		zap.String("city", city),
		zap.String("units", unit.String()))

	snap, err := h.fetcher.Fetch(ctx, city, unit)
	if err != nil {
		h.record(ctx, lookup.OutcomeFailed)

		status, code := http.StatusBadGateway, "FETCH_FAILED"
		if errors.Is(err, weather.ErrMissingAPIKey) {
			status, code = http.StatusServiceUnavailable, "MISSING_API_KEY"
		}

		reqLogger.Error("Failed to get weather data", zap.Error(err))
		c.JSON(status, ErrorResponse{
			Error: weather.UserMessage(err),
			Code:  code,
		})
		return
	}

	h.record(ctx, lookup.OutcomeSuccess)
	reqLogger.Info("Weather request completed successfully",
		zap.Int("forecast_points", len(snap.Forecast)))

	c.JSON(http.StatusOK, WeatherResponse(*snap))
}

// GetUnits returns the session unit.
func (h *WeatherHandler) GetUnits(c *gin.Context) {
	unit := h.session.Unit()
	c.JSON(http.StatusOK, UnitsResponse{Units: unit.String(), ToggleLabel: unit.ToggleLabel()})
}

// ToggleUnits flips the session unit and returns the new one.
func (h *WeatherHandler) ToggleUnits(c *gin.Context) {
	unit := h.session.ToggleUnit()
	if h.metrics != nil {
		h.metrics.RecordUnitToggle(utils.GetContextFromGinContext(c))
	}
	c.JSON(http.StatusOK, UnitsResponse{Units: unit.String(), ToggleLabel: unit.ToggleLabel()})
}

func (h *WeatherHandler) record(ctx context.Context, outcome lookup.Outcome) {
	if h.metrics != nil {
		h.metrics.RecordLookup(ctx, outcome)
	}
}
