package weather

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-lookup-app/internal/forecast"
	"github.com/vzahanych/weather-lookup-app/internal/openweather"
	"github.com/vzahanych/weather-lookup-app/internal/timezone"
	"github.com/vzahanych/weather-lookup-app/internal/units"
	"github.com/vzahanych/weather-lookup-app/pkg/logger"
	"github.com/vzahanych/weather-lookup-app/pkg/telemetry"
)

// Provider is the upstream weather API.
type Provider interface {
	Name() string
	HasAPIKey() bool
	Current(ctx context.Context, city string, unit units.Unit) (*openweather.CurrentResponse, error)
	Forecast(ctx context.Context, city string, unit units.Unit) (*openweather.ForecastResponse, error)
}

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordProviderCall(ctx context.Context, endpoint string, success bool)
}

type Fetcher struct {
	provider Provider
	zones    timezone.Service
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder
}

// NewFetcher wires a provider. zones may be nil, in which case snapshots
// carry no timezone.
func NewFetcher(provider Provider, zones timezone.Service, logger *zap.Logger, tele *telemetry.Telemetry) *Fetcher {
	return &Fetcher{
		provider: provider,
		zones:    zones,
		logger:   logger,
		tele:     tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for the fetcher
func (f *Fetcher) SetMetricsRecorder(metrics MetricsRecorder) {
	f.metrics = metrics
}

func (f *Fetcher) Configured() bool {
	return f.provider.HasAPIKey()
}

// Fetch requests current conditions and then, only if that worked, the
// forecast. Errors are ErrMissingAPIKey or wrap ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, city string, unit units.Unit) (*Snapshot, error) {
	tracer := f.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "weather.Fetch")
	defer span.End()

	reqLogger := logger.ForContext(ctx, f.logger)

	span.SetAttributes(
		attribute.String("city", city),
		attribute.String("units", unit.String()),
		attribute.String("provider", f.provider.Name()),
	)

	if !f.provider.HasAPIKey() {
		reqLogger.Warn("Weather lookup without API key", zap.String("city", city))
		span.SetAttributes(attribute.Bool("success", false))
		return nil, ErrMissingAPIKey
	}

	reqLogger.Debug("Fetching current conditions",
		zap.String("city", city),
		zap.String("units", unit.String()))

	cur, err := f.provider.Current(ctx, city, unit)
	f.record(ctx, "current", err == nil)
	if err != nil {
		return nil, f.fail(ctx, reqLogger, "current", city, err)
	}

	fc, err := f.provider.Forecast(ctx, city, unit)
	f.record(ctx, "forecast", err == nil)
	if err != nil {
		return nil, f.fail(ctx, reqLogger, "forecast", city, err)
	}

	snap := &Snapshot{
		Query:     city,
		Unit:      unit,
		Current:   toCurrent(cur),
		Forecast:  forecast.Daily(toPoints(fc)),
		FetchedAt: newFetchedAt(),
	}
	snap.Timezone = f.lookupTimezone(reqLogger, snap.Current.Coordinates)

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("forecast_entries", len(fc.List)),
		attribute.Int("forecast_points", len(snap.Forecast)),
	)

	reqLogger.Info("Weather lookup completed",
		zap.String("city", city),
		zap.String("name", snap.Current.Name),
		zap.Int("forecast_points", len(snap.Forecast)))

	return snap, nil
}

func (f *Fetcher) fail(ctx context.Context, reqLogger *zap.Logger, endpoint, city string, err error) error {
	f.tele.RecordError(err, ctx, map[string]interface{}{"endpoint": endpoint, "city": city})
	reqLogger.Warn("Weather provider call failed",
		zap.String("endpoint", endpoint),
		zap.String("city", city),
		zap.Error(err))
	return fmt.Errorf("%w: %s: %w", ErrFetchFailed, endpoint, err)
}

func (f *Fetcher) record(ctx context.Context, endpoint string, success bool) {
	if f.metrics != nil {
		f.metrics.RecordProviderCall(ctx, endpoint, success)
	}
}

func (f *Fetcher) lookupTimezone(reqLogger *zap.Logger, c Coordinates) string {
	if f.zones == nil {
		return ""
	}
	name, err := f.zones.GetTimezone(c.Lat, c.Lon)
	if err != nil {
		reqLogger.Debug("Timezone lookup failed", zap.Error(err))
		return ""
	}
	return name
}

func toCurrent(r *openweather.CurrentResponse) Current {
	c := Current{
		Name:        r.Name,
		Temperature: r.Main.Temperature(),
		Coordinates: Coordinates{Lat: r.Coord.Lat, Lon: r.Coord.Lon},
	}
	if len(r.Weather) > 0 {
		c.Description = r.Weather[0].Description
		c.Icon = r.Weather[0].Icon
	}
	return c
}

func toPoints(r *openweather.ForecastResponse) []forecast.Point {
	points := make([]forecast.Point, 0, len(r.List))
	for _, e := range r.List {
		points = append(points, forecast.Point{Time: e.DtTxt, Temp: e.Main.Temperature()})
	}
	return points
}
