package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-lookup-app/internal/config"
	"github.com/vzahanych/weather-lookup-app/internal/units"
	"github.com/vzahanych/weather-lookup-app/internal/validation"
	"github.com/vzahanych/weather-lookup-app/pkg/telemetry"
)

const (
	currentEndpoint  = "/weather"
	forecastEndpoint = "/forecast"

	userAgent = "weather-lookup/1.0"
)

var ErrNoAPIKey = errors.New("openweather: api key not configured")

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Endpoint string
	Code     int
	Status   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %s", e.Endpoint, e.Status)
}

// Client talks to the OpenWeatherMap 2.5 API. It never retries.
type Client struct {
	apiKey string
	client *resty.Client
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

func NewClientWithConfig(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetLogger(&redactingLogger{log: logger.Sugar(), secret: cfg.APIKey})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("OpenWeatherMap response",
			zap.String("method", resp.Request.Method),
			zap.String("endpoint", requestPath(resp)),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("latency", resp.Time()),
			zap.Int("body_size", len(resp.Body())))
		return nil
	})

	return &Client{
		apiKey: cfg.APIKey,
		client: client,
		logger: logger,
		tele:   tele,
	}
}

func (c *Client) Name() string {
	return "openweathermap"
}

func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Current fetches current conditions for a city.
func (c *Client) Current(ctx context.Context, city string, unit units.Unit) (*CurrentResponse, error) {
	var out CurrentResponse
	if err := c.get(ctx, currentEndpoint, city, unit, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast fetches the 5 day / 3 hour forecast for a city.
func (c *Client) Forecast(ctx context.Context, city string, unit units.Unit) (*ForecastResponse, error) {
	var out ForecastResponse
	if err := c.get(ctx, forecastEndpoint, city, unit, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, endpoint, city string, unit units.Unit, out interface{}) error {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather"+endpoint)
	defer span.End()

	span.SetAttributes(
		attribute.String("city", city),
		attribute.String("units", unit.String()),
		attribute.String("endpoint", endpoint),
	)

	if c.apiKey == "" {
		span.SetAttributes(attribute.Bool("success", false))
		return ErrNoAPIKey
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": c.apiKey,
			"units": unit.String(),
		}).
		Get(endpoint)
	if err != nil {
		// *url.Error carries the full URL, appid included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		span.SetAttributes(attribute.Bool("success", false))
		return fmt.Errorf("failed to send request to %s: %w", endpoint, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		span.SetAttributes(attribute.Bool("success", false))
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode(), Status: resp.Status()}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}

	if err := validation.ValidateStruct(out); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return fmt.Errorf("unexpected %s payload: %w", endpoint, err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

// requestPath is the request URL without its query, which holds the key.
func requestPath(resp *resty.Response) string {
	if resp.Request.RawRequest != nil && resp.Request.RawRequest.URL != nil {
		return resp.Request.RawRequest.URL.Path
	}
	if u, err := url.Parse(resp.Request.URL); err == nil {
		return u.Path
	}
	return ""
}

// redactingLogger is handed to resty so its own messages never carry
// the API key.
type redactingLogger struct {
	log    *zap.SugaredLogger
	secret string
}

func (l *redactingLogger) redact(format string, v []interface{}) string {
	msg := fmt.Sprintf(format, v...)
	if l.secret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, l.secret, "REDACTED")
}

func (l *redactingLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(l.redact(format, v))
}

func (l *redactingLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(l.redact(format, v))
}

func (l *redactingLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(l.redact(format, v))
}
