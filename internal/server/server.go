package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-lookup-app/internal/config"
	"github.com/vzahanych/weather-lookup-app/internal/lookup"
	"github.com/vzahanych/weather-lookup-app/internal/openweather"
	"github.com/vzahanych/weather-lookup-app/internal/server/handlers"
	"github.com/vzahanych/weather-lookup-app/internal/server/middlewares"
	"github.com/vzahanych/weather-lookup-app/internal/server/views"
	"github.com/vzahanych/weather-lookup-app/internal/timezone"
	"github.com/vzahanych/weather-lookup-app/internal/units"
	"github.com/vzahanych/weather-lookup-app/internal/weather"
	"github.com/vzahanych/weather-lookup-app/pkg/telemetry"
)

type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	server  *http.Server
	fetcher *weather.Fetcher
	session *lookup.Session
	metrics *handlers.MetricsHandler
	httpMW  *middlewares.MetricsMiddleware
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

// NewFetcher builds the OpenWeatherMap-backed fetcher described by cfg.
func NewFetcher(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) *weather.Fetcher {
	client := openweather.NewClientWithConfig(cfg.Weather, logger, tele)

	var zones timezone.Service
	if cfg.Weather.Timezones {
		svc, err := timezone.NewService()
		if err != nil {
			logger.Warn("Timezone lookup disabled", zap.Error(err))
		} else {
			zones = svc
		}
	}

	return weather.NewFetcher(client, zones, logger, tele)
}

func NewServer(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	return New(cfg, NewFetcher(cfg, logger, tele), logger, tele)
}

// New wires the engine around an existing fetcher.
func New(cfg *config.Config, fetcher *weather.Fetcher, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	unit, err := units.Parse(cfg.Weather.DefaultUnits)
	if err != nil {
		logger.Warn("Falling back to default units",
			zap.String("configured", cfg.Weather.DefaultUnits),
			zap.String("units", units.Default.String()))
		unit = units.Default
	}

	httpMW, err := middlewares.NewMetricsMiddleware(logger, tele)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware(logger))
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMW.Handler())

	engine.SetHTMLTemplate(tmpl)

	metrics := handlers.NewMetricsHandler(logger, httpMW)
	fetcher.SetMetricsRecorder(metrics)

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		fetcher: fetcher,
		session: lookup.NewSession(fetcher, unit, logger),
		metrics: metrics,
		httpMW:  httpMW,
		logger:  logger,
		tele:    tele,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	page := handlers.NewPageHandler(s.session, s.cfg, s.logger, s.metrics)
	api := handlers.NewWeatherHandler(s.fetcher, s.session, s.logger, s.metrics)
	health := handlers.NewHealthHandler(s.logger, s.fetcher)

	// Page
	s.engine.GET("/", page.Index)
	s.engine.POST("/lookup", page.Lookup)
	s.engine.POST("/units/toggle", page.ToggleUnits)

	// JSON API
	s.engine.GET("/api/weather", api.GetWeather)
	s.engine.GET("/api/units", api.GetUnits)
	s.engine.POST("/api/units/toggle", api.ToggleUnits)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", s.metrics.ServeMetrics)
}

// Handler exposes the engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Session() *lookup.Session {
	return s.session
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}
