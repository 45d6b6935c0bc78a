package handlers

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-lookup-app/internal/lookup"
)

// AppMetrics holds application-level metrics (lookups, provider calls)
type AppMetrics struct {
	mutex          sync.RWMutex
	lookups        map[string]int64
	unitToggles    int64
	providerCalls  map[string]int64
	providerErrors map[string]int64
}

// HTTPMetricsSource is implemented by the metrics middleware.
type HTTPMetricsSource interface {
	Snapshot() (requests map[string]int64, avgDuration float64, active int64)
}

type MetricsHandler struct {
	logger     *zap.Logger
	appMetrics *AppMetrics
	http       HTTPMetricsSource
}

func NewMetricsHandler(logger *zap.Logger, http HTTPMetricsSource) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		http:   http,
		appMetrics: &AppMetrics{
			lookups:        make(map[string]int64),
			providerCalls:  make(map[string]int64),
			providerErrors: make(map[string]int64),
		},
	}
}

// RecordLookup counts a form or API submission by outcome
func (h *MetricsHandler) RecordLookup(ctx context.Context, outcome lookup.Outcome) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.lookups[string(outcome)]++
	h.appMetrics.mutex.Unlock()
}

// RecordUnitToggle counts unit switches
func (h *MetricsHandler) RecordUnitToggle(ctx context.Context) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.unitToggles++
	h.appMetrics.mutex.Unlock()
}

// RecordProviderCall records a weather API call
func (h *MetricsHandler) RecordProviderCall(ctx context.Context, endpoint string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.providerCalls[endpoint]++
	if !success {
		h.appMetrics.providerErrors[endpoint]++
	}
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes metrics in Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		requests, avgDuration, active := h.http.Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, key := range sortedKeys(requests) {
			b.WriteString("http_requests_total{route_status=\"" + key + "\"} " + strconv.FormatInt(requests[key], 10) + "\n")
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(avgDuration, 'f', 6, 64) + "\n")

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		b.WriteString("http_active_requests " + strconv.FormatInt(active, 10) + "\n\n")
	}

	h.appMetrics.mutex.RLock()
	defer h.appMetrics.mutex.RUnlock()

	b.WriteString("# HELP weather_lookups_total Lookups by outcome\n")
	b.WriteString("# TYPE weather_lookups_total counter\n")
	for _, outcome := range sortedKeys(h.appMetrics.lookups) {
		b.WriteString("weather_lookups_total{outcome=\"" + outcome + "\"} " + strconv.FormatInt(h.appMetrics.lookups[outcome], 10) + "\n")
	}

	b.WriteString("\n# HELP weather_unit_toggles_total Unit switches\n")
	b.WriteString("# TYPE weather_unit_toggles_total counter\n")
	b.WriteString("weather_unit_toggles_total " + strconv.FormatInt(h.appMetrics.unitToggles, 10) + "\n")

	b.WriteString("\n# HELP weather_provider_calls_total Total weather API calls\n")
	b.WriteString("# TYPE weather_provider_calls_total counter\n")
	for _, endpoint := range sortedKeys(h.appMetrics.providerCalls) {
		b.WriteString("weather_provider_calls_total{endpoint=\"" + endpoint + "\"} " + strconv.FormatInt(h.appMetrics.providerCalls[endpoint], 10) + "\n")
	}

	b.WriteString("\n# HELP weather_provider_errors_total Total weather API errors\n")
	b.WriteString("# TYPE weather_provider_errors_total counter\n")
	for _, endpoint := range sortedKeys(h.appMetrics.providerErrors) {
		b.WriteString("weather_provider_errors_total{endpoint=\"" + endpoint + "\"} " + strconv.FormatInt(h.appMetrics.providerErrors[endpoint], 10) + "\n")
	}

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, b.String())
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
