package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/weather-lookup-app/internal/config"
	"github.com/vzahanych/weather-lookup-app/internal/server/handlers"
	"github.com/vzahanych/weather-lookup-app/internal/weather"
	"github.com/vzahanych/weather-lookup-app/pkg/telemetry"
)

const londonCurrent = `{
  "coord": {"lon": -0.1257, "lat": 51.5085},
  "weather": [{"description": "broken clouds", "icon": "04d"}],
  "main": {"temp": 14.3},
  "name": "London"
}`

// fakeOWM answers London and 404s everything else.
type fakeOWM struct {
	calls atomic.Int32
	units atomic.Value
}

func (f *fakeOWM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.units.Store(r.URL.Query().Get("units"))

	if r.URL.Query().Get("q") != "London" {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/weather":
		_, _ = w.Write([]byte(londonCurrent))
	case "/forecast":
		entries := make([]string, 0, 16)
		for i := 0; i < 16; i++ {
			entries = append(entries, fmt.Sprintf(`{"main":{"temp":%d.5},"dt_txt":"2024-05-%02d %02d:00:00"}`, i, 1+i/8, (i%8)*3))
		}
		_, _ = w.Write([]byte(`{"list":[` + strings.Join(entries, ",") + `]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestServer(t *testing.T, apiKey string) (*Server, *fakeOWM) {
	t.Helper()

	owm := &fakeOWM{}
	upstream := httptest.NewServer(owm)
	t.Cleanup(upstream.Close)

	cfg := config.NewDefaultConfig()
	cfg.Weather.BaseURL = upstream.URL
	cfg.Weather.APIKey = apiKey
	cfg.Weather.Timeout = 2
	cfg.Weather.Timezones = false

	srv, err := NewServer(cfg, zaptest.NewLogger(t), &telemetry.Telemetry{})
	require.NoError(t, err)

	return srv, owm
}

func do(t *testing.T, srv *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func submit(t *testing.T, srv *Server, city string) string {
	t.Helper()

	w := do(t, srv, http.MethodPost, "/lookup", url.Values{"city": {city}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	page := do(t, srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, page.Code)
	return page.Body.String()
}

func TestServer_EmptyPage(t *testing.T) {
	srv, owm := newTestServer(t, "secret")

	w := do(t, srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, `name="city"`)
	assert.Contains(t, body, "Change to Fahrenheit")
	assert.NotContains(t, body, "forecast-chart")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Zero(t, owm.calls.Load())
}

func TestServer_LookupLondon(t *testing.T) {
	srv, owm := newTestServer(t, "secret")

	body := submit(t, srv, "  London ")

	assert.EqualValues(t, 2, owm.calls.Load())
	assert.Equal(t, "metric", owm.units.Load())
	assert.Contains(t, body, `<div class="name">London</div>`)
	assert.Regexp(t, regexp.MustCompile(`\d+(\.\d+)?°C`), body)
	assert.Contains(t, body, "broken clouds")
	assert.Contains(t, body, "https://openweathermap.org/img/wn/04d@2x.png")
	assert.Contains(t, body, "51.5085")
	assert.Contains(t, body, "-0.1257")
	assert.Contains(t, body, "2024-05-01 00:00:00")
	assert.Contains(t, body, "2024-05-02 00:00:00")
	assert.NotContains(t, body, "2024-05-01 03:00:00")
}

func TestServer_BlankInput(t *testing.T) {
	srv, owm := newTestServer(t, "secret")

	body := submit(t, srv, "   ")

	assert.Contains(t, body, "Please enter a city name.")
	assert.Zero(t, owm.calls.Load())
}

func TestServer_UnknownCityKeepsSnapshot(t *testing.T) {
	srv, owm := newTestServer(t, "secret")

	submit(t, srv, "London")
	body := submit(t, srv, "Atlantisxyz")

	assert.Contains(t, body, "retrieve data. Please double-check the city name or try again later.")
	assert.Contains(t, body, `<div class="name">London</div>`)
	// current failed, forecast never requested
	assert.EqualValues(t, 3, owm.calls.Load())
}

func TestServer_ToggleKeepsSnapshotUnit(t *testing.T) {
	srv, owm := newTestServer(t, "secret")

	submit(t, srv, "London")

	w := do(t, srv, http.MethodPost, "/units/toggle", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	body := do(t, srv, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Change to Celsius")
	assert.Contains(t, body, "14.3°C")
	assert.EqualValues(t, 2, owm.calls.Load())

	submit(t, srv, "London")
	assert.Equal(t, "imperial", owm.units.Load())
}

func TestServer_MissingAPIKey(t *testing.T) {
	srv, owm := newTestServer(t, "")

	body := submit(t, srv, "London")
	assert.Contains(t, body, weather.MissingAPIKeyMessage)
	assert.Zero(t, owm.calls.Load())

	w := do(t, srv, http.MethodGet, "/api/weather?city=London", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var apiErr handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, "MISSING_API_KEY", apiErr.Code)

	w = do(t, srv, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
}

func TestServer_WeatherAPI(t *testing.T) {
	srv, _ := newTestServer(t, "secret")

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{name: "blank city", target: "/api/weather?city=%20", status: http.StatusBadRequest, code: "CITY_REQUIRED"},
		{name: "bad units", target: "/api/weather?city=London&units=kelvin", status: http.StatusBadRequest, code: "INVALID_PARAMS"},
		{name: "unknown city", target: "/api/weather?city=Nowhere", status: http.StatusBadGateway, code: "FETCH_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, w.Code)

			var apiErr handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
			assert.NotEmpty(t, apiErr.Error)
		})
	}

	t.Run("success", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/weather?city=London&units=imperial", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap handlers.WeatherResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, "London", snap.Current.Name)
		assert.Equal(t, "imperial", snap.Unit.String())
		assert.Len(t, snap.Forecast, 2)
		assert.InDelta(t, 51.5085, snap.Current.Coordinates.Lat, 1e-9)
	})

	t.Run("units are case-insensitive", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/weather?city=London&units=Imperial", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap handlers.WeatherResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, "imperial", snap.Unit.String())
	})

	// the JSON API never touches page state
	body := do(t, srv, http.MethodGet, "/", nil).Body.String()
	assert.NotContains(t, body, "forecast-chart")
}

func TestServer_UnitsAPI(t *testing.T) {
	srv, _ := newTestServer(t, "secret")

	var resp handlers.UnitsResponse
	w := do(t, srv, http.MethodGet, "/api/units", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "metric", resp.Units)

	w = do(t, srv, http.MethodPost, "/api/units/toggle", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "imperial", resp.Units)
	assert.Equal(t, "Change to Celsius", resp.ToggleLabel)
	assert.Equal(t, "imperial", srv.Session().Unit().String())
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, "secret")

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		w := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	submit(t, srv, "London")
	submit(t, srv, "")
	do(t, srv, http.MethodPost, "/units/toggle", url.Values{})

	w := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `weather_lookups_total{outcome="success"} 1`)
	assert.Contains(t, body, `weather_lookups_total{outcome="invalid"} 1`)
	assert.Contains(t, body, "weather_unit_toggles_total 1")
	assert.Contains(t, body, `weather_provider_calls_total{endpoint="current"} 1`)
	assert.Contains(t, body, `weather_provider_calls_total{endpoint="forecast"} 1`)
	assert.Contains(t, body, `http_requests_total{route_status="POST /lookup_303"} 2`)
}
