package views

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzahanych/weather-lookup-app/internal/config"
	"github.com/vzahanych/weather-lookup-app/internal/forecast"
	"github.com/vzahanych/weather-lookup-app/internal/lookup"
	"github.com/vzahanych/weather-lookup-app/internal/units"
	"github.com/vzahanych/weather-lookup-app/internal/weather"
)

func london(unit units.Unit) *weather.Snapshot {
	return &weather.Snapshot{
		Query: "London",
		Unit:  unit,
		Current: weather.Current{
			Name:        "London",
			Temperature: 14.3,
			Description: "broken clouds",
			Icon:        "04d",
			Coordinates: weather.Coordinates{Lat: 51.5085, Lon: -0.1257},
		},
		Forecast: []forecast.Point{
			{Time: "2024-05-01 12:00:00", Temp: 11.2},
			{Time: "2024-05-02 12:00:00", Temp: 13.9},
		},
		Timezone: "Europe/London",
	}
}

func render(t *testing.T, p Page) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, IndexTemplate, p))
	return buf.String()
}

func TestNewPage_Empty(t *testing.T) {
	p := NewPage(lookup.View{Unit: units.Metric}, config.NewDefaultConfig())

	assert.Nil(t, p.Result)
	assert.Equal(t, "Change to Fahrenheit", p.ToggleLabel)

	html := render(t, p)
	assert.Contains(t, html, `name="city"`)
	assert.Contains(t, html, "Change to Fahrenheit")
	assert.NotContains(t, html, "forecast-chart")
	assert.NotContains(t, html, `role="alert"`)
}

func TestNewPage_LondonMetric(t *testing.T) {
	cfg := config.NewDefaultConfig()
	p := NewPage(lookup.View{Unit: units.Metric, Query: "London", Snapshot: london(units.Metric)}, cfg)

	require.NotNil(t, p.Result)
	assert.Equal(t, "London", p.Result.Name)
	assert.Equal(t, "14.3°C", p.Result.Temperature)
	assert.Equal(t, "https://openweathermap.org/img/wn/04d@2x.png", p.Result.IconURL)
	assert.Equal(t, 51.5085, p.Result.Lat)
	assert.Equal(t, -0.1257, p.Result.Lon)
	assert.Equal(t, []string{"2024-05-01 12:00:00", "2024-05-02 12:00:00"}, p.Result.Chart.Labels)
	assert.Equal(t, []float64{11.2, 13.9}, p.Result.Chart.Values)

	html := render(t, p)
	assert.Contains(t, html, "London")
	assert.Regexp(t, regexp.MustCompile(`\d+(\.\d+)?°C`), html)
	assert.Contains(t, html, "51.5085")
	assert.Contains(t, html, "-0.1257")
	assert.Contains(t, html, "Europe/London")
	assert.Contains(t, html, `"labels":["2024-05-01 12:00:00","2024-05-02 12:00:00"]`)
}

func TestNewPage_SuffixFollowsSnapshotUnit(t *testing.T) {
	// Session already toggled to imperial, snapshot still metric.
	p := NewPage(lookup.View{Unit: units.Imperial, Snapshot: london(units.Metric)}, config.NewDefaultConfig())

	assert.Equal(t, "14.3°C", p.Result.Temperature)
	assert.Equal(t, "Change to Celsius", p.ToggleLabel)

	p = NewPage(lookup.View{Unit: units.Imperial, Snapshot: london(units.Imperial)}, config.NewDefaultConfig())
	assert.Equal(t, "14.3°F", p.Result.Temperature)
	assert.Equal(t, "Temperature (°F)", p.Result.Chart.Label)
}

func TestNewPage_ErrorsAndStaleSnapshot(t *testing.T) {
	v := lookup.View{
		Unit:       units.Metric,
		Query:      "Qwxyzzz",
		FetchError: weather.FetchFailedMessage,
		Snapshot:   london(units.Metric),
	}
	html := render(t, NewPage(v, config.NewDefaultConfig()))

	assert.Contains(t, html, "Oops! Couldn&#39;t retrieve data.")
	assert.Contains(t, html, `value="Qwxyzzz"`)
	assert.Contains(t, html, "forecast-chart")
}

func TestNewPage_InputError(t *testing.T) {
	html := render(t, NewPage(lookup.View{Unit: units.Metric, InputError: "Please enter a city name."}, config.NewDefaultConfig()))
	assert.Contains(t, html, "Please enter a city name.")
}

func TestIconURL(t *testing.T) {
	assert.Equal(t, "https://x/img/10n@2x.png", IconURL("https://x/img/%s@2x.png", "10n"))
	assert.Equal(t, "https://x/img/10n.png", IconURL("https://x/img/", "10n"))
	assert.Empty(t, IconURL("https://x/img/%s.png", ""))
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "-3.0°F", FormatTemperature(-3, "F"))
	assert.Equal(t, "0.1°C", FormatTemperature(0.05, "C"))
}
