package views

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/vzahanych/weather-lookup-app/internal/config"
	"github.com/vzahanych/weather-lookup-app/internal/lookup"
	"github.com/vzahanych/weather-lookup-app/internal/weather"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const IndexTemplate = "index.tmpl"

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.tmpl")
}

// Page is everything index.tmpl needs.
type Page struct {
	Title       string
	Query       string
	InputError  string
	FetchError  string
	Unit        string
	ToggleLabel string
	Result      *Result
	Map         MapView
}

type Result struct {
	Name        string
	Description string
	IconURL     string
	Temperature string
	Timezone    string
	Lat         float64
	Lon         float64
	Chart       Chart
}

// Chart is serialized straight into the page script for Chart.js.
type Chart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Label  string    `json:"label"`
}

type MapView struct {
	TileURL     string
	Attribution string
	Zoom        int
}

func NewPage(v lookup.View, cfg *config.Config) Page {
	p := Page{
		Title:       "Weather lookup",
		Query:       v.Query,
		InputError:  v.InputError,
		FetchError:  v.FetchError,
		Unit:        v.Unit.String(),
		ToggleLabel: v.Unit.ToggleLabel(),
		Map: MapView{
			TileURL:     cfg.Map.TileURL,
			Attribution: cfg.Map.Attribution,
			Zoom:        cfg.Map.Zoom,
		},
	}

	if v.Snapshot != nil {
		p.Result = newResult(v.Snapshot, cfg.Weather.IconURL)
	}

	return p
}

func newResult(s *weather.Snapshot, iconURL string) *Result {
	suffix := s.Unit.Suffix()

	chart := Chart{
		Labels: make([]string, 0, len(s.Forecast)),
		Values: make([]float64, 0, len(s.Forecast)),
		Label:  "Temperature (°" + suffix + ")",
	}
	for _, pt := range s.Forecast {
		chart.Labels = append(chart.Labels, pt.Time)
		chart.Values = append(chart.Values, pt.Temp)
	}

	c := s.Coordinates()
	return &Result{
		Name:        s.Current.Name,
		Description: s.Current.Description,
		IconURL:     IconURL(iconURL, s.Current.Icon),
		Temperature: FormatTemperature(s.Current.Temperature, suffix),
		Timezone:    s.Timezone,
		Lat:         c.Lat,
		Lon:         c.Lon,
		Chart:       chart,
	}
}

// FormatTemperature renders 14.27 and "C" as "14.3°C".
func FormatTemperature(t float64, suffix string) string {
	return fmt.Sprintf("%.1f°%s", t, suffix)
}

// IconURL fills the icon code into a pattern such as
// "https://openweathermap.org/img/wn/%s@2x.png".
func IconURL(pattern, icon string) string {
	if icon == "" || pattern == "" {
		return ""
	}
	if !strings.Contains(pattern, "%s") {
		return strings.TrimRight(pattern, "/") + "/" + icon + ".png"
	}
	return fmt.Sprintf(pattern, icon)
}
