package weather

import (
	"time"

	"github.com/vzahanych/weather-lookup-app/internal/forecast"
	"github.com/vzahanych/weather-lookup-app/internal/units"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Current struct {
	Name        string      `json:"name"`
	Temperature float64     `json:"temperature"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Coordinates Coordinates `json:"coordinates"`
}

// Snapshot is the result of one successful lookup. Unit is the unit the
// data was requested in, so it stays correct after the session toggles.
type Snapshot struct {
	Query     string           `json:"query"`
	Unit      units.Unit       `json:"units"`
	Current   Current          `json:"current"`
	Forecast  []forecast.Point `json:"forecast"`
	Timezone  string           `json:"timezone,omitempty"`
	FetchedAt string           `json:"fetched_at"`
}

func (s *Snapshot) Coordinates() Coordinates {
	return s.Current.Coordinates
}

func newFetchedAt() string {
	return time.Now().UTC().Format(time.RFC3339)
}
