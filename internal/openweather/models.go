package openweather

// CurrentResponse is the part of /weather the lookup consumes.
type CurrentResponse struct {
	Name    string      `json:"name" validate:"required"`
	Coord   Coord       `json:"coord"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather" validate:"min=1,dive"`
}

type Coord struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

type Main struct {
	Temp *float64 `json:"temp" validate:"required"`
}

type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon" validate:"required"`
}

// ForecastResponse is the part of /forecast the lookup consumes: the
// 3-hourly list, oldest first.
type ForecastResponse struct {
	List []ForecastEntry `json:"list" validate:"dive"`
}

type ForecastEntry struct {
	DtTxt string `json:"dt_txt" validate:"required"`
	Main  Main   `json:"main"`
}

// Temperature returns main.temp; it is only nil before validation.
func (m Main) Temperature() float64 {
	if m.Temp == nil {
		return 0
	}
	return *m.Temp
}
