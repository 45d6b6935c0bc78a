package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: "London", want: "London"},
		{name: "surrounding spaces trimmed", raw: "  New York \t", want: "New York"},
		{name: "empty", raw: "", wantErr: true},
		{name: "spaces only", raw: "    ", wantErr: true},
		{name: "tabs and newlines", raw: "\t\n \r", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := City(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrCityRequired)
				assert.Equal(t, "Please enter a city name.", err.Error())
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type coords struct {
	Lat   float64 `json:"lat" validate:"latitude"`
	Lon   float64 `json:"lon" validate:"longitude"`
	Units string  `json:"units" validate:"units"`
}

func TestValidateStruct_CustomRules(t *testing.T) {
	require.NoError(t, ValidateStruct(coords{Lat: 51.5, Lon: -0.12, Units: "imperial"}))
	require.NoError(t, ValidateStruct(coords{Lat: -90, Lon: 180}))

	err := ValidateStruct(coords{Lat: 91, Lon: -181, Units: "kelvin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lat must be a valid latitude")
	assert.Contains(t, err.Error(), "lon must be a valid longitude")
	assert.Contains(t, err.Error(), "units must be one of: metric imperial")
}

func TestFormatValidationErrors_CityMessage(t *testing.T) {
	err := GetValidator().Struct(CityQuery{})
	require.Error(t, err)

	fieldErrs := FormatValidationErrors(err)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "city", fieldErrs[0].Field)
	assert.Equal(t, "required", fieldErrs[0].Tag)
	assert.Equal(t, CityRequiredMessage, fieldErrs[0].Message)
}

func TestValidateStruct_UnitsIgnoreCase(t *testing.T) {
	for _, u := range []string{"", "metric", "Imperial", " METRIC "} {
		assert.NoError(t, ValidateStruct(coords{Units: u}), u)
	}
	assert.Error(t, ValidateStruct(coords{Units: "Kelvin"}))
}
