package weather

import (
	"errors"

	"github.com/vzahanych/weather-lookup-app/internal/validation"
)

const (
	MissingAPIKeyMessage = "API key is missing. Please check your .env configuration."
	FetchFailedMessage   = "Oops! Couldn't retrieve data. Please double-check the city name or try again later."
)

var (
	ErrMissingAPIKey = errors.New(MissingAPIKeyMessage)
	// ErrFetchFailed covers every provider failure: transport, unknown
	// city, bad credentials and malformed payloads alike.
	ErrFetchFailed = errors.New(FetchFailedMessage)
)

// UserMessage maps err to the fixed text shown to users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validation.ErrCityRequired):
		return validation.CityRequiredMessage
	case errors.Is(err, ErrMissingAPIKey):
		return MissingAPIKeyMessage
	default:
		return FetchFailedMessage
	}
}
