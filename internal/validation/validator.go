package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CityRequiredMessage is shown next to the city field when it is blank.
const CityRequiredMessage = "Please enter a city name."

var ErrCityRequired = errors.New(CityRequiredMessage)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
	validate.RegisterValidation("units", validateUnits)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

func GetValidator() *validator.Validate {
	return validate
}

// CityQuery is the single field of the lookup form.
type CityQuery struct {
	City string `form:"city" json:"city" validate:"required"`
}

// City trims the raw form value and checks that something is left.
func City(raw string) (string, error) {
	q := CityQuery{City: strings.TrimSpace(raw)}
	if err := validate.Struct(q); err != nil {
		return "", ErrCityRequired
	}
	return q.City, nil
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180.0 && lon <= 180.0
}

func validateUnits(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "", "metric", "imperial":
		return true
	}
	return false
}

type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, err := range validatorErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Value:   err.Value(),
				Tag:     err.Tag(),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	if err.Field() == "city" && err.Tag() == "required" {
		return CityRequiredMessage
	}

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "latitude":
		return fmt.Sprintf("%s must be a valid latitude between -90 and 90 degrees", err.Field())
	case "longitude":
		return fmt.Sprintf("%s must be a valid longitude between -180 and 180 degrees", err.Field())
	case "units":
		return fmt.Sprintf("%s must be one of: metric imperial", err.Field())
	case "min":
		return fmt.Sprintf("%s must contain at least %s entries", err.Field(), err.Param())
	case "dive":
		return fmt.Sprintf("%s contains an invalid entry", err.Field())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

// ValidateStruct runs the tag rules on s and returns a readable error
// listing every failing field, or nil.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs := FormatValidationErrors(err)
	if len(fieldErrs) == 0 {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Message)
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
