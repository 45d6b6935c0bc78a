package units

import (
	"fmt"
	"strings"
)

// Unit is the measurement system used both as the `units` query parameter
// of the provider and as the display suffix of temperatures.
type Unit string

const (
	Metric   Unit = "metric"
	Imperial Unit = "imperial"
)

// Default is the unit every session starts with.
const Default = Metric

func Parse(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

func (u Unit) Valid() bool {
	return u == Metric || u == Imperial
}

// Toggle flips metric and imperial. Anything else toggles to metric.
func (u Unit) Toggle() Unit {
	if u == Metric {
		return Imperial
	}
	return Metric
}

// Suffix returns the temperature scale letter.
func (u Unit) Suffix() string {
	if u == Imperial {
		return "F"
	}
	return "C"
}

// ToggleLabel names the unit that is NOT active, for the switch button.
func (u Unit) ToggleLabel() string {
	if u == Imperial {
		return "Change to Celsius"
	}
	return "Change to Fahrenheit"
}

func (u Unit) String() string {
	return string(u)
}
