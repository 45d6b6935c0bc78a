package forecast

// EntriesPerDay is the number of 3-hour forecast steps in a day.
const EntriesPerDay = 8

// Point is one forecast observation as it is plotted: the provider's
// timestamp text, unchanged, and the temperature.
type Point struct {
	Time string  `json:"time"`
	Temp float64 `json:"temp"`
}

// Sample keeps every element whose index is a multiple of stride,
// preserving order. A stride below 1 keeps everything.
func Sample[T any](entries []T, stride int) []T {
	if stride < 1 {
		stride = 1
	}

	out := make([]T, 0, (len(entries)+stride-1)/stride)
	for i := 0; i < len(entries); i += stride {
		out = append(out, entries[i])
	}
	return out
}

// Daily reduces 3-hourly entries to one per day.
func Daily[T any](entries []T) []T {
	return Sample(entries, EntriesPerDay)
}
