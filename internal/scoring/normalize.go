// Package scoring turns unit-interval signals into rubric bands and combines component
// bands into an overall band.
package scoring

import "math"

const (
	// MinBand and MaxBand bound every band.
	MinBand = 1.0
	MaxBand = 9.0
	bandSpan = MaxBand - MinBand
)

// ToBand maps a score in [0, 1] linearly onto [1, 9]. Out-of-range input is clamped.
func ToBand(unit float64) float64 {
	return MinBand + clamp(unit, 0, 1)*bandSpan
}

// RoundHalf rounds a band to the nearest 0.5. Ties go to the even half step.
func RoundHalf(band float64) float64 {
	return math.RoundToEven(band*2) / 2
}

// ClampBand limits a band to [1, 9].
func ClampBand(band float64) float64 {
	return clamp(band, MinBand, MaxBand)
}

// Normalize clamps then rounds, producing a band on the half-step lattice.
func Normalize(band float64) float64 {
	return ClampBand(RoundHalf(ClampBand(band)))
}

// Percentage maps a band linearly onto [0, 100]: band 1 is 0%, band 9 is 100%.
func Percentage(band float64) float64 {
	return (band - MinBand) * 100 / bandSpan
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
