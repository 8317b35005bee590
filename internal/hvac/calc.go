package hvac

import (
	"fmt"
	"math"
)

// maxRounded is where float64 no longer carries hundredths; larger values
// are returned unrounded so the scaling cannot overflow
const maxRounded = 1e15

// round2 rounds half away from zero to two decimals
func round2(x float64) float64 {
	if !finite(x) || math.Abs(x) >= maxRounded {
		return x
	}
	return math.Round(x*100) / 100
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Volume returns the room volume in m³ from surface area (m²) and height (m).
// The product of two finite values can still overflow; callers check the result.
func Volume(area, height float64) float64 {
	return round2(area * height)
}

// Debit converts a face velocity (m/s) through a filterX × filterY mm filter into m³/h
func Debit(velocity, filterXmm, filterYmm float64) float64 {
	return round2(velocity * (filterXmm / 1000) * (filterYmm / 1000) * 3600)
}

// AirChangeRate returns room volume turnovers per hour.
// A zero volume or non-finite input yields ErrArithmetic instead of Inf/NaN.
func AirChangeRate(totalDebit, volume float64) (float64, error) {
	if !finite(totalDebit, volume) {
		return 0, fmt.Errorf("air change rate: non-finite input: %w", ErrArithmetic)
	}
	if volume == 0 {
		return 0, fmt.Errorf("air change rate: room volume is zero: %w", ErrArithmetic)
	}
	ach := totalDebit / volume
	if !finite(ach) {
		return 0, fmt.Errorf("air change rate: result overflows: %w", ErrArithmetic)
	}
	return round2(ach), nil
}

// SamplePointCount is the minimum number of particle sampling locations for a room (ISO 14644-1)
func SamplePointCount(area float64) int {
	n := int(math.Round(math.Sqrt(10 * area)))
	if n < 4 {
		return 4
	}
	return n
}

// ISOClassFor classifies the mean 0.5µm particle count. Band upper bounds are inclusive.
func ISOClassFor(average05 float64) ISOClass {
	switch {
	case average05 <= 3520:
		return ISO7
	case average05 <= 35200:
		return ISO8
	case average05 <= 352000:
		return ISO9
	default:
		return ISO9Plus
	}
}

// Mean returns the arithmetic mean of the sample points. Each sample is
// scaled before summing so four finite samples always give a finite mean.
func Mean(samples Samples) float64 {
	n := float64(len(samples))
	var mean float64
	for _, v := range samples {
		mean += v / n
	}
	return mean
}
