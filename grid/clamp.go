package grid

import (
	"math"

	"github.com/danielpuglisi/kn-cli/catalog"
)

// Clamp applies the row's value policy:
// integer rows truncate toward zero then clamp to [0, cap];
// fractional rows clamp then round to two decimals.
// Attribute rows have an infinite cap. NaN maps to zero.
func Clamp(row catalog.RowDefinition, raw float64) float64 {
	if math.IsNaN(raw) {
		return 0
	}

	v := raw
	if row.ValueType == catalog.Integer {
		v = math.Trunc(v)
	}

	limit := row.Cap
	if row.Kind == catalog.KindAttribute {
		limit = math.Inf(1)
	}
	v = math.Max(0, math.Min(v, limit))

	if row.ValueType == catalog.Fractional {
		v = Round2(v)
		if v > limit {
			v = limit
		}
	}
	return v
}

// OutOfBounds reports whether raw lies outside the row's [0, cap] range
func OutOfBounds(row catalog.RowDefinition, raw float64) bool {
	if math.IsNaN(raw) || raw < 0 {
		return true
	}
	return row.Kind == catalog.KindMetric && raw > row.Cap
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	if math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}
