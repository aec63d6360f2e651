// Package money provides drift-free arithmetic for currency amounts.
//
// Amounts carry at most two decimal places. Summing them as raw float64
// accumulates binary representation error (0.1 + 0.2 != 0.3), so every
// addition goes through a fixed-point scale of 100.
package money

import "math"

const scale = 100

// Add returns a + b without accumulating floating-point drift.
// NaN and infinite operands are treated as zero, so the function is total
// and stays associative and commutative over any finite sequence of calls.
func Add(a, b float64) float64 {
	return (toCents(a) + toCents(b)) / scale
}

// Round rounds v to two decimal places using the same fixed-point scale.
func Round(v float64) float64 {
	return toCents(v) / scale
}

func toCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v * scale)
}
