// Package change computes percentage price movement between two prices.
package change

import (
	"errors"
	"math"
)

// ErrZeroStartPrice is returned when the starting price is zero, which
// would make the percentage change undefined.
var ErrZeroStartPrice = errors.New("cannot calculate percentage change from a zero start price")

// Percent returns the percentage change from start to end
// (e.g. 100 -> 150 yields 50.0).
func Percent(start, end float64) (float64, error) {
	if start == 0 {
		return 0, ErrZeroStartPrice
	}
	return (end - start) / start * 100, nil
}

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
