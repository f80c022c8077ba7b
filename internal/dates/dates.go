// Package dates handles the dd-mmm-yy date format used throughout the
// tool and the weekend-to-trading-day adjustment.
package dates

import (
	"fmt"
	"regexp"
	"time"
)

// Layout is the input/output date format (e.g. 01-Jan-25).
const Layout = "02-Jan-06"

var pattern = regexp.MustCompile(`^\d{2}-[A-Za-z]{3}-\d{2}$`)

// Valid reports whether s matches the dd-mmm-yy format.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Parse parses a dd-mmm-yy date string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected dd-mmm-yy (e.g. 01-Jan-25): %w", s, err)
	}
	return t, nil
}

// Format renders a date in dd-mmm-yy format.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// NextTradingDay moves a weekend date forward to the following Monday and
// reports whether an adjustment was made. Weekdays pass through unchanged.
// Public holidays are not handled here; the price provider implicitly
// returns the next available trading day when queried over a window.
func NextTradingDay(t time.Time) (time.Time, bool) {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2), true
	case time.Sunday:
		return t.AddDate(0, 0, 1), true
	default:
		return t, false
	}
}
