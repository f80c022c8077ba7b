package resolve

import (
	"context"
	"time"

	"stockchange/internal/change"
	"stockchange/internal/dates"
)

// priceWindowDays is how far past each requested date the price query
// extends, so that holiday gaps still yield a close.
const priceWindowDays = 5

// PriceSource provides historical closing prices and the instrument
// currency for a window of days. Implemented by yahoo.Client.
type PriceSource interface {
	ClosingPrices(ctx context.Context, symbol string, from, to time.Time) (closes []float64, currency string, err error)
}

// Validation is the outcome of checking a candidate ticker against the
// price provider. When Valid, the prices fetched for the check are kept
// so the caller never needs a second round-trip.
type Validation struct {
	Valid      bool
	StartPrice float64
	EndPrice   float64
	Currency   string
}

// Validator confirms that a ticker actually has tradable price data for
// the requested dates.
type Validator struct {
	prices PriceSource
}

// NewValidator creates a Validator backed by the given price source.
func NewValidator(prices PriceSource) *Validator {
	return &Validator{prices: prices}
}

// Validate checks that fullTicker has price data on or shortly after
// both dates. Weekend dates are first moved to the next Monday; a 5-day
// window from each adjusted date absorbs holidays. The first close in
// each window is the representative price, rounded to two decimals.
// Every provider failure is downgraded to an invalid outcome; validation
// never propagates errors.
func (v *Validator) Validate(ctx context.Context, fullTicker string, start, end time.Time) Validation {
	adjustedStart, _ := dates.NextTradingDay(start)
	adjustedEnd, _ := dates.NextTradingDay(end)

	startCloses, currency, err := v.prices.ClosingPrices(ctx, fullTicker, adjustedStart, adjustedStart.AddDate(0, 0, priceWindowDays))
	if err != nil || len(startCloses) == 0 {
		return Validation{}
	}

	endCloses, _, err := v.prices.ClosingPrices(ctx, fullTicker, adjustedEnd, adjustedEnd.AddDate(0, 0, priceWindowDays))
	if err != nil || len(endCloses) == 0 {
		return Validation{}
	}

	if currency == "" {
		currency = "N/A"
	}

	return Validation{
		Valid:      true,
		StartPrice: change.Round2(startCloses[0]),
		EndPrice:   change.Round2(endCloses[0]),
		Currency:   currency,
	}
}
