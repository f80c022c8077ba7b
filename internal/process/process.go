// Package process turns a resolved stock into a final result record:
// prices on both dates, percentage movement and currency, or a
// per-stock error string.
package process

import (
	"context"
	"fmt"
	"time"

	"stockchange/internal/change"
	"stockchange/internal/dates"
	"stockchange/internal/resolve"
	"stockchange/internal/stocks"
)

// Error strings recorded on rows that could not be processed.
const (
	errNotFound       = "Stock details not found"
	errDelisted       = "Delisted"
	errZeroStartPrice = "Start price is zero"
)

// priceWindowDays matches the validator's holiday-absorbing window.
const priceWindowDays = 5

// Processor produces one ResultRecord per stock. Stocks resolved through
// the engine already carry cached prices; user-supplied tickers bypass
// resolution, so their prices are fetched here.
type Processor struct {
	prices resolve.PriceSource
}

// New creates a Processor backed by the given price source.
func New(prices resolve.PriceSource) *Processor {
	return &Processor{prices: prices}
}

// Process builds the result record for one stock. The returned notes
// describe weekend date adjustments made during a live price fetch, for
// surfacing alongside the output table. Per-stock failures are recorded
// in the row's Err field, never returned as errors.
func (p *Processor) Process(ctx context.Context, req stocks.Request, res resolve.Resolution, start, end time.Time) (stocks.ResultRecord, []string) {
	record := stocks.ResultRecord{
		Name:   req.Name,
		Ticker: recordTicker(req, res),
		ISIN:   req.ISIN,
	}

	if res.NotFound || record.Ticker == "" {
		record.Err = errNotFound
		return record, nil
	}

	if res.StartPrice != nil && res.EndPrice != nil && res.Currency != "" {
		// Prices were cached during resolution; no further I/O needed.
		fill(&record, *res.StartPrice, *res.EndPrice, res.Currency)
		return record, nil
	}

	return p.processLive(ctx, record, req.Name, start, end)
}

// processLive fetches prices for a ticker that bypassed resolution,
// adjusting weekend dates and noting each adjustment.
func (p *Processor) processLive(ctx context.Context, record stocks.ResultRecord, name string, start, end time.Time) (stocks.ResultRecord, []string) {
	var notes []string

	adjustedStart, startAdjusted := dates.NextTradingDay(start)
	if startAdjusted {
		notes = append(notes, fmt.Sprintf("Start date adjusted to %s (next trading day) for: %s", dates.Format(adjustedStart), name))
	}

	adjustedEnd, endAdjusted := dates.NextTradingDay(end)
	if endAdjusted {
		notes = append(notes, fmt.Sprintf("End date adjusted to %s (next trading day) for: %s", dates.Format(adjustedEnd), name))
	}

	startCloses, currency, err := p.prices.ClosingPrices(ctx, record.Ticker, adjustedStart, adjustedStart.AddDate(0, 0, priceWindowDays))
	if err != nil || len(startCloses) == 0 {
		record.Err = errDelisted
		return record, notes
	}

	endCloses, _, err := p.prices.ClosingPrices(ctx, record.Ticker, adjustedEnd, adjustedEnd.AddDate(0, 0, priceWindowDays))
	if err != nil || len(endCloses) == 0 {
		record.Err = errDelisted
		return record, notes
	}

	if currency == "" {
		currency = "N/A"
	}

	fill(&record, startCloses[0], endCloses[0], currency)
	return record, notes
}

// recordTicker picks the ticker shown on the output row: the
// exchange-qualified ticker when resolution produced one, otherwise
// whatever the user supplied.
func recordTicker(req stocks.Request, res resolve.Resolution) string {
	if res.FullTicker != "" {
		return res.FullTicker
	}
	if res.Ticker != "" {
		return res.Ticker
	}
	return req.Ticker
}

// fill completes a record from a start/end price pair, or records the
// zero-start-price error when the percentage is undefined.
func fill(record *stocks.ResultRecord, startPrice, endPrice float64, currency string) {
	percentage, err := change.Percent(startPrice, endPrice)
	if err != nil {
		record.Err = errZeroStartPrice
		return
	}

	start := change.Round2(startPrice)
	end := change.Round2(endPrice)
	pct := change.Round2(percentage)

	record.StartPrice = &start
	record.EndPrice = &end
	record.Percentage = &pct
	record.Currency = currency
}
