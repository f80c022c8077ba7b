package resolve

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"stockchange/internal/openfigi"
	"stockchange/internal/ratelimit"
	"stockchange/internal/stocks"
)

// MappingSource provides identifier lookups. Implemented by
// openfigi.Client.
type MappingSource interface {
	MapISINs(ctx context.Context, isins []string) ([]openfigi.MappingResult, error)
	Search(ctx context.Context, query string) ([]openfigi.Candidate, error)
}

// Resolution is the outcome of resolving one input stock. Exactly one of
// these is produced per input, in input order.
//
// NotFound implies the price fields are nil. Skipped means the input
// already carried a ticker and no lookup happened; its prices are
// fetched later by the per-stock processor.
type Resolution struct {
	Ticker       string
	ExchangeCode string
	FullTicker   string
	NotFound     bool
	Skipped      bool
	StartPrice   *float64
	EndPrice     *float64
	Currency     string
}

// Resolver drives batch ticker resolution: it partitions the input into
// already-ticketed, ISIN-batchable and name-only stocks, calls the
// mapping endpoints with correct batching and pacing, validates every
// candidate against the price provider, and merges results back in
// input order.
type Resolver struct {
	figi      MappingSource
	validator *Validator
	selector  *Selector
	rules     Rules
	pacer     *ratelimit.Pacer
	batchSize int

	// Progress receives human-readable progress lines. Defaults to
	// stdout; tests point it at io.Discard.
	Progress io.Writer
}

// New creates a Resolver. batchSize is capped at the mapping endpoint's
// job limit.
func New(figi MappingSource, prices PriceSource, rules Rules, pacer *ratelimit.Pacer, batchSize int) *Resolver {
	if batchSize < 1 || batchSize > openfigi.MaxMappingBatch {
		batchSize = openfigi.MaxMappingBatch
	}

	validator := NewValidator(prices)

	return &Resolver{
		figi:      figi,
		validator: validator,
		selector:  NewSelector(rules, validator),
		rules:     rules,
		pacer:     pacer,
		batchSize: batchSize,
		Progress:  os.Stdout,
	}
}

// Validator exposes the resolver's validator for callers that need
// standalone validation with the same price source.
func (r *Resolver) Validator() *Validator {
	return r.validator
}

// ResolveAll resolves every input stock, returning one Resolution per
// input in the same order. Any lookup failure (rate limit, transport,
// unexpected status) aborts the whole run; per-stock misses are recorded
// as NotFound and do not stop processing.
func (r *Resolver) ResolveAll(ctx context.Context, reqs []stocks.Request, start, end time.Time) ([]Resolution, error) {
	results := make([]Resolution, len(reqs))

	var isinIdx, nameIdx []int
	for i, req := range reqs {
		switch {
		case req.Ticker != "":
			// Already ticketed; prices are fetched later by the processor.
			results[i] = Resolution{Ticker: req.Ticker, Skipped: true}
		case req.ISIN != "":
			isinIdx = append(isinIdx, i)
		default:
			nameIdx = append(nameIdx, i)
		}
	}

	if len(isinIdx) == 0 && len(nameIdx) == 0 {
		return results, nil
	}

	fmt.Fprintf(r.Progress, "Looking up %d stock tickers (%d by ISIN, %d by name)...\n",
		len(isinIdx)+len(nameIdx), len(isinIdx), len(nameIdx))

	if err := r.resolveISINs(ctx, reqs, isinIdx, results, start, end); err != nil {
		return nil, err
	}

	if err := r.resolveNames(ctx, reqs, nameIdx, results, start, end); err != nil {
		return nil, err
	}

	return results, nil
}

// resolveISINs drives the batched mapping endpoint for all ISIN-only
// stocks, writing each outcome into results at its original index.
func (r *Resolver) resolveISINs(ctx context.Context, reqs []stocks.Request, isinIdx []int, results []Resolution, start, end time.Time) error {
	if len(isinIdx) == 0 {
		return nil
	}

	batchCount := (len(isinIdx) + r.batchSize - 1) / r.batchSize

	for batchNum := 0; batchNum < batchCount; batchNum++ {
		batch := isinIdx[batchNum*r.batchSize : min((batchNum+1)*r.batchSize, len(isinIdx))]

		if err := r.pacer.Wait(ctx, ratelimit.EndpointMapping); err != nil {
			return err
		}

		isins := make([]string, len(batch))
		for j, idx := range batch {
			isins[j] = reqs[idx].ISIN
		}

		mapped, err := r.figi.MapISINs(ctx, isins)
		if err != nil {
			return err
		}

		for j, idx := range batch {
			if j >= len(mapped) || !mapped[j].Matched() {
				results[idx] = Resolution{NotFound: true}
				continue
			}

			first := mapped[j].Data[0]
			fullTicker := r.rules.FullTicker(first.Ticker, first.ExchCode)

			validation := r.validator.Validate(ctx, fullTicker, start, end)
			if !validation.Valid {
				// The mapping gave us a ticker the price provider does not
				// recognise; treat it as not found rather than half-resolved.
				results[idx] = Resolution{NotFound: true}
				continue
			}

			results[idx] = Resolution{
				Ticker:       SanitizeTicker(first.Ticker),
				ExchangeCode: first.ExchCode,
				FullTicker:   fullTicker,
				StartPrice:   floatPtr(validation.StartPrice),
				EndPrice:     floatPtr(validation.EndPrice),
				Currency:     validation.Currency,
			}
		}

		fmt.Fprintf(r.Progress, "  ISIN batch %d/%d complete (%d stocks)\n", batchNum+1, batchCount, len(batch))
	}

	return nil
}

// resolveNames drives the search endpoint one stock at a time (the
// endpoint does not support batching), applying the priority selector to
// each response.
func (r *Resolver) resolveNames(ctx context.Context, reqs []stocks.Request, nameIdx []int, results []Resolution, start, end time.Time) error {
	if len(nameIdx) == 0 {
		return nil
	}

	if gap := r.pacer.Gap(ratelimit.EndpointSearch); gap > 0 {
		fmt.Fprintf(r.Progress, "  Note: Name lookups are rate-limited. Estimated time: ~%d minutes\n",
			int(time.Duration(len(nameIdx))*gap/time.Minute))
	}

	for n, idx := range nameIdx {
		if err := r.pacer.Wait(ctx, ratelimit.EndpointSearch); err != nil {
			return err
		}

		candidates, err := r.figi.Search(ctx, reqs[idx].Name)
		if err != nil {
			return err
		}

		selected, ok := r.selector.Select(ctx, candidates, reqs[idx].Name, start, end)
		if !ok {
			results[idx] = Resolution{NotFound: true}
		} else {
			results[idx] = Resolution{
				Ticker:       selected.Ticker,
				ExchangeCode: selected.ExchangeCode,
				FullTicker:   selected.FullTicker,
				StartPrice:   floatPtr(selected.StartPrice),
				EndPrice:     floatPtr(selected.EndPrice),
				Currency:     selected.Currency,
			}
		}

		if (n+1)%5 == 0 || n == len(nameIdx)-1 {
			fmt.Fprintf(r.Progress, "  Name lookup %d/%d complete\n", n+1, len(nameIdx))
		}
	}

	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
