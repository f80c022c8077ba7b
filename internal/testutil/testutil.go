package testutil

import (
	"context"
	"time"

	"stockchange/internal/openfigi"
)

// PriceSourceFunc adapts a function to the resolve.PriceSource interface.
type PriceSourceFunc func(ctx context.Context, symbol string, from, to time.Time) ([]float64, string, error)

// ClosingPrices implements the price source interface.
func (f PriceSourceFunc) ClosingPrices(ctx context.Context, symbol string, from, to time.Time) ([]float64, string, error) {
	return f(ctx, symbol, from, to)
}

// StaticPrices returns a price source that serves the same fixed closes
// for a symbol regardless of the requested window. Symbols absent from
// the map yield an empty window, which validators treat as invalid.
func StaticPrices(closesBySymbol map[string][]float64, currency string) PriceSourceFunc {
	return func(ctx context.Context, symbol string, from, to time.Time) ([]float64, string, error) {
		return closesBySymbol[symbol], currency, nil
	}
}

// MockMappingSource is a mock implementation of the resolve.MappingSource
// interface for testing.
type MockMappingSource struct {
	MapISINsFunc func(ctx context.Context, isins []string) ([]openfigi.MappingResult, error)
	SearchFunc   func(ctx context.Context, query string) ([]openfigi.Candidate, error)
}

// MapISINs implements the mapping source interface.
func (m *MockMappingSource) MapISINs(ctx context.Context, isins []string) ([]openfigi.MappingResult, error) {
	if m.MapISINsFunc != nil {
		return m.MapISINsFunc(ctx, isins)
	}
	return nil, nil
}

// Search implements the mapping source interface.
func (m *MockMappingSource) Search(ctx context.Context, query string) ([]openfigi.Candidate, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

// MappingResultFor wraps candidates in a matched mapping result, the way
// the mapping endpoint reports a successful job.
func MappingResultFor(candidates ...openfigi.Candidate) openfigi.MappingResult {
	return openfigi.MappingResult{Data: candidates}
}

// NoMatchResult returns a mapping result carrying the provider's
// no-identifier-found warning sentinel.
func NoMatchResult() openfigi.MappingResult {
	return openfigi.MappingResult{Warning: []byte(`"No identifier found."`)}
}
