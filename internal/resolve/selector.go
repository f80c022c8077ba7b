package resolve

import (
	"context"
	"strings"
	"time"

	"stockchange/internal/openfigi"
)

// Selected is a search candidate that passed filtering and price
// validation, carrying the prices fetched during validation.
type Selected struct {
	Ticker       string
	ExchangeCode string
	Name         string
	FullTicker   string
	Validation
}

// Selector picks the best candidate from a name search using an
// AND-filter with exchange priority ordering.
type Selector struct {
	rules     Rules
	validator *Validator
}

// NewSelector creates a Selector with the given rules and validator.
func NewSelector(rules Rules, validator *Validator) *Selector {
	return &Selector{rules: rules, validator: validator}
}

// Select walks the exchange priority list and, within each tier, the
// candidates in their original API order. A candidate is structurally
// acceptable only when its security type is allowed, its exchange equals
// the current tier, and the lower-cased query appears in its lower-cased
// name. Each structural match is validated against the price provider;
// the first valid one wins. A failed validation continues the scan with
// the remaining candidates of the same tier before moving to the next
// tier. There is no unvalidated fallback: exhaustion means not found.
func (s *Selector) Select(ctx context.Context, candidates []openfigi.Candidate, query string, start, end time.Time) (Selected, bool) {
	queryLower := strings.ToLower(query)

	for _, exchange := range s.rules.ExchangePriority {
		for _, candidate := range candidates {
			if !s.rules.acceptableSecurityType(candidate) {
				continue
			}
			if candidate.ExchCode != exchange {
				continue
			}
			if !strings.Contains(strings.ToLower(candidate.Name), queryLower) {
				continue
			}

			fullTicker := s.rules.FullTicker(candidate.Ticker, candidate.ExchCode)

			validation := s.validator.Validate(ctx, fullTicker, start, end)
			if !validation.Valid {
				continue
			}

			return Selected{
				Ticker:       SanitizeTicker(candidate.Ticker),
				ExchangeCode: candidate.ExchCode,
				Name:         candidate.Name,
				FullTicker:   fullTicker,
				Validation:   validation,
			}, true
		}
	}

	return Selected{}, false
}
