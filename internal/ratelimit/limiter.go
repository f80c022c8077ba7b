// Package ratelimit paces calls to the OpenFIGI endpoints. Each endpoint
// has its own minimum gap between calls; the first call on an endpoint
// proceeds immediately and every later call waits out the remainder of
// the gap.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Endpoint identifies a rate-limited OpenFIGI endpoint.
type Endpoint string

const (
	// EndpointMapping is the batched ISIN mapping endpoint (25 req/min
	// anonymous, enforced here as a 2.5s gap by default).
	EndpointMapping Endpoint = "mapping"
	// EndpointSearch is the name search endpoint (5 req/min anonymous,
	// enforced here as a 13s gap by default).
	EndpointSearch Endpoint = "search"
)

// Pacer holds one limiter per endpoint. It is injected into the
// orchestrator rather than shared globally so tests can run unpaced.
type Pacer struct {
	limiters map[Endpoint]*rate.Limiter
	gaps     map[Endpoint]time.Duration
}

// New creates a Pacer with the given minimum gaps between calls. A
// non-positive gap disables pacing for that endpoint.
func New(mappingDelay, searchDelay time.Duration) *Pacer {
	return &Pacer{
		limiters: map[Endpoint]*rate.Limiter{
			EndpointMapping: newLimiter(mappingDelay),
			EndpointSearch:  newLimiter(searchDelay),
		},
		gaps: map[Endpoint]time.Duration{
			EndpointMapping: max(mappingDelay, 0),
			EndpointSearch:  max(searchDelay, 0),
		},
	}
}

// Gap returns the configured minimum gap for an endpoint (zero when
// unpaced or unknown). Useful for time estimates shown to the user.
func (p *Pacer) Gap(endpoint Endpoint) time.Duration {
	return p.gaps[endpoint]
}

func newLimiter(gap time.Duration) *rate.Limiter {
	if gap <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(gap), 1)
}

// Wait blocks until the endpoint's gap has elapsed since the previous
// call, or returns early if the context is cancelled. Unknown endpoints
// pass through without waiting.
func (p *Pacer) Wait(ctx context.Context, endpoint Endpoint) error {
	limiter, ok := p.limiters[endpoint]
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
