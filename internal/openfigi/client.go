// Package openfigi is a client for the Bloomberg OpenFIGI identifier
// APIs: the mapping endpoint (batched ISIN lookups) and the search
// endpoint (free-text name lookups).
//
// The client executes one call at a time and reports the outcome; it does
// not schedule delays. Pacing between calls is the caller's job (see
// internal/ratelimit) because the provider's limits are per endpoint and
// the orchestrator decides when the next call happens.
package openfigi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"resty.dev/v3"
)

// MaxMappingBatch is the maximum number of jobs per mapping request
// (anonymous API limit).
const MaxMappingBatch = 10

// Candidate is a single instrument returned by the mapping or search API.
type Candidate struct {
	Ticker        string `json:"ticker"`
	ExchCode      string `json:"exchCode"`
	SecurityType  string `json:"securityType"`
	SecurityType2 string `json:"securityType2"`
	Name          string `json:"name"`
}

// MappingResult is the per-job envelope of a mapping response. The API
// returns one entry per submitted job, in request order; a job that
// matched nothing carries a warning or error instead of data.
type MappingResult struct {
	Data    []Candidate     `json:"data"`
	Warning json.RawMessage `json:"warning"`
	Error   json.RawMessage `json:"error"`
}

// Matched reports whether this job produced at least one candidate.
func (r MappingResult) Matched() bool {
	return len(r.Warning) == 0 && len(r.Error) == 0 && len(r.Data) > 0
}

// mappingJob is one query item in a mapping request payload.
type mappingJob struct {
	IDType  string `json:"idType"`
	IDValue string `json:"idValue"`
}

// searchRequest is the search endpoint payload.
type searchRequest struct {
	Query string `json:"query"`
}

// searchResponse is the search endpoint envelope.
type searchResponse struct {
	Data []Candidate `json:"data"`
}

// Client calls the OpenFIGI mapping and search endpoints.
type Client struct {
	client *resty.Client
}

// NewClient creates an OpenFIGI client. The API key is optional; when set
// it is sent as X-OPENFIGI-APIKEY, which raises the anonymous rate limits.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	if apiKey != "" {
		client.SetHeader("X-OPENFIGI-APIKEY", apiKey)
	}

	return &Client{client: client}
}

// MapISINs resolves a batch of ISINs via the mapping endpoint. The
// response contains one MappingResult per ISIN, in input order. At most
// MaxMappingBatch ISINs may be submitted per call; larger sets must be
// split by the caller.
func (c *Client) MapISINs(ctx context.Context, isins []string) ([]MappingResult, error) {
	if len(isins) > MaxMappingBatch {
		return nil, fmt.Errorf("mapping batch of %d exceeds the %d-job limit", len(isins), MaxMappingBatch)
	}

	jobs := make([]mappingJob, 0, len(isins))
	for _, isin := range isins {
		jobs = append(jobs, mappingJob{IDType: "ID_ISIN", IDValue: isin})
	}

	var results []MappingResult

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(jobs).
		SetResult(&results).
		Post("/mapping")

	if err != nil {
		return nil, newUnreachableError("/mapping", err)
	}

	if resp.StatusCode() == 429 {
		return nil, newRateLimitError("/mapping", resp.Header())
	}

	if !resp.IsSuccess() {
		return nil, newAPIError("/mapping", resp.StatusCode())
	}

	slog.Debug("mapped ISIN batch",
		"jobs", len(isins),
		"results", len(results))

	return results, nil
}

// Search looks up instruments by free-text query via the search endpoint.
// An empty candidate list means nothing matched; that is not an error.
// The search endpoint does not support batching.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	var result searchResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(searchRequest{Query: query}).
		SetResult(&result).
		Post("/search")

	if err != nil {
		return nil, newUnreachableError("/search", err)
	}

	if resp.StatusCode() == 429 {
		return nil, newRateLimitError("/search", resp.Header())
	}

	if !resp.IsSuccess() {
		return nil, newAPIError("/search", resp.StatusCode())
	}

	slog.Debug("searched for instrument",
		"query", query,
		"candidates", len(result.Data))

	return result.Data, nil
}
