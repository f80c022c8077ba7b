// Package yahoo fetches historical closing prices and instrument currency
// from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"resty.dev/v3"
)

// chartResponse mirrors the envelope of the v8 chart endpoint. Only the
// fields this tool consumes are mapped.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Client fetches price history from the Yahoo Finance chart API.
type Client struct {
	client *resty.Client
}

// NewClient creates a Yahoo Finance chart client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		// Yahoo rejects requests without a browser user agent.
		SetHeader("User-Agent", "Mozilla/5.0").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{client: client}
}

// ClosingPrices returns the chronological daily closing prices for symbol
// in the [from, to) window, plus the instrument's currency code from the
// chart metadata ("" when Yahoo does not report one). An empty slice with
// a nil error means the window contains no trading data; callers decide
// how severe that is.
func (c *Client) ClosingPrices(ctx context.Context, symbol string, from, to time.Time) ([]float64, string, error) {
	var result chartResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"period1":  strconv.FormatInt(from.Unix(), 10),
			"period2":  strconv.FormatInt(to.Unix(), 10),
			"interval": "1d",
		}).
		SetResult(&result).
		Get("/v8/finance/chart/{symbol}")

	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch price history for %s: %w", symbol, err)
	}

	if !resp.IsSuccess() {
		return nil, "", fmt.Errorf("yahoo chart API returned status %d for %s", resp.StatusCode(), symbol)
	}

	if result.Chart.Error != nil {
		return nil, "", fmt.Errorf("yahoo chart API error for %s: %s", symbol, result.Chart.Error.Description)
	}

	if len(result.Chart.Result) == 0 {
		return nil, "", fmt.Errorf("no chart result for symbol %s", symbol)
	}

	chart := result.Chart.Result[0]

	// Null closes appear for half days and suspended sessions; skip them
	// so the first element is always a real close.
	var closes []float64
	for _, quote := range chart.Indicators.Quote {
		for _, close := range quote.Close {
			if close != nil {
				closes = append(closes, *close)
			}
		}
	}

	slog.Debug("fetched price history",
		"symbol", symbol,
		"closes", len(closes),
		"currency", chart.Meta.Currency)

	return closes, chart.Meta.Currency, nil
}
