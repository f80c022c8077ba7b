// Package stocks defines the shared data model for the stock change
// calculator: the raw input rows and the final output rows.
package stocks

// Request is a single stock to process, exactly as supplied by the user.
// A non-empty Ticker short-circuits identifier resolution; otherwise the
// ISIN is used when present, falling back to a name search.
type Request struct {
	Name   string
	Ticker string
	ISIN   string
}

// ResultRecord is one finished output row. Price fields are nil when the
// stock could not be processed, in which case Err carries the reason
// (e.g. "Stock details not found", "Delisted").
type ResultRecord struct {
	Name       string
	Ticker     string
	ISIN       string
	StartPrice *float64
	EndPrice   *float64
	Percentage *float64
	Currency   string
	Err        string
}
