// Package csvio reads the stock-list input format and writes the result
// table, both as CSV files and as a terminal listing.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"stockchange/internal/dates"
	"stockchange/internal/stocks"
)

// Input is the parsed content of an input CSV file.
type Input struct {
	Start  time.Time
	End    time.Time
	Stocks []stocks.Request
}

// ParseFile reads an input CSV. Row 1 must be
// "Start Date,<dd-mmm-yy>,End Date,<dd-mmm-yy>" (labels are
// case-insensitive); stock rows start at row 5 as name,ticker,isin.
// Rows with an empty name are skipped.
func ParseFile(path string) (Input, error) {
	file, err := os.Open(path)
	if err != nil {
		return Input{}, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Stock rows legitimately have fewer columns than the date row.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return Input{}, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(rows) < 5 {
		return Input{}, fmt.Errorf("invalid CSV structure: missing required rows including date row")
	}

	dateRow := rows[0]
	if len(dateRow) < 4 {
		return Input{}, fmt.Errorf("missing Start Date or End Date in row 1")
	}

	startLabel := strings.TrimSpace(dateRow[0])
	startDate := strings.TrimSpace(dateRow[1])
	endLabel := strings.TrimSpace(dateRow[2])
	endDate := strings.TrimSpace(dateRow[3])

	if !strings.EqualFold(startLabel, "start date") || !strings.EqualFold(endLabel, "end date") {
		return Input{}, fmt.Errorf("missing Start Date or End Date labels in row 1")
	}

	if !dates.Valid(startDate) {
		return Input{}, fmt.Errorf("invalid date format for Start Date, expected dd-mmm-yy (e.g. 01-Jan-25), got: %s", startDate)
	}
	if !dates.Valid(endDate) {
		return Input{}, fmt.Errorf("invalid date format for End Date, expected dd-mmm-yy (e.g. 01-Jan-25), got: %s", endDate)
	}

	start, err := dates.Parse(startDate)
	if err != nil {
		return Input{}, err
	}
	end, err := dates.Parse(endDate)
	if err != nil {
		return Input{}, err
	}

	var list []stocks.Request
	for _, row := range rows[4:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		req := stocks.Request{Name: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			req.Ticker = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			req.ISIN = strings.TrimSpace(row[2])
		}
		list = append(list, req)
	}

	if len(list) == 0 {
		return Input{}, fmt.Errorf("no stocks found in file: stock list is empty")
	}

	return Input{Start: start, End: end, Stocks: list}, nil
}
