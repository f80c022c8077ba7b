package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"stockchange/internal/dates"
	"stockchange/internal/stocks"
)

// defaultOutputName is the base output filename before versioning.
const defaultOutputName = "stock_changes_output"

// OutputPath returns the path for a new output file in dir. When the
// default name is taken, the first unused _v1, _v2, ... suffix wins.
func OutputPath(dir string) string {
	base := filepath.Join(dir, defaultOutputName+".csv")
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return base
	}

	for version := 1; ; version++ {
		versioned := filepath.Join(dir, fmt.Sprintf("%s_v%d.csv", defaultOutputName, version))
		if _, err := os.Stat(versioned); os.IsNotExist(err) {
			return versioned
		}
	}
}

// WriteResults writes the result table to a CSV file: the date header,
// any date-adjustment notes, column headers, then one row per stock.
func WriteResults(path string, start, end time.Time, results []stocks.ResultRecord, notes []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	writer.Write([]string{"Start Date", dates.Format(start), "End Date", dates.Format(end)})
	writer.Write([]string{})

	for _, note := range notes {
		writer.Write([]string{note})
	}
	if len(notes) > 0 {
		writer.Write([]string{})
	}

	writer.Write(columnHeaders())

	for _, record := range results {
		writer.Write(formatRow(record))
	}

	writer.Flush()
	return writer.Error()
}

// Fprint writes the same table to w as comma-joined lines for the
// terminal.
func Fprint(w io.Writer, start, end time.Time, results []stocks.ResultRecord, notes []string) {
	fmt.Fprintf(w, "Start Date: %s, End Date: %s\n\n", dates.Format(start), dates.Format(end))

	for _, note := range notes {
		fmt.Fprintf(w, "Note: %s\n", note)
	}
	if len(notes) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Join(columnHeaders(), ","))
	for _, record := range results {
		fmt.Fprintln(w, strings.Join(formatRow(record), ","))
	}
}

func columnHeaders() []string {
	return []string{"Stock Name", "Ticker", "ISIN", "Start Price", "End Price", "Percentage", "Currency"}
}

// formatRow renders one record. Failed rows carry the error string in
// the Start Price column with the remaining numeric columns blank.
func formatRow(record stocks.ResultRecord) []string {
	if record.Err != "" {
		return []string{record.Name, record.Ticker, record.ISIN, record.Err, "", "", ""}
	}

	return []string{
		record.Name,
		record.Ticker,
		record.ISIN,
		formatPrice(record.StartPrice),
		formatPrice(record.EndPrice),
		formatPrice(record.Percentage),
		record.Currency,
	}
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
