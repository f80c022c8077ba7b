package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"stockchange/internal/dates"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp CSV: %v", err)
	}
	return path
}

const validCSV = `Start Date,01-Jan-25,End Date,01-Apr-25
,,,
Instructions: fill in one stock per row,,,
Stock Name,Ticker,ISIN,
Apple,AAPL,
Shell,,GB00BP6MXD84
Microsoft Corp,,
`

func TestParseFile_Success(t *testing.T) {
	input, err := ParseFile(writeTempCSV(t, validCSV))
	if err != nil {
		t.Fatalf("ParseFile() returned unexpected error: %v", err)
	}

	if dates.Format(input.Start) != "01-Jan-25" {
		t.Errorf("Start = %s, want 01-Jan-25", dates.Format(input.Start))
	}
	if dates.Format(input.End) != "01-Apr-25" {
		t.Errorf("End = %s, want 01-Apr-25", dates.Format(input.End))
	}

	if len(input.Stocks) != 3 {
		t.Fatalf("got %d stocks, want 3", len(input.Stocks))
	}

	if input.Stocks[0].Name != "Apple" || input.Stocks[0].Ticker != "AAPL" {
		t.Errorf("unexpected first stock: %+v", input.Stocks[0])
	}
	if input.Stocks[1].ISIN != "GB00BP6MXD84" {
		t.Errorf("unexpected second stock: %+v", input.Stocks[1])
	}
	if input.Stocks[2].Name != "Microsoft Corp" || input.Stocks[2].Ticker != "" || input.Stocks[2].ISIN != "" {
		t.Errorf("unexpected third stock: %+v", input.Stocks[2])
	}
}

func TestParseFile_SkipsBlankRows(t *testing.T) {
	csv := `Start Date,01-Jan-25,End Date,01-Apr-25
,,,
,,,
Stock Name,Ticker,ISIN,
Apple,AAPL,
,,
Shell,,GB00BP6MXD84
`
	input, err := ParseFile(writeTempCSV(t, csv))
	if err != nil {
		t.Fatalf("ParseFile() returned unexpected error: %v", err)
	}
	if len(input.Stocks) != 2 {
		t.Errorf("got %d stocks, want 2 (blank row skipped)", len(input.Stocks))
	}
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"too few rows",
			"Start Date,01-Jan-25,End Date,01-Apr-25\n,,,\n,,,\n",
		},
		{
			"missing date columns",
			"Start Date,01-Jan-25\n,,,\n,,,\n,,,\nApple,,\n",
		},
		{
			"wrong labels",
			"From,01-Jan-25,To,01-Apr-25\n,,,\n,,,\n,,,\nApple,,\n",
		},
		{
			"bad start date format",
			"Start Date,2025-01-01,End Date,01-Apr-25\n,,,\n,,,\n,,,\nApple,,\n",
		},
		{
			"bad end date format",
			"Start Date,01-Jan-25,End Date,April 1st,\n,,,\n,,,\n,,,\nApple,,\n",
		},
		{
			"no stocks",
			"Start Date,01-Jan-25,End Date,01-Apr-25\n,,,\n,,,\n,,,\n,,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFile(writeTempCSV(t, tt.content)); err == nil {
				t.Error("ParseFile() expected error, got nil")
			}
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("ParseFile() expected error for missing file, got nil")
	}
}
