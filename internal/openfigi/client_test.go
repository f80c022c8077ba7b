package openfigi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url, "", 5*time.Second)
}

func TestMapISINs_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/mapping") {
			t.Errorf("path = %s, want /mapping", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var jobs []map[string]string
		if err := json.Unmarshal(body, &jobs); err != nil {
			t.Fatalf("request body is not a job list: %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("got %d jobs, want 2", len(jobs))
		}
		if jobs[0]["idType"] != "ID_ISIN" || jobs[0]["idValue"] != "US0378331005" {
			t.Errorf("unexpected first job: %v", jobs[0])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[
			{"data": [{"ticker": "AAPL", "exchCode": "US", "securityType": "Common Stock", "name": "APPLE INC"}]},
			{"warning": "No identifier found."}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	results, err := client.MapISINs(context.Background(), []string{"US0378331005", "XX0000000000"})
	if err != nil {
		t.Fatalf("MapISINs() returned unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if !results[0].Matched() {
		t.Error("first result should have matched")
	}
	if results[0].Data[0].Ticker != "AAPL" {
		t.Errorf("ticker = %q, want AAPL", results[0].Data[0].Ticker)
	}

	if results[1].Matched() {
		t.Error("warning result should not have matched")
	}
}

func TestMapISINs_BatchTooLarge(t *testing.T) {
	client := newTestClient("http://localhost")

	isins := make([]string, MaxMappingBatch+1)
	for i := range isins {
		isins[i] = "US0000000000"
	}

	if _, err := client.MapISINs(context.Background(), isins); err == nil {
		t.Error("MapISINs() expected error for oversized batch, got nil")
	}
}

func TestMapISINs_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ratelimit-limit", "25")
		w.Header().Set("ratelimit-remaining", "0")
		w.Header().Set("ratelimit-reset", "42")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.MapISINs(context.Background(), []string{"US0378331005"})
	if err == nil {
		t.Fatal("MapISINs() expected rate limit error, got nil")
	}

	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("error type = %T, want *LookupError", err)
	}
	if lookupErr.Kind != KindRateLimited {
		t.Errorf("kind = %q, want %q", lookupErr.Kind, KindRateLimited)
	}
	if lookupErr.Limit != "25" || lookupErr.Remaining != "0" || lookupErr.ResetIn != "42" {
		t.Errorf("diagnostics = %s/%s/%s, want 25/0/42", lookupErr.Limit, lookupErr.Remaining, lookupErr.ResetIn)
	}
	for _, fragment := range []string{"rate limit exceeded", "25", "42"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error message missing %q: %s", fragment, err.Error())
		}
	}
}

func TestMapISINs_RateLimited_MissingHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.MapISINs(context.Background(), []string{"US0378331005"})

	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("error type = %T, want *LookupError", err)
	}
	if lookupErr.Limit != "unknown" {
		t.Errorf("limit = %q, want unknown", lookupErr.Limit)
	}
}

func TestMapISINs_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.MapISINs(context.Background(), []string{"US0378331005"})

	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("error type = %T, want *LookupError", err)
	}
	if lookupErr.Kind != KindAPI {
		t.Errorf("kind = %q, want %q", lookupErr.Kind, KindAPI)
	}
	if lookupErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", lookupErr.StatusCode)
	}
}

func TestMapISINs_Unreachable(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.MapISINs(context.Background(), []string{"US0378331005"})

	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("error type = %T, want *LookupError", err)
	}
	if lookupErr.Kind != KindUnreachable {
		t.Errorf("kind = %q, want %q", lookupErr.Kind, KindUnreachable)
	}
	if lookupErr.Unwrap() == nil {
		t.Error("unreachable error should wrap the transport cause")
	}
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/search") {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("request body is not a query object: %v", err)
		}
		if req["query"] != "Microsoft Corp" {
			t.Errorf("query = %q, want %q", req["query"], "Microsoft Corp")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data": [
			{"ticker": "MSFT", "exchCode": "US", "securityType": "Common Stock", "securityType2": "Common Stock", "name": "MICROSOFT CORP"},
			{"ticker": "MSF", "exchCode": "GF", "securityType": "Common Stock", "name": "MICROSOFT CORP"}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	candidates, err := client.Search(context.Background(), "Microsoft Corp")
	if err != nil {
		t.Fatalf("Search() returned unexpected error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].Ticker != "MSFT" || candidates[0].ExchCode != "US" {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
}

func TestSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	candidates, err := client.Search(context.Background(), "No Such Company")
	if err != nil {
		t.Fatalf("Search() returned unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(candidates))
	}
}

func TestSearch_APIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-OPENFIGI-APIKEY"); got != "secret" {
			t.Errorf("X-OPENFIGI-APIKEY = %q, want %q", got, "secret")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", 5*time.Second)
	if _, err := client.Search(context.Background(), "anything"); err != nil {
		t.Fatalf("Search() returned unexpected error: %v", err)
	}
}
