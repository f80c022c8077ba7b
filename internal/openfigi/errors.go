package openfigi

import (
	"fmt"
)

// ErrorKind represents the category of failure from an OpenFIGI call.
type ErrorKind string

const (
	// KindUnreachable indicates a transport-level failure (connection
	// refused, DNS, timeout).
	KindUnreachable ErrorKind = "unreachable"
	// KindRateLimited indicates the request was rejected with HTTP 429.
	KindRateLimited ErrorKind = "rate_limit"
	// KindAPI indicates any other non-200 response.
	KindAPI ErrorKind = "api"
)

// LookupError is a structured error from the OpenFIGI client. All lookup
// errors are fatal to a resolution run: the orchestrator does not retry.
type LookupError struct {
	Kind       ErrorKind
	StatusCode int
	Endpoint   string
	Cause      error

	// Rate limit diagnostics from the provider's 429 response headers,
	// "unknown" when the header was absent.
	Limit     string
	Remaining string
	ResetIn   string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	switch e.Kind {
	case KindUnreachable:
		return fmt.Sprintf("OpenFIGI API unreachable: %v", e.Cause)
	case KindRateLimited:
		return fmt.Sprintf(
			"OpenFIGI API rate limit exceeded.\n"+
				"  Endpoint: %s\n"+
				"  Rate Limit: %s requests\n"+
				"  Remaining: %s\n"+
				"  Reset in: %s seconds\n"+
				"Please wait and try again.",
			e.Endpoint, e.Limit, e.Remaining, e.ResetIn)
	default:
		return fmt.Sprintf("OpenFIGI API returned error status: %d", e.StatusCode)
	}
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *LookupError) Unwrap() error {
	return e.Cause
}

// newUnreachableError creates a transport error.
func newUnreachableError(endpoint string, cause error) *LookupError {
	return &LookupError{
		Kind:     KindUnreachable,
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// newRateLimitError creates a rate limit error carrying the provider's
// quota headers when present.
func newRateLimitError(endpoint string, header headerGetter) *LookupError {
	return &LookupError{
		Kind:       KindRateLimited,
		StatusCode: 429,
		Endpoint:   endpoint,
		Limit:      headerOrUnknown(header, "ratelimit-limit"),
		Remaining:  headerOrUnknown(header, "ratelimit-remaining"),
		ResetIn:    headerOrUnknown(header, "ratelimit-reset"),
	}
}

// newAPIError creates an error for any other non-200 status.
func newAPIError(endpoint string, statusCode int) *LookupError {
	return &LookupError{
		Kind:       KindAPI,
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}
}

type headerGetter interface {
	Get(key string) string
}

func headerOrUnknown(h headerGetter, key string) string {
	if v := h.Get(key); v != "" {
		return v
	}
	return "unknown"
}
