// Package resolve turns ambiguous company identifiers (names or ISINs)
// into validated, exchange-qualified ticker symbols with cached prices.
package resolve

import (
	"strings"

	"stockchange/internal/openfigi"
)

// Rules is the immutable selection configuration: which exchanges are
// preferred in which order, how exchange codes map onto price-provider
// ticker suffixes, and which security types count as tradable stock.
type Rules struct {
	// ExchangePriority is the fixed preference order used to pick among
	// multiple listings (UK first, US second, rest alphabetical).
	ExchangePriority []string

	// SuffixByExchange maps OpenFIGI exchange codes to Yahoo ticker
	// suffixes. Unknown codes map to no suffix.
	SuffixByExchange map[string]string

	// SecurityTypes are the classifications accepted by the selector.
	SecurityTypes []string
}

// DefaultRules returns the production selection rules.
func DefaultRules() Rules {
	return Rules{
		ExchangePriority: []string{
			"LN", // London Stock Exchange
			"US", // US exchanges (generic)
			"UN", // NYSE
			"UQ", // NASDAQ
			"UM", // US mutual funds
			"CN", // Canada (Toronto)
			"CT", // Canada (TSX Venture)
			"GF", // Germany (Frankfurt)
			"GR", // Germany (XETRA)
			"GY", // Germany (generic)
			"NA", // Netherlands (Euronext Amsterdam)
		},
		SuffixByExchange: map[string]string{
			"US": "",
			"UN": "",
			"UQ": "",
			"LN": ".L",
			"GY": ".DE",
			"FP": ".PA",
			"JP": ".T",
			"HK": ".HK",
			"AU": ".AX",
			"CN": ".TO",
		},
		SecurityTypes: []string{
			"Common Stock",
			"REIT",
			"ETP",
		},
	}
}

// Suffix returns the price-provider ticker suffix for an exchange code,
// or "" for codes without a mapping.
func (r Rules) Suffix(exchCode string) string {
	return r.SuffixByExchange[exchCode]
}

// FullTicker builds the exchange-qualified ticker for a raw API ticker.
func (r Rules) FullTicker(rawTicker, exchCode string) string {
	return SanitizeTicker(rawTicker) + r.Suffix(exchCode)
}

// acceptableSecurityType reports whether either of the candidate's
// security type classifications is accepted.
func (r Rules) acceptableSecurityType(c openfigi.Candidate) bool {
	for _, st := range r.SecurityTypes {
		if c.SecurityType == st || c.SecurityType2 == st {
			return true
		}
	}
	return false
}

// SanitizeTicker strips the trailing slashes OpenFIGI sometimes appends
// to tickers (e.g. "NG/"), which the price provider rejects.
func SanitizeTicker(raw string) string {
	return strings.TrimRight(raw, "/")
}
