package parsers

import (
	"errors"
	"strings"
)

// FormatKind identifies a supported broker export format.
type FormatKind string

const (
	FormatMT4         FormatKind = "mt4"
	FormatCTrader     FormatKind = "ctrader"
	FormatTradingView FormatKind = "tradingview"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// DetectFormat inspects a CSV header row and decides which broker produced
// the file. Detection is ordered: a file whose header satisfies more than one
// signature is attributed to the first match.
func DetectFormat(headers []string) (FormatKind, error) {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[strings.ToLower(strings.TrimSpace(h))] = true
	}

	switch {
	case seen["ticket"] && seen["open time"]:
		return FormatMT4, nil
	case seen["id"] && seen["entry time"]:
		return FormatCTrader, nil
	case seen["date"] && seen["strategy"]:
		return FormatTradingView, nil
	default:
		return "", ErrUnsupportedFormat
	}
}
