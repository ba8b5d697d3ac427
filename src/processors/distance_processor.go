package processors

import (
	"errors"
	"math"
	"strings"
)

// ErrInsufficientInput is returned when the distance calculation is missing
// a required field.
var ErrInsufficientInput = errors.New("symbol, entry price and exit price are required")

// futuresRoots are the contract root codes treated as tick-priced futures
// rather than pip-priced currency pairs.
var futuresRoots = []string{"ES", "NQ", "CL", "GC", "YM"}

// ComputeDistance converts the absolute price move between entry and exit
// into a whole number of pips or ticks for the given symbol.
//
// The unit table follows broker convention: index futures (ES, NQ, YM) tick
// in 0.25, crude (CL) in 0.01, gold (GC) in 0.1; currency pairs quote in
// 0.0001 pips except JPY crosses which quote in 0.01. The table is extended
// per instrument class, never by changing the division.
func ComputeDistance(symbol string, entryPrice, exitPrice float64) (int, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return 0, ErrInsufficientInput
	}

	diff := math.Abs(exitPrice - entryPrice)

	var unit float64
	if containsAny(sym, futuresRoots) {
		switch {
		case strings.Contains(sym, "ES"), strings.Contains(sym, "NQ"), strings.Contains(sym, "YM"):
			unit = 0.25
		case strings.Contains(sym, "CL"):
			unit = 0.01
		case strings.Contains(sym, "GC"):
			unit = 0.1
		default:
			unit = 0.01
		}
	} else if strings.Contains(sym, "JPY") {
		unit = 0.01
	} else {
		unit = 0.0001
	}

	return int(math.Round(diff / unit)), nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
