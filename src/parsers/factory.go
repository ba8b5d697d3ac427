package parsers

import (
	"fmt"

	"github.com/username/tradefolio/src/parsers/ctrader"
	"github.com/username/tradefolio/src/parsers/mt4"
	"github.com/username/tradefolio/src/parsers/tradingview"
)

// GetParser returns the parser implementation for a detected format.
func GetParser(kind FormatKind) (Parser, error) {
	switch kind {
	case FormatMT4:
		return mt4.NewParser(), nil
	case FormatCTrader:
		return ctrader.NewParser(), nil
	case FormatTradingView:
		return tradingview.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser registered for format %q: %w", kind, ErrUnsupportedFormat)
	}
}
