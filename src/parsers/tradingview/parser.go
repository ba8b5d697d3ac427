// Package tradingview parses TradingView strategy-tester CSV exports.
package tradingview

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/tradefolio/src/models"
)

const provenanceNote = "Imported from TradingView"

type TradingViewParser struct{}

func NewParser() *TradingViewParser {
	return &TradingViewParser{}
}

// Parse reads a TradingView export and returns one canonical trade per
// order row. TradingView exports have no volume or protective-level
// columns, so quantity is fixed at 1 and stop loss / take profit are
// left absent.
func (p *TradingViewParser) Parse(r io.Reader) ([]models.CanonicalTrade, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, nil
	}
	headers := splitRow(scanner.Text())

	var trades []models.CanonicalTrade
	for scanner.Scan() {
		row := mapRow(headers, splitRow(scanner.Text()))

		direction := strings.ToLower(row["Order"])
		if direction != "buy" && direction != "sell" {
			continue
		}

		date, entryTime := splitDateTime(row["Date"])
		profit := floatOrZero(row["Profit"])

		trades = append(trades, models.CanonicalTrade{
			Symbol:     row["Symbol"],
			Direction:  direction,
			Quantity:   1,
			EntryPrice: floatOrZero(row["Price"]),
			ExitPrice:  floatOrZero(row["Exit Price"]),
			Date:       date,
			EntryTime:  entryTime,
			ExitTime:   "",
			ProfitLoss: profit,
			Outcome:    models.OutcomeFor(profit),
			Source:     "tradingview",
			Notes:      provenanceNote,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return trades, nil
}

func splitRow(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func mapRow(headers, values []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = values[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

// splitDateTime splits a "2024-01-15 09:30" value into date and time. The
// TradingView Date column already uses dashes, so no separator fix is needed.
func splitDateTime(value string) (date, clock string) {
	if value == "" {
		return "", ""
	}
	parts := strings.SplitN(value, " ", 2)
	date = parts[0]
	if len(parts) > 1 {
		clock = parts[1]
	}
	return date, clock
}

func floatOrZero(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}
