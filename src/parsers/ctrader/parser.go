// Package ctrader parses cTrader deal-history CSV exports.
package ctrader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/tradefolio/src/models"
)

const provenanceNote = "Imported from cTrader"

type CtraderParser struct{}

func NewParser() *CtraderParser {
	return &CtraderParser{}
}

// Parse reads a cTrader deal export and returns one canonical trade per
// position row. cTrader capitalizes its direction tokens, and the export
// only ever emits "Buy" or "Sell" exactly, so the skip check is
// case-sensitive on purpose.
func (p *CtraderParser) Parse(r io.Reader) ([]models.CanonicalTrade, error) {
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

		if row["Type"] != "Buy" && row["Type"] != "Sell" {
			continue
		}
		direction := strings.ToLower(row["Type"])

		entryDate, entryTime := splitDateTime(row["EntryTime"])
		_, exitTime := splitDateTime(row["ExitTime"])
		profit := floatOrZero(row["NetProfit"])

		trades = append(trades, models.CanonicalTrade{
			Symbol:     row["Symbol"],
			Direction:  direction,
			Quantity:   floatOrZero(row["Volume"]),
			EntryPrice: floatOrZero(row["EntryPrice"]),
			ExitPrice:  floatOrZero(row["ExitPrice"]),
			StopLoss:   optionalFloat(row["StopLoss"]),
			TakeProfit: optionalFloat(row["TakeProfit"]),
			Date:       entryDate,
			EntryTime:  entryTime,
			ExitTime:   exitTime,
			ProfitLoss: profit,
			Outcome:    models.OutcomeFor(profit),
			Source:     "ctrader",
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

func splitDateTime(value string) (date, clock string) {
	if value == "" {
		return "", ""
	}
	parts := strings.SplitN(value, " ", 2)
	date = strings.ReplaceAll(parts[0], ".", "-")
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

func optionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f := floatOrZero(value)
	return &f
}
