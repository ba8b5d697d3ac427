// Package mt4 parses MetaTrader 4 account-history CSV exports.
package mt4

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/tradefolio/src/models"
)

const provenanceNote = "Imported from MetaTrader"

type Mt4Parser struct{}

func NewParser() *Mt4Parser {
	return &Mt4Parser{}
}

// Parse reads an MT4 history export and returns one canonical trade per
// order row. Rows whose Type column is not buy/sell (balance operations,
// deposits, headers of sub-sections) are skipped; every other malformed
// field degrades to its zero value rather than failing the row.
func (p *Mt4Parser) Parse(r io.Reader) ([]models.CanonicalTrade, error) {
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

		direction := strings.ToLower(row["Type"])
		if direction != "buy" && direction != "sell" {
			continue
		}

		openDate, openTime := splitDateTime(row["Open Time"])
		_, closeTime := splitDateTime(row["Close Time"])
		profit := floatOrZero(row["Profit"])

		trades = append(trades, models.CanonicalTrade{
			Symbol:     row["Item"],
			Direction:  direction,
			Quantity:   floatOrZero(row["Size"]),
			EntryPrice: floatOrZero(row["Price"]),
			// MT4 history exports carry a single Price column.
			ExitPrice:  floatOrZero(row["Price"]),
			StopLoss:   optionalFloat(row["S/L"]),
			TakeProfit: optionalFloat(row["T/P"]),
			Date:       openDate,
			EntryTime:  openTime,
			ExitTime:   closeTime,
			ProfitLoss: profit,
			Outcome:    models.OutcomeFor(profit),
			Source:     "mt4",
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

// splitDateTime splits "2024.01.15 09:30:00" into a dash-separated ISO date
// and the time part. Either half may be empty when the field is malformed.
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
