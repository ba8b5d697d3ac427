package ctrader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradefolio/src/models"
)

func TestParseSingleRow(t *testing.T) {
	input := strings.Join([]string{
		"ID,Symbol,Type,Volume,EntryPrice,ExitPrice,StopLoss,TakeProfit,EntryTime,ExitTime,NetProfit",
		"5001,EURUSD,Buy,10000,1.0850,1.0900,1.0800,1.0950,2024.02.01 10:15:00,2024.02.01 16:30:00,48.50",
	}, "\n")

	trades, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, trades, 1)

	trade := trades[0]
	assert.Equal(t, "EURUSD", trade.Symbol)
	assert.Equal(t, "buy", trade.Direction)
	assert.Equal(t, 10000.0, trade.Quantity)
	assert.Equal(t, 1.0850, trade.EntryPrice)
	assert.Equal(t, 1.0900, trade.ExitPrice)
	require.NotNil(t, trade.StopLoss)
	assert.Equal(t, 1.0800, *trade.StopLoss)
	require.NotNil(t, trade.TakeProfit)
	assert.Equal(t, 1.0950, *trade.TakeProfit)
	assert.Equal(t, "2024-02-01", trade.Date)
	assert.Equal(t, "10:15:00", trade.EntryTime)
	assert.Equal(t, "16:30:00", trade.ExitTime)
	assert.Equal(t, 48.50, trade.ProfitLoss)
	assert.Equal(t, models.OutcomeWin, trade.Outcome)
	assert.Equal(t, "ctrader", trade.Source)
	assert.Equal(t, "Imported from cTrader", trade.Notes)
}

func TestParseDirectionTokensAreCaseSensitive(t *testing.T) {
	// cTrader only ever emits capitalized tokens; anything else is not
	// an order row.
	input := strings.Join([]string{
		"ID,Symbol,Type,Volume,EntryPrice,ExitPrice,StopLoss,TakeProfit,EntryTime,ExitTime,NetProfit",
		"1,EURUSD,buy,100,1.1,1.2,,,2024.02.01 10:00:00,2024.02.01 11:00:00,10",
		"2,EURUSD,SELL,100,1.1,1.2,,,2024.02.01 10:00:00,2024.02.01 11:00:00,10",
		"3,EURUSD,Sell,100,1.1,1.0,,,2024.02.01 10:00:00,2024.02.01 11:00:00,-10",
	}, "\n")

	trades, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "sell", trades[0].Direction)
	assert.Equal(t, models.OutcomeLoss, trades[0].Outcome)
}

func TestParseMissingOptionalLevels(t *testing.T) {
	input := strings.Join([]string{
		"ID,Symbol,Type,Volume,EntryPrice,ExitPrice,StopLoss,TakeProfit,EntryTime,ExitTime,NetProfit",
		"1,USDJPY,Buy,5000,110.00,110.50,,,2024.02.05 09:00:00,,25",
	}, "\n")

	trades, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, trades, 1)

	trade := trades[0]
	assert.Nil(t, trade.StopLoss)
	assert.Nil(t, trade.TakeProfit)
	assert.Equal(t, "", trade.ExitTime)
	assert.Equal(t, "2024-02-05", trade.Date)
}
