package tradingview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradefolio/src/models"
)

func TestParseSingleRow(t *testing.T) {
	input := strings.Join([]string{
		"Date,Symbol,Order,Price,Exit Price,Strategy,Profit",
		"2024-03-10 14:30,NQ1!,buy,18000.25,18050.50,Breakout,201",
	}, "\n")

	trades, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, trades, 1)

	trade := trades[0]
	assert.Equal(t, "NQ1!", trade.Symbol)
	assert.Equal(t, "buy", trade.Direction)
	assert.Equal(t, 1.0, trade.Quantity)
	assert.Equal(t, 18000.25, trade.EntryPrice)
	assert.Equal(t, 18050.50, trade.ExitPrice)
	assert.Nil(t, trade.StopLoss)
	assert.Nil(t, trade.TakeProfit)
	assert.Equal(t, "2024-03-10", trade.Date)
	assert.Equal(t, "14:30", trade.EntryTime)
	assert.Equal(t, "", trade.ExitTime)
	assert.Equal(t, 201.0, trade.ProfitLoss)
	assert.Equal(t, models.OutcomeWin, trade.Outcome)
	assert.Equal(t, "tradingview", trade.Source)
	assert.Equal(t, "Imported from TradingView", trade.Notes)
}

func TestParseSkipsUnknownOrderTokens(t *testing.T) {
	input := strings.Join([]string{
		"Date,Symbol,Order,Price,Exit Price,Strategy,Profit",
		"2024-03-10 14:30,ES1!,entry,5000,5010,Scalp,10",
		"2024-03-11 09:00,ES1!,SELL,5010,5000,Scalp,10",
		"2024-03-12 09:00,ES1!,,5010,5000,Scalp,10",
	}, "\n")

	trades, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "sell", trades[0].Direction)
}

func TestParseFixedQuantity(t *testing.T) {
	input := strings.Join([]string{
		"Date,Symbol,Order,Price,Exit Price,Strategy,Profit",
		"2024-03-10 14:30,GBPUSD,buy,1.27,1.28,Swing,0",
		"2024-03-11 14:30,GBPUSD,sell,1.28,1.27,Swing,-5",
	}, "\n")

	trades, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, trades, 2)
	for _, trade := range trades {
		assert.Equal(t, 1.0, trade.Quantity)
	}
	assert.Equal(t, models.OutcomeBreakeven, trades[0].Outcome)
	assert.Equal(t, models.OutcomeLoss, trades[1].Outcome)
}
