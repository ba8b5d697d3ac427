package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/username/tradefolio/src/models"
)

func newTestService(t *testing.T) TradeService {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE trading_accounts (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		account_name TEXT NOT NULL,
		broker TEXT,
		environment TEXT NOT NULL DEFAULT 'live',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE trades (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		account_id TEXT,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		trade_type TEXT DEFAULT 'forex',
		quantity REAL,
		entry_price REAL,
		exit_price REAL,
		stop_loss REAL,
		take_profit_levels TEXT,
		date TEXT NOT NULL,
		entry_time TEXT,
		exit_time TEXT,
		session TEXT,
		timeframe TEXT,
		news_impact TEXT,
		bias TEXT,
		confluences TEXT,
		outcome TEXT,
		pips_or_ticks INTEGER DEFAULT 0,
		profit_loss REAL,
		notes TEXT,
		trade_environment TEXT NOT NULL DEFAULT 'live',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	_, err = db.Exec(schema)
	require.NoError(t, err)

	return NewTradeService(db, cache.New(time.Minute, time.Minute))
}

func pnl(v float64) *float64 { return &v }

func baseInput(date string, profitLoss *float64) models.TradeInput {
	return models.TradeInput{
		Symbol:     "EURUSD",
		Direction:  "BUY",
		Quantity:   1,
		EntryPrice: 1.1000,
		ExitPrice:  1.1050,
		Date:       date,
		EntryTime:  "09:30",
		ProfitLoss: profitLoss,
	}
}

func TestCreateTradeDerivesFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := baseInput("2025-01-15", pnl(50))
	input.StopLoss = pnl(1.0950)
	input.TakeProfitLevels = []models.TakeProfitLevel{{Price: 1.1100, Quantity: 0.5}}
	input.Confluences = []string{"order block", "session open"}

	trade, err := svc.CreateTrade(ctx, 1, input)
	require.NoError(t, err)
	assert.NotEmpty(t, trade.ID)
	assert.Equal(t, "buy", trade.Direction, "direction is normalized to lower case")
	assert.Equal(t, models.OutcomeWin, trade.Outcome)
	assert.Equal(t, "forex", trade.TradeType)
	assert.Equal(t, "live", trade.TradeEnvironment)

	got, err := svc.GetTradeByID(ctx, 1, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.ID, got.ID)
	require.NotNil(t, got.StopLoss)
	assert.Equal(t, 1.0950, *got.StopLoss)
	require.Len(t, got.TakeProfitLevels, 1)
	assert.Equal(t, 1.1100, got.TakeProfitLevels[0].Price)
	assert.Equal(t, []string{"order block", "session open"}, got.Confluences)
	require.NotNil(t, got.ProfitLoss)
	assert.Equal(t, 50.0, *got.ProfitLoss)
}

func TestUpdateTradeRecomputesOutcome(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	trade, err := svc.CreateTrade(ctx, 1, baseInput("2025-01-15", pnl(50)))
	require.NoError(t, err)

	updated, err := svc.UpdateTrade(ctx, 1, trade.ID, baseInput("2025-01-15", pnl(-25)))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeLoss, updated.Outcome)

	got, err := svc.GetTradeByID(ctx, 1, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeLoss, got.Outcome)
}

func TestTradeOwnershipIsEnforced(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	trade, err := svc.CreateTrade(ctx, 1, baseInput("2025-01-15", pnl(50)))
	require.NoError(t, err)

	_, err = svc.GetTradeByID(ctx, 2, trade.ID)
	assert.ErrorIs(t, err, ErrTradeNotFound)

	err = svc.DeleteTrade(ctx, 2, trade.ID)
	assert.ErrorIs(t, err, ErrTradeNotFound)

	err = svc.DeleteTrade(ctx, 1, trade.ID)
	assert.NoError(t, err)
}

func TestDeleteAllTrades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, date := range []string{"2025-01-10", "2025-01-11", "2025-01-12"} {
		_, err := svc.CreateTrade(ctx, 1, baseInput(date, pnl(10)))
		require.NoError(t, err)
	}
	_, err := svc.CreateTrade(ctx, 2, baseInput("2025-01-10", pnl(10)))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAllTrades(ctx, 1))

	mine, err := svc.GetTrades(ctx, 1, "")
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := svc.GetTrades(ctx, 2, "")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestGetTradesFiltersByEnvironment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	live := baseInput("2025-01-10", pnl(10))
	_, err := svc.CreateTrade(ctx, 1, live)
	require.NoError(t, err)

	demo := baseInput("2025-01-11", pnl(-5))
	demo.TradeEnvironment = "demo"
	_, err = svc.CreateTrade(ctx, 1, demo)
	require.NoError(t, err)

	demoTrades, err := svc.GetTrades(ctx, 1, "demo")
	require.NoError(t, err)
	require.Len(t, demoTrades, 1)
	assert.Equal(t, "demo", demoTrades[0].TradeEnvironment)

	all, err := svc.GetTrades(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetMonthViewReflectsWrites(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTrade(ctx, 1, baseInput("2025-01-15", pnl(10)))
	require.NoError(t, err)

	view, err := svc.GetMonthView(ctx, 1, 2025, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, view.DayBuckets[14].TradeCount)

	// A second write must invalidate the cached view.
	_, err = svc.CreateTrade(ctx, 1, baseInput("2025-01-15", pnl(-5)))
	require.NoError(t, err)

	view, err = svc.GetMonthView(ctx, 1, 2025, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, view.DayBuckets[14].TradeCount)
	assert.Equal(t, 5.0, view.DayBuckets[14].TotalPnL)
}

func TestGetMonthViewIncludesPreviousMonthBoundaryTrades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// March 2025's first week starts on February 23.
	_, err := svc.CreateTrade(ctx, 1, baseInput("2025-02-25", pnl(7)))
	require.NoError(t, err)

	view, err := svc.GetMonthView(ctx, 1, 2025, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 1, view.WeekBuckets[0].TradeCount)
}

func TestExportTradesForDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := baseInput("2025-01-15", pnl(50))
	input.Notes = `=SUM(A1) "quoted"`
	_, err := svc.CreateTrade(ctx, 1, input)
	require.NoError(t, err)

	csvData, err := svc.ExportTradesForDate(ctx, 1, "2025-01-15")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Symbol,Direction,Entry,Exit,P&L,Account,Notes", lines[0])
	assert.Contains(t, lines[1], `"EURUSD","buy"`)
	assert.Contains(t, lines[1], "50.00")
	assert.Contains(t, lines[1], `'=SUM(A1) ""quoted""`, "formula escaped and quotes doubled")
}
