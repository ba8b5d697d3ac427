package models

import "time"

// Outcome values derived from a trade's profit/loss. Outcome is never
// stored independently of ProfitLoss; use OutcomeFor to compute it.
const (
	OutcomeWin       = "WIN"
	OutcomeLoss      = "LOSS"
	OutcomeBreakeven = "BREAKEVEN"
)

// OutcomeFor maps a signed profit/loss to its outcome label.
func OutcomeFor(profitLoss float64) string {
	switch {
	case profitLoss > 0:
		return OutcomeWin
	case profitLoss < 0:
		return OutcomeLoss
	default:
		return OutcomeBreakeven
	}
}

// TakeProfitLevel is one partial take-profit target on a trade.
type TakeProfitLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Trade is a persisted journal entry. Dates are stored as YYYY-MM-DD
// strings and times as HH:MM strings, both in the source platform's
// local time; the calendar aggregation relies on the canonical date
// format for exact-match day bucketing.
type Trade struct {
	ID               string            `json:"id"`
	UserID           int64             `json:"user_id"`
	AccountID        *string           `json:"account_id"`
	Symbol           string            `json:"symbol"`
	Direction        string            `json:"direction"`  // "buy" or "sell"
	TradeType        string            `json:"trade_type"` // "forex", "futures", "crypto"
	Quantity         float64           `json:"quantity"`
	EntryPrice       float64           `json:"entry_price"`
	ExitPrice        float64           `json:"exit_price"`
	StopLoss         *float64          `json:"stop_loss"`
	TakeProfitLevels []TakeProfitLevel `json:"take_profit_levels"`
	Date             string            `json:"date"`
	EntryTime        string            `json:"entry_time"`
	ExitTime         string            `json:"exit_time"`
	Session          string            `json:"session"`
	Timeframe        string            `json:"timeframe"`
	NewsImpact       string            `json:"news_impact"`
	Bias             string            `json:"bias"`
	Confluences      []string          `json:"confluences"`
	Outcome          string            `json:"outcome"`
	PipsOrTicks      int               `json:"pips_or_ticks"`
	ProfitLoss       *float64          `json:"profit_loss"`
	Notes            string            `json:"notes"`
	TradeEnvironment string            `json:"trade_environment"` // "live", "demo", "backtest"
	AccountName      string            `json:"account_name,omitempty"`
	Broker           string            `json:"broker,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// TradeInput is the client payload for creating or updating a trade.
// Optional numeric fields are pointers so that "absent" is
// distinguishable from zero; Outcome is intentionally missing because
// it is always recomputed from ProfitLoss on write.
type TradeInput struct {
	AccountID        *string           `json:"account_id"`
	Symbol           string            `json:"symbol"`
	Direction        string            `json:"direction"`
	TradeType        string            `json:"trade_type"`
	Quantity         float64           `json:"quantity"`
	EntryPrice       float64           `json:"entry_price"`
	ExitPrice        float64           `json:"exit_price"`
	StopLoss         *float64          `json:"stop_loss"`
	TakeProfitLevels []TakeProfitLevel `json:"take_profit_levels"`
	Date             string            `json:"date"`
	EntryTime        string            `json:"entry_time"`
	ExitTime         string            `json:"exit_time"`
	Session          string            `json:"session"`
	Timeframe        string            `json:"timeframe"`
	NewsImpact       string            `json:"news_impact"`
	Bias             string            `json:"bias"`
	Confluences      []string          `json:"confluences"`
	PipsOrTicks      int               `json:"pips_or_ticks"`
	ProfitLoss       *float64          `json:"profit_loss"`
	Notes            string            `json:"notes"`
	TradeEnvironment string            `json:"trade_environment"`
}
