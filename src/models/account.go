package models

import "time"

// TradingAccount groups trades under a broker account within one
// trade environment ("live", "demo" or "backtest").
type TradingAccount struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	AccountName string    `json:"account_name"`
	Broker      string    `json:"broker"`
	Environment string    `json:"environment"`
	CreatedAt   time.Time `json:"created_at"`
}
