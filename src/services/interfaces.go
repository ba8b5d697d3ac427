package services

import (
	"context"
	"io"

	"github.com/username/tradefolio/src/models"
)

// ImportService turns a raw broker export into canonical trade candidates.
type ImportService interface {
	ParseTradeHistory(r io.Reader) ([]models.CanonicalTrade, error)
}

// TradeService owns persisted trades and everything derived from them.
type TradeService interface {
	CreateTrade(ctx context.Context, userID int64, input models.TradeInput) (*models.Trade, error)
	GetTrades(ctx context.Context, userID int64, environment string) ([]models.Trade, error)
	GetTradeByID(ctx context.Context, userID int64, tradeID string) (*models.Trade, error)
	UpdateTrade(ctx context.Context, userID int64, tradeID string, input models.TradeInput) (*models.Trade, error)
	DeleteTrade(ctx context.Context, userID int64, tradeID string) error
	DeleteAllTrades(ctx context.Context, userID int64) error
	GetMonthView(ctx context.Context, userID int64, year, monthIndex int, environment string) (models.MonthView, error)
	ExportTradesForDate(ctx context.Context, userID int64, date string) ([]byte, error)
}

// EmailService sends transactional mail.
type EmailService interface {
	SendMonthlySummaryEmail(ctx context.Context, recipientEmail, username string, view models.MonthView) error
}
