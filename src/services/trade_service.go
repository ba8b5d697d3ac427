package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/tradefolio/src/logger"
	"github.com/username/tradefolio/src/models"
	"github.com/username/tradefolio/src/processors"
	"github.com/username/tradefolio/src/security/validation"
	"github.com/username/tradefolio/src/utils"
)

var ErrTradeNotFound = errors.New("trade not found")

const monthViewCacheKeyFormat = "agg_month_view_user_%d_%04d_%02d_%s"

// monthViewFetchLeadDays widens the month query so the first week bucket,
// whose range can start in the previous month, still sees those trades.
const monthViewFetchLeadDays = 6

type tradeService struct {
	db          *sql.DB
	reportCache *cache.Cache
}

func NewTradeService(db *sql.DB, reportCache *cache.Cache) TradeService {
	return &tradeService{db: db, reportCache: reportCache}
}

const tradeColumns = `id, user_id, account_id, symbol, direction, trade_type, quantity,
	entry_price, exit_price, stop_loss, take_profit_levels, date, entry_time, exit_time,
	session, timeframe, news_impact, bias, confluences, outcome, pips_or_ticks,
	profit_loss, notes, trade_environment, created_at, updated_at`

func (s *tradeService) CreateTrade(ctx context.Context, userID int64, input models.TradeInput) (*models.Trade, error) {
	trade := tradeFromInput(userID, input)
	trade.ID = uuid.NewString()
	now := time.Now()
	trade.CreatedAt = now
	trade.UpdatedAt = now

	tpJSON, confJSON, err := marshalTradeJSON(trade)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO trades (` + tradeColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		trade.ID, trade.UserID, trade.AccountID, trade.Symbol, trade.Direction,
		trade.TradeType, trade.Quantity, trade.EntryPrice, trade.ExitPrice,
		trade.StopLoss, tpJSON, trade.Date, trade.EntryTime, trade.ExitTime,
		trade.Session, trade.Timeframe, trade.NewsImpact, trade.Bias, confJSON,
		trade.Outcome, trade.PipsOrTicks, trade.ProfitLoss, trade.Notes,
		trade.TradeEnvironment, trade.CreatedAt, trade.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trade: %w", err)
	}

	s.invalidateUserCache(userID)
	logger.L.Info("trade created", "userID", userID, "tradeID", trade.ID, "symbol", trade.Symbol)
	return &trade, nil
}

func (s *tradeService) GetTrades(ctx context.Context, userID int64, environment string) ([]models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE user_id = ?`
	args := []interface{}{userID}
	if environment != "" {
		query += ` AND trade_environment = ?`
		args = append(args, environment)
	}
	query += ` ORDER BY date DESC, entry_time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades, err := scanTrades(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachAccountInfo(ctx, userID, trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// attachAccountInfo fills in the display-only account name and broker for
// trades linked to a trading account.
func (s *tradeService) attachAccountInfo(ctx context.Context, userID int64, trades []models.Trade) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_name, COALESCE(broker, '') FROM trading_accounts WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to query trading accounts: %w", err)
	}
	defer rows.Close()

	type accountInfo struct{ name, broker string }
	accounts := make(map[string]accountInfo)
	for rows.Next() {
		var id string
		var info accountInfo
		if err := rows.Scan(&id, &info.name, &info.broker); err != nil {
			return fmt.Errorf("failed to scan trading account: %w", err)
		}
		accounts[id] = info
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range trades {
		if trades[i].AccountID == nil {
			continue
		}
		if info, ok := accounts[*trades[i].AccountID]; ok {
			trades[i].AccountName = info.name
			trades[i].Broker = info.broker
		}
	}
	return nil
}

func (s *tradeService) GetTradeByID(ctx context.Context, userID int64, tradeID string) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = ? AND user_id = ?`
	row := s.db.QueryRowContext(ctx, query, tradeID, userID)

	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return trade, nil
}

func (s *tradeService) UpdateTrade(ctx context.Context, userID int64, tradeID string, input models.TradeInput) (*models.Trade, error) {
	existing, err := s.GetTradeByID(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}

	trade := tradeFromInput(userID, input)
	trade.ID = existing.ID
	trade.CreatedAt = existing.CreatedAt
	trade.UpdatedAt = time.Now()

	tpJSON, confJSON, err := marshalTradeJSON(trade)
	if err != nil {
		return nil, err
	}

	query := `
	UPDATE trades SET
		account_id = ?, symbol = ?, direction = ?, trade_type = ?, quantity = ?,
		entry_price = ?, exit_price = ?, stop_loss = ?, take_profit_levels = ?,
		date = ?, entry_time = ?, exit_time = ?, session = ?, timeframe = ?,
		news_impact = ?, bias = ?, confluences = ?, outcome = ?, pips_or_ticks = ?,
		profit_loss = ?, notes = ?, trade_environment = ?, updated_at = ?
	WHERE id = ? AND user_id = ?`
	_, err = s.db.ExecContext(ctx, query,
		trade.AccountID, trade.Symbol, trade.Direction, trade.TradeType,
		trade.Quantity, trade.EntryPrice, trade.ExitPrice, trade.StopLoss, tpJSON,
		trade.Date, trade.EntryTime, trade.ExitTime, trade.Session, trade.Timeframe,
		trade.NewsImpact, trade.Bias, confJSON, trade.Outcome, trade.PipsOrTicks,
		trade.ProfitLoss, trade.Notes, trade.TradeEnvironment, trade.UpdatedAt,
		trade.ID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}

	s.invalidateUserCache(userID)
	return &trade, nil
}

func (s *tradeService) DeleteTrade(ctx context.Context, userID int64, tradeID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ? AND user_id = ?`, tradeID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTradeNotFound
	}

	s.invalidateUserCache(userID)
	return nil
}

func (s *tradeService) DeleteAllTrades(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trades: %w", err)
	}
	affected, _ := res.RowsAffected()

	s.invalidateUserCache(userID)
	logger.L.Info("deleted all trades for user", "userID", userID, "count", affected)
	return nil
}

// GetMonthView returns the calendar aggregation for one month, cached per
// user/month/environment until the user's trades change.
func (s *tradeService) GetMonthView(ctx context.Context, userID int64, year, monthIndex int, environment string) (models.MonthView, error) {
	cacheKey := fmt.Sprintf(monthViewCacheKeyFormat, userID, year, monthIndex, environment)
	if cached, found := s.reportCache.Get(cacheKey); found {
		if view, ok := cached.(models.MonthView); ok {
			return view, nil
		}
	}

	// The first week bucket may reach into the previous month's tail
	// days, so fetch a few days of lead-in.
	rangeStart := utils.MonthDate(year, monthIndex, 1-monthViewFetchLeadDays).Format(utils.ISODateFormat)
	rangeEnd := utils.ISODate(year, monthIndex, utils.DaysInMonth(year, monthIndex))

	query := `SELECT ` + tradeColumns + ` FROM trades
	WHERE user_id = ? AND date >= ? AND date <= ?`
	args := []interface{}{userID, rangeStart, rangeEnd}
	if environment != "" {
		query += ` AND trade_environment = ?`
		args = append(args, environment)
	}
	query += ` ORDER BY date, entry_time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.MonthView{}, fmt.Errorf("failed to query trades for month view: %w", err)
	}
	defer rows.Close()

	trades, err := scanTrades(rows)
	if err != nil {
		return models.MonthView{}, err
	}

	view := processors.BuildMonthView(trades, year, monthIndex)
	s.reportCache.Set(cacheKey, view, cache.DefaultExpiration)
	return view, nil
}

// ExportTradesForDate renders the trades of one day as a 7-column CSV.
// String fields are double-quoted and sanitized against spreadsheet
// formula injection.
func (s *tradeService) ExportTradesForDate(ctx context.Context, userID int64, date string) ([]byte, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades
	WHERE user_id = ? AND date = ? ORDER BY entry_time`
	rows, err := s.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for export: %w", err)
	}
	defer rows.Close()

	trades, err := scanTrades(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachAccountInfo(ctx, userID, trades); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("Symbol,Direction,Entry,Exit,P&L,Account,Notes\n")
	for _, t := range trades {
		pnl := ""
		if t.ProfitLoss != nil {
			pnl = fmt.Sprintf("%.2f", *t.ProfitLoss)
		}
		fields := []string{
			csvQuote(t.Symbol),
			csvQuote(t.Direction),
			fmt.Sprintf("%g", t.EntryPrice),
			fmt.Sprintf("%g", t.ExitPrice),
			pnl,
			csvQuote(t.AccountName),
			csvQuote(t.Notes),
		}
		buf.WriteString(strings.Join(fields, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func csvQuote(value string) string {
	sanitized := validation.SanitizeForFormulaInjection(validation.StripUnprintable(value))
	return `"` + strings.ReplaceAll(sanitized, `"`, `""`) + `"`
}

// invalidateUserCache drops every cached month view belonging to a user.
// go-cache has no prefix delete, so scan the key space.
func (s *tradeService) invalidateUserCache(userID int64) {
	prefix := fmt.Sprintf("agg_month_view_user_%d_", userID)
	for key := range s.reportCache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.reportCache.Delete(key)
		}
	}
}

// tradeFromInput builds a Trade from client input, deriving the fields the
// client is not allowed to set directly. Outcome in particular is always
// recomputed from ProfitLoss.
func tradeFromInput(userID int64, input models.TradeInput) models.Trade {
	trade := models.Trade{
		UserID:           userID,
		AccountID:        input.AccountID,
		Symbol:           input.Symbol,
		Direction:        strings.ToLower(input.Direction),
		TradeType:        input.TradeType,
		Quantity:         input.Quantity,
		EntryPrice:       input.EntryPrice,
		ExitPrice:        input.ExitPrice,
		StopLoss:         input.StopLoss,
		TakeProfitLevels: input.TakeProfitLevels,
		Date:             input.Date,
		EntryTime:        input.EntryTime,
		ExitTime:         input.ExitTime,
		Session:          input.Session,
		Timeframe:        input.Timeframe,
		NewsImpact:       input.NewsImpact,
		Bias:             input.Bias,
		Confluences:      input.Confluences,
		PipsOrTicks:      input.PipsOrTicks,
		ProfitLoss:       input.ProfitLoss,
		Notes:            input.Notes,
		TradeEnvironment: input.TradeEnvironment,
	}
	if trade.TradeType == "" {
		trade.TradeType = "forex"
	}
	if trade.TradeEnvironment == "" {
		trade.TradeEnvironment = "live"
	}
	if trade.ProfitLoss != nil {
		trade.Outcome = models.OutcomeFor(*trade.ProfitLoss)
	}
	return trade
}

func marshalTradeJSON(trade models.Trade) (tpJSON, confJSON string, err error) {
	tp, err := json.Marshal(trade.TakeProfitLevels)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal take profit levels: %w", err)
	}
	conf, err := json.Marshal(trade.Confluences)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal confluences: %w", err)
	}
	return string(tp), string(conf), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var trade models.Trade
	var accountID sql.NullString
	var stopLoss, profitLoss sql.NullFloat64
	var tpJSON, confJSON, outcome sql.NullString
	var entryTime, exitTime, session, timeframe, newsImpact, bias, notes sql.NullString
	var quantity, entryPrice, exitPrice sql.NullFloat64
	var pipsOrTicks sql.NullInt64

	err := row.Scan(
		&trade.ID, &trade.UserID, &accountID, &trade.Symbol, &trade.Direction,
		&trade.TradeType, &quantity, &entryPrice, &exitPrice, &stopLoss, &tpJSON,
		&trade.Date, &entryTime, &exitTime, &session, &timeframe, &newsImpact,
		&bias, &confJSON, &outcome, &pipsOrTicks, &profitLoss, &notes,
		&trade.TradeEnvironment, &trade.CreatedAt, &trade.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if accountID.Valid {
		trade.AccountID = &accountID.String
	}
	trade.Quantity = quantity.Float64
	trade.EntryPrice = entryPrice.Float64
	trade.ExitPrice = exitPrice.Float64
	if stopLoss.Valid {
		trade.StopLoss = &stopLoss.Float64
	}
	if profitLoss.Valid {
		trade.ProfitLoss = &profitLoss.Float64
	}
	if tpJSON.Valid && tpJSON.String != "" {
		if err := json.Unmarshal([]byte(tpJSON.String), &trade.TakeProfitLevels); err != nil {
			logger.L.Warn("failed to unmarshal take profit levels", "tradeID", trade.ID, "error", err)
		}
	}
	if confJSON.Valid && confJSON.String != "" {
		if err := json.Unmarshal([]byte(confJSON.String), &trade.Confluences); err != nil {
			logger.L.Warn("failed to unmarshal confluences", "tradeID", trade.ID, "error", err)
		}
	}
	trade.EntryTime = entryTime.String
	trade.ExitTime = exitTime.String
	trade.Session = session.String
	trade.Timeframe = timeframe.String
	trade.NewsImpact = newsImpact.String
	trade.Bias = bias.String
	trade.Outcome = outcome.String
	trade.PipsOrTicks = int(pipsOrTicks.Int64)
	trade.Notes = notes.String

	return &trade, nil
}

func scanTrades(rows *sql.Rows) ([]models.Trade, error) {
	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading trade rows: %w", err)
	}
	return trades, nil
}
