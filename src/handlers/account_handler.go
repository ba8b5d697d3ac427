package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/username/tradefolio/src/database"
	"github.com/username/tradefolio/src/logger"
	"github.com/username/tradefolio/src/models"
	"github.com/username/tradefolio/src/utils"
)

// AccountHandler manages the user's trading accounts. Accounts are simple
// enough that queries live here directly instead of behind a service.
type AccountHandler struct{}

func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

var validEnvironments = map[string]bool{
	"live":     true,
	"demo":     true,
	"backtest": true,
}

func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	query := `SELECT id, user_id, account_name, COALESCE(broker, ''), environment, created_at
	FROM trading_accounts WHERE user_id = ?`
	args := []interface{}{userID}
	if env := r.URL.Query().Get("environment"); env != "" {
		query += ` AND environment = ?`
		args = append(args, env)
	}
	query += ` ORDER BY created_at`

	rows, err := database.DB.QueryContext(r.Context(), query, args...)
	if err != nil {
		logger.L.Error("failed to list trading accounts", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to fetch accounts", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	accounts := []models.TradingAccount{}
	for rows.Next() {
		var account models.TradingAccount
		if err := rows.Scan(&account.ID, &account.UserID, &account.AccountName,
			&account.Broker, &account.Environment, &account.CreatedAt); err != nil {
			utils.SendJSONError(w, "Failed to read accounts", http.StatusInternalServerError)
			return
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		utils.SendJSONError(w, "Failed to read accounts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var input struct {
		AccountName string `json:"account_name"`
		Broker      string `json:"broker"`
		Environment string `json:"environment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.AccountName == "" {
		utils.SendJSONError(w, "Account name is required", http.StatusBadRequest)
		return
	}
	if input.Environment == "" {
		input.Environment = "live"
	}
	if !validEnvironments[input.Environment] {
		utils.SendJSONError(w, "Environment must be live, demo or backtest", http.StatusBadRequest)
		return
	}

	account := models.TradingAccount{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountName: input.AccountName,
		Broker:      input.Broker,
		Environment: input.Environment,
	}

	err := database.DB.QueryRowContext(r.Context(),
		`INSERT INTO trading_accounts (id, user_id, account_name, broker, environment)
		VALUES (?, ?, ?, ?, ?) RETURNING created_at`,
		account.ID, account.UserID, account.AccountName, account.Broker, account.Environment,
	).Scan(&account.CreatedAt)
	if err != nil {
		logger.L.Error("failed to create trading account", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	accountID := r.PathValue("id")

	tx, err := database.DB.BeginTx(r.Context(), nil)
	if err != nil {
		utils.SendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	// Detach trades first so they survive as account-less entries.
	if _, err := tx.ExecContext(r.Context(),
		`UPDATE trades SET account_id = NULL WHERE account_id = ? AND user_id = ?`,
		accountID, userID); err != nil {
		utils.SendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	res, err := tx.ExecContext(r.Context(),
		`DELETE FROM trading_accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		utils.SendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		utils.SendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		utils.SendJSONError(w, "Account not found", http.StatusNotFound)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.SendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Account deleted"})
}
