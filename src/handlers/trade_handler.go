package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/tradefolio/src/logger"
	"github.com/username/tradefolio/src/models"
	"github.com/username/tradefolio/src/processors"
	"github.com/username/tradefolio/src/services"
	"github.com/username/tradefolio/src/utils"
)

type TradeHandler struct {
	tradeService services.TradeService
}

func NewTradeHandler(tradeService services.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

func (h *TradeHandler) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var input models.TradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Symbol == "" || input.Date == "" {
		utils.SendJSONError(w, "Symbol and date are required", http.StatusBadRequest)
		return
	}
	if _, err := utils.ParseISODate(input.Date); err != nil {
		utils.SendJSONError(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	trade, err := h.tradeService.CreateTrade(r.Context(), userID, input)
	if err != nil {
		logger.L.Error("failed to create trade", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create trade", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(trade)
}

func (h *TradeHandler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	environment := r.URL.Query().Get("environment")
	trades, err := h.tradeService.GetTrades(r.Context(), userID, environment)
	if err != nil {
		logger.L.Error("failed to list trades", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to fetch trades", http.StatusInternalServerError)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trades)
}

func (h *TradeHandler) HandleGetTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	trade, err := h.tradeService.GetTradeByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, services.ErrTradeNotFound) {
			utils.SendJSONError(w, "Trade not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to fetch trade", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trade)
}

func (h *TradeHandler) HandleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var input models.TradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.tradeService.UpdateTrade(r.Context(), userID, r.PathValue("id"), input)
	if err != nil {
		if errors.Is(err, services.ErrTradeNotFound) {
			utils.SendJSONError(w, "Trade not found", http.StatusNotFound)
			return
		}
		logger.L.Error("failed to update trade", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to update trade", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trade)
}

func (h *TradeHandler) HandleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.tradeService.DeleteTrade(r.Context(), userID, r.PathValue("id")); err != nil {
		if errors.Is(err, services.ErrTradeNotFound) {
			utils.SendJSONError(w, "Trade not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to delete trade", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Trade deleted"})
}

func (h *TradeHandler) HandleDeleteAllTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.tradeService.DeleteAllTrades(r.Context(), userID); err != nil {
		logger.L.Error("failed to delete all trades", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to delete trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All trades deleted"})
}

// HandleComputeDistance returns the pip/tick distance for a symbol and a
// pair of prices without touching storage; the client uses it to prefill
// the pips_or_ticks field while editing.
func (h *TradeHandler) HandleComputeDistance(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r); !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var input struct {
		Symbol     string   `json:"symbol"`
		EntryPrice *float64 `json:"entry_price"`
		ExitPrice  *float64 `json:"exit_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.EntryPrice == nil || input.ExitPrice == nil {
		utils.SendJSONError(w, "symbol, entry price and exit price are required", http.StatusBadRequest)
		return
	}

	distance, err := processors.ComputeDistance(input.Symbol, *input.EntryPrice, *input.ExitPrice)
	if err != nil {
		if errors.Is(err, processors.ErrInsufficientInput) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, "Failed to compute distance", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"pips_or_ticks": distance})
}

// HandleExportTrades streams one day's trades as a CSV attachment.
func (h *TradeHandler) HandleExportTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.SendJSONError(w, "Query parameter 'date' is required", http.StatusBadRequest)
		return
	}
	if _, err := utils.ParseISODate(date); err != nil {
		utils.SendJSONError(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	csvData, err := h.tradeService.ExportTradesForDate(r.Context(), userID, date)
	if err != nil {
		logger.L.Error("failed to export trades", "userID", userID, "date", date, "error", err)
		utils.SendJSONError(w, "Failed to export trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=trades-%s.csv", date))
	w.Write(csvData)
}
