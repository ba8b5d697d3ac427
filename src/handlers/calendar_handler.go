package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/username/tradefolio/src/database"
	"github.com/username/tradefolio/src/logger"
	"github.com/username/tradefolio/src/model"
	"github.com/username/tradefolio/src/services"
	"github.com/username/tradefolio/src/utils"
)

type CalendarHandler struct {
	tradeService services.TradeService
	emailService services.EmailService
}

func NewCalendarHandler(tradeService services.TradeService, emailService services.EmailService) *CalendarHandler {
	return &CalendarHandler{
		tradeService: tradeService,
		emailService: emailService,
	}
}

// HandleGetMonthView serves the bucketed calendar for one month. Responses
// carry an ETag over the JSON payload; a matching If-None-Match short-
// circuits with 304.
func (h *CalendarHandler) HandleGetMonthView(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	year, monthIndex, ok := parseMonthQuery(w, r)
	if !ok {
		return
	}
	environment := r.URL.Query().Get("environment")

	view, err := h.tradeService.GetMonthView(r.Context(), userID, year, monthIndex, environment)
	if err != nil {
		logger.L.Error("failed to build month view", "userID", userID, "year", year, "month", monthIndex, "error", err)
		utils.SendJSONError(w, "Failed to build calendar", http.StatusInternalServerError)
		return
	}

	etag, err := utils.GenerateETag(view)
	if err == nil {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// HandleSendMonthlySummary emails the user a recap of the requested month.
func (h *CalendarHandler) HandleSendMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var input struct {
		Year        int    `json:"year"`
		MonthIndex  int    `json:"month"`
		Environment string `json:"environment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateMonthIndex(input.MonthIndex); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		utils.SendJSONError(w, "Failed to load user", http.StatusInternalServerError)
		return
	}
	if user.Email == "" {
		utils.SendJSONError(w, "No email address on file", http.StatusBadRequest)
		return
	}

	view, err := h.tradeService.GetMonthView(r.Context(), userID, input.Year, input.MonthIndex, input.Environment)
	if err != nil {
		utils.SendJSONError(w, "Failed to build calendar", http.StatusInternalServerError)
		return
	}

	if err := h.emailService.SendMonthlySummaryEmail(r.Context(), user.Email, user.Username, view); err != nil {
		logger.L.Error("failed to send monthly summary", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to send summary email", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Summary email sent"})
}

// parseMonthQuery reads and validates the year and month query parameters.
// month is the 0-based month index the client's month selector uses.
func parseMonthQuery(w http.ResponseWriter, r *http.Request) (year, monthIndex int, ok bool) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" || monthStr == "" {
		utils.SendJSONError(w, "Query parameters 'year' and 'month' are required", http.StatusBadRequest)
		return 0, 0, false
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1970 || year > 9999 {
		utils.SendJSONError(w, "Invalid year", http.StatusBadRequest)
		return 0, 0, false
	}
	monthIndex, err = strconv.Atoi(monthStr)
	if err != nil {
		utils.SendJSONError(w, "Invalid month", http.StatusBadRequest)
		return 0, 0, false
	}
	if err := utils.ValidateMonthIndex(monthIndex); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return 0, 0, false
	}
	return year, monthIndex, true
}
