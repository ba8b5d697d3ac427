package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(r.Context(), userIDContextKey, int64(1))
	return r.WithContext(ctx)
}

func TestHandleComputeDistance(t *testing.T) {
	handler := NewTradeHandler(nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantPips   int
	}{
		{
			name:       "EURUSD pips",
			body:       `{"symbol":"EURUSD","entry_price":1.1000,"exit_price":1.1050}`,
			wantStatus: http.StatusOK,
			wantPips:   50,
		},
		{
			name:       "JPY pair uses larger unit",
			body:       `{"symbol":"USDJPY","entry_price":110.00,"exit_price":110.50}`,
			wantStatus: http.StatusOK,
			wantPips:   50,
		},
		{
			name:       "missing prices rejected",
			body:       `{"symbol":"EURUSD"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank symbol rejected",
			body:       `{"symbol":"","entry_price":1.0,"exit_price":2.0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body rejected",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.HandleComputeDistance(w, authedRequest(http.MethodPost, "/api/trades/distance", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp map[string]int
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantPips, resp["pips_or_ticks"])
			}
		})
	}
}

func TestHandleComputeDistanceRequiresAuth(t *testing.T) {
	handler := NewTradeHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/trades/distance", strings.NewReader(`{}`))

	handler.HandleComputeDistance(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseMonthQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth int
		wantOK    bool
	}{
		{name: "valid month", query: "year=2025&month=0", wantYear: 2025, wantMonth: 0, wantOK: true},
		{name: "december", query: "year=2025&month=11", wantYear: 2025, wantMonth: 11, wantOK: true},
		{name: "month out of range", query: "year=2025&month=12", wantOK: false},
		{name: "negative month", query: "year=2025&month=-1", wantOK: false},
		{name: "missing year", query: "month=3", wantOK: false},
		{name: "non-numeric year", query: "year=abcd&month=3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/calendar?"+tt.query, nil)

			year, month, ok := parseMonthQuery(w, r)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantYear, year)
				assert.Equal(t, tt.wantMonth, month)
				assert.Equal(t, http.StatusOK, w.Code)
			} else {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
