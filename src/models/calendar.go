package models

// DayBucket aggregates the trades of one calendar day inside the
// selected month. Aggregates are derived on every build and never
// persisted.
type DayBucket struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	Trades     []Trade `json:"trades"`
	TotalPnL   float64 `json:"total_pnl"`
	TradeCount int     `json:"trade_count"`
	// WinRate is a rounded percentage, nil when the bucket has no
	// trade with a known profit/loss.
	WinRate *int `json:"win_rate"`
}

// WeekBucket aggregates one of the six display rows of the month grid.
// StartDate may fall in the previous month when the 1st is not a
// Sunday; see the calendar processor for the boundary-week rules.
type WeekBucket struct {
	WeekIndex  int     `json:"week_index"` // 0-based display row
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Trades     []Trade `json:"trades"`
	TotalPnL   float64 `json:"total_pnl"`
	TradeCount int     `json:"trade_count"`
	WinRate    *int    `json:"win_rate"`
}

// MonthView is the full calendar view model for one month: one bucket
// per day of the month plus six week rows.
type MonthView struct {
	Year        int          `json:"year"`
	MonthIndex  int          `json:"month_index"` // 0 = January
	DayBuckets  []DayBucket  `json:"day_buckets"`
	WeekBuckets []WeekBucket `json:"week_buckets"`
}
