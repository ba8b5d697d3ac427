package models

// CanonicalTrade is the unified, intermediate representation of one
// imported trade. Each parser is responsible for populating as many of
// these fields as possible directly from the source file, defaulting
// unparsable numeric fields to zero and leaving optional price levels
// absent (lenient normalization). A candidate only exists transiently
// during import; it becomes a Trade when the user applies it.
type CanonicalTrade struct {
	Symbol     string   `json:"symbol"`
	Direction  string   `json:"direction"` // "buy" or "sell"
	Quantity   float64  `json:"quantity"`
	EntryPrice float64  `json:"entry_price"`
	ExitPrice  float64  `json:"exit_price"`
	StopLoss   *float64 `json:"stop_loss"`
	TakeProfit *float64 `json:"take_profit"`
	Date       string   `json:"date"`       // YYYY-MM-DD
	EntryTime  string   `json:"entry_time"` // HH:MM, source-local
	ExitTime   string   `json:"exit_time"`
	ProfitLoss float64  `json:"profit_loss"`
	Outcome    string   `json:"outcome"` // derived via OutcomeFor, never set directly
	Source     string   `json:"source"`  // format identifier, e.g. "mt4"
	Notes      string   `json:"notes"`   // human-readable provenance label
}
