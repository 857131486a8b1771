package trading

import "time"

// Trade represents an applied suggestion recorded for the dashboard's
// activity feed. This is local bookkeeping, not broker execution.
type Trade struct {
	ID           int64     `json:"id"`
	SuggestionID string    `json:"suggestion_id"`
	Ticker       string    `json:"ticker"`
	Side         string    `json:"side"` // BUY or SELL
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	Reason       string    `json:"reason"`
	ExecutedAt   time.Time `json:"executed_at"`
}
