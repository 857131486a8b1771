package rebalancing

import (
	"strings"

	"github.com/aristath/portfolio-advisor/internal/domain"
)

// Action is the trade direction of a suggestion.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Priority is a coarse ranking used to order suggestions for user attention.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// rank maps priorities to sort order; lower ranks sort first.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Impact estimates the directional portfolio effect of applying a suggestion.
// ExpectedReturn and VolatilityChange are per-rule constants, not a calibrated
// forecast; NewAllocation is the holding's post-trade share of the portfolio.
type Impact struct {
	ExpectedReturn   float64 `json:"expected_return"`   // percent
	VolatilityChange float64 `json:"volatility_change"` // percent, signed
	NewAllocation    float64 `json:"new_allocation"`    // percent, 0-100
}

// Suggestion is one actionable buy/sell adjustment for a holding.
type Suggestion struct {
	ID                string        `json:"id"`
	Action            Action        `json:"action"`
	Ticker            string        `json:"ticker"`
	CompanyName       string        `json:"company_name"`
	Quantity          int           `json:"quantity"`
	CurrentSignal     domain.Signal `json:"current_signal"`
	CurrentConfidence float64       `json:"current_confidence"`
	Reason            string        `json:"reason"`
	Impact            Impact        `json:"impact"`
	Priority          Priority      `json:"priority"`
}

// suggestionID builds the stable identifier "{action-lowercase}-{ticker}",
// e.g. "buy-BHP.AX". Unique within a result set because a holding matches at
// most one rule and tickers are unique within a portfolio.
func suggestionID(action Action, ticker string) string {
	return strings.ToLower(string(action)) + "-" + ticker
}
