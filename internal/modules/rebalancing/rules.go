package rebalancing

import (
	"math"

	"github.com/aristath/portfolio-advisor/internal/domain"
)

// Rule is one entry in the declarative rule table. Matches decides whether a
// holding qualifies; the remaining fields template the resulting suggestion.
// Rules are evaluated in table order and the first match wins, so a holding
// produces at most one suggestion.
type Rule struct {
	Name             string
	Matches          func(h domain.Holding) bool
	Action           Action
	QuantityFraction float64 // fraction of held shares to trade, floored
	Priority         Priority
	Reason           string
	ExpectedReturn   float64 // percent
	VolatilityChange float64 // percent, signed
}

// Quantity returns the number of shares the rule would trade for a holding.
func (r Rule) Quantity(h domain.Holding) int {
	return int(math.Floor(float64(h.Shares) * r.QuantityFraction))
}

// wellFormed rejects holdings no rule should ever match: negative share
// counts, confidence outside sane float range, or an unknown signal value.
// A malformed holding degrades to "no suggestion" instead of failing the
// whole computation.
func wellFormed(h domain.Holding) bool {
	if h.Shares < 0 {
		return false
	}
	if math.IsNaN(h.Confidence) || math.IsInf(h.Confidence, 0) {
		return false
	}
	return h.Signal.IsValid()
}

// defaultRules is the shipped rule table. Only the two validated rules exist;
// BUY, SELL, and STRONG_SELL signals intentionally produce no suggestions
// until the corresponding rules are validated against product behavior.
var defaultRules = []Rule{
	{
		Name: "low_confidence_hold",
		Matches: func(h domain.Holding) bool {
			return h.Signal == domain.SignalHold && h.Confidence < 60
		},
		Action:           ActionSell,
		QuantityFraction: 0.5,
		Priority:         PriorityMedium,
		Reason:           "Reduce exposure to low-confidence position",
		ExpectedReturn:   0.5,
		VolatilityChange: -2.0,
	},
	{
		Name: "high_confidence_strong_buy",
		Matches: func(h domain.Holding) bool {
			return h.Signal == domain.SignalStrongBuy && h.Confidence >= 80
		},
		Action:           ActionBuy,
		QuantityFraction: 0.3,
		Priority:         PriorityHigh,
		Reason:           "Increase exposure to high-confidence opportunity",
		ExpectedReturn:   1.2,
		VolatilityChange: 0.8,
	},
}

// matchRule returns the first rule in the table that matches the holding,
// or nil if none do. Malformed holdings match nothing.
func matchRule(rules []Rule, h domain.Holding) *Rule {
	if !wellFormed(h) {
		return nil
	}
	for i := range rules {
		if rules[i].Matches(h) {
			return &rules[i]
		}
	}
	return nil
}
