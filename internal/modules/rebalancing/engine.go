package rebalancing

import (
	"fmt"
	"sort"

	"github.com/aristath/portfolio-advisor/internal/domain"
)

// Engine evaluates the rule table against a portfolio snapshot and produces
// ranked rebalancing suggestions. It is a pure function over its input: no
// I/O, no shared state, safe for concurrent use. The same snapshot always
// yields the same suggestion list.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the shipped rule table.
func NewEngine() *Engine {
	return &Engine{rules: defaultRules}
}

// NewEngineWithRules creates an engine with a custom rule table. Rules are
// evaluated in slice order, first match wins.
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// ComputeSuggestions evaluates every holding against the rule table and
// returns the qualifying suggestions sorted by priority (high before medium
// before low), preserving holding order within a tier. The result may be
// empty; it is never nil-unsafe to range over. The input portfolio is not
// mutated.
func (e *Engine) ComputeSuggestions(p domain.Portfolio) []Suggestion {
	suggestions := make([]Suggestion, 0, len(p.Holdings))

	for _, h := range p.Holdings {
		rule := matchRule(e.rules, h)
		if rule == nil {
			continue
		}

		quantity := rule.Quantity(h)
		if quantity <= 0 {
			// Flooring can reach zero (e.g. one share under a 0.5
			// fraction); never emit a zero-quantity suggestion.
			continue
		}

		suggestions = append(suggestions, Suggestion{
			ID:                suggestionID(rule.Action, h.Ticker),
			Action:            rule.Action,
			Ticker:            h.Ticker,
			CompanyName:       h.CompanyName,
			Quantity:          quantity,
			CurrentSignal:     h.Signal,
			CurrentConfidence: h.Confidence,
			Reason:            rule.Reason,
			Impact: Impact{
				ExpectedReturn:   rule.ExpectedReturn,
				VolatilityChange: rule.VolatilityChange,
				NewAllocation:    newAllocation(p, h, rule.Action, quantity),
			},
			Priority: rule.Priority,
		})
	}

	// Stable sort keeps input order within a priority tier.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority.rank() < suggestions[j].Priority.rank()
	})

	return suggestions
}

// newAllocation computes the holding's post-trade share of the portfolio,
// holding all other positions fixed, clamped to [0, 100]. A degenerate
// post-trade total reports 0 rather than propagating NaN or Inf.
func newAllocation(p domain.Portfolio, h domain.Holding, action Action, quantity int) float64 {
	delta := float64(quantity) * h.CurrentPrice
	if action == ActionSell {
		delta = -delta
	}

	newValue := h.TotalValue + delta
	newTotal := p.TotalValue + delta
	if newTotal <= 0 {
		return 0
	}

	pct := 100 * newValue / newTotal
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// IsBalanced reports whether the portfolio needs no adjustments. Drives the
// "Portfolio is Well Balanced" presentation state.
func IsBalanced(suggestions []Suggestion) bool {
	return len(suggestions) == 0
}

// FormatSummary renders the suggestion count line shown above the list.
// Callers should check IsBalanced first; zero is not expected to be displayed.
func FormatSummary(suggestions []Suggestion) string {
	n := len(suggestions)
	if n == 1 {
		return "1 suggestion generated"
	}
	return fmt.Sprintf("%d suggestions generated", n)
}
