package rebalancing

import (
	"math"
	"reflect"
	"testing"

	"github.com/aristath/portfolio-advisor/internal/domain"
)

func holding(ticker string, shares int, price float64, signal domain.Signal, confidence float64) domain.Holding {
	return domain.Holding{
		Ticker:       ticker,
		CompanyName:  ticker + " Ltd",
		Shares:       shares,
		AvgCost:      price,
		CurrentPrice: price,
		TotalValue:   float64(shares) * price,
		Signal:       signal,
		Confidence:   confidence,
	}
}

func portfolio(holdings ...domain.Holding) domain.Portfolio {
	var total float64
	for _, h := range holdings {
		total += h.TotalValue
	}
	return domain.Portfolio{TotalValue: total, Holdings: holdings}
}

func TestComputeSuggestions_EmptyPortfolio(t *testing.T) {
	engine := NewEngine()

	suggestions := engine.ComputeSuggestions(portfolio())

	if len(suggestions) != 0 {
		t.Errorf("Expected no suggestions, got %d", len(suggestions))
	}
	if !IsBalanced(suggestions) {
		t.Error("Empty portfolio should be balanced")
	}
}

func TestComputeSuggestions_LowConfidenceHold(t *testing.T) {
	engine := NewEngine()
	p := portfolio(holding("CBA.AX", 100, 50.0, domain.SignalHold, 55))

	suggestions := engine.ComputeSuggestions(p)

	if len(suggestions) != 1 {
		t.Fatalf("Expected 1 suggestion, got %d", len(suggestions))
	}

	s := suggestions[0]
	if s.Action != ActionSell {
		t.Errorf("Expected SELL, got %s", s.Action)
	}
	if s.Quantity != 50 {
		t.Errorf("Expected quantity 50, got %d", s.Quantity)
	}
	if s.Priority != PriorityMedium {
		t.Errorf("Expected medium priority, got %s", s.Priority)
	}
	if s.Reason != "Reduce exposure to low-confidence position" {
		t.Errorf("Unexpected reason: %q", s.Reason)
	}
	if s.ID != "sell-CBA.AX" {
		t.Errorf("Expected ID sell-CBA.AX, got %s", s.ID)
	}
	if s.Impact.ExpectedReturn != 0.5 {
		t.Errorf("Expected return 0.5, got %.2f", s.Impact.ExpectedReturn)
	}
	if s.Impact.VolatilityChange != -2.0 {
		t.Errorf("Expected volatility change -2.0, got %.2f", s.Impact.VolatilityChange)
	}
}

func TestComputeSuggestions_HighConfidenceStrongBuy(t *testing.T) {
	engine := NewEngine()
	p := portfolio(holding("BHP.AX", 200, 40.0, domain.SignalStrongBuy, 85))

	suggestions := engine.ComputeSuggestions(p)

	if len(suggestions) != 1 {
		t.Fatalf("Expected 1 suggestion, got %d", len(suggestions))
	}

	s := suggestions[0]
	if s.Action != ActionBuy {
		t.Errorf("Expected BUY, got %s", s.Action)
	}
	if s.Quantity != 60 {
		t.Errorf("Expected quantity 60, got %d", s.Quantity)
	}
	if s.Priority != PriorityHigh {
		t.Errorf("Expected high priority, got %s", s.Priority)
	}
	if s.Reason != "Increase exposure to high-confidence opportunity" {
		t.Errorf("Unexpected reason: %q", s.Reason)
	}
	if s.ID != "buy-BHP.AX" {
		t.Errorf("Expected ID buy-BHP.AX, got %s", s.ID)
	}
}

func TestComputeSuggestions_MixedPortfolioOrdering(t *testing.T) {
	engine := NewEngine()
	p := portfolio(
		holding("CBA.AX", 100, 50.0, domain.SignalHold, 55),
		holding("WES.AX", 80, 60.0, domain.SignalBuy, 75),
		holding("BHP.AX", 200, 40.0, domain.SignalStrongBuy, 85),
		holding("CSL.AX", 30, 250.0, domain.SignalHold, 70),
	)

	suggestions := engine.ComputeSuggestions(p)

	if len(suggestions) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(suggestions))
	}

	// High priority BUY ranks above medium priority SELL.
	if suggestions[0].Ticker != "BHP.AX" || suggestions[0].Action != ActionBuy {
		t.Errorf("Expected BUY BHP.AX first, got %s %s", suggestions[0].Action, suggestions[0].Ticker)
	}
	if suggestions[1].Ticker != "CBA.AX" || suggestions[1].Action != ActionSell {
		t.Errorf("Expected SELL CBA.AX second, got %s %s", suggestions[1].Action, suggestions[1].Ticker)
	}
}

func TestComputeSuggestions_BalancedPortfolio(t *testing.T) {
	engine := NewEngine()

	// High-confidence holds and non-STRONG_BUY signals match no rule.
	p := portfolio(
		holding("CBA.AX", 100, 50.0, domain.SignalHold, 75),
		holding("WES.AX", 80, 60.0, domain.SignalBuy, 70),
		holding("CSL.AX", 30, 250.0, domain.SignalSell, 65),
	)

	suggestions := engine.ComputeSuggestions(p)

	if len(suggestions) != 0 {
		t.Errorf("Expected no suggestions, got %d", len(suggestions))
	}
	if !IsBalanced(suggestions) {
		t.Error("Portfolio with no matching holdings should be balanced")
	}
}

func TestComputeSuggestions_ConfidenceBoundaries(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name       string
		holding    domain.Holding
		wantAction Action
		wantNone   bool
	}{
		{
			name:     "HOLD at exactly 60 does not match",
			holding:  holding("AAA.AX", 100, 10.0, domain.SignalHold, 60),
			wantNone: true,
		},
		{
			name:       "HOLD just under 60 matches",
			holding:    holding("BBB.AX", 100, 10.0, domain.SignalHold, 59.99),
			wantAction: ActionSell,
		},
		{
			name:       "STRONG_BUY at exactly 80 matches",
			holding:    holding("CCC.AX", 100, 10.0, domain.SignalStrongBuy, 80),
			wantAction: ActionBuy,
		},
		{
			name:     "STRONG_BUY just under 80 does not match",
			holding:  holding("DDD.AX", 100, 10.0, domain.SignalStrongBuy, 79.99),
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := engine.ComputeSuggestions(portfolio(tt.holding))
			if tt.wantNone {
				if len(suggestions) != 0 {
					t.Errorf("Expected no suggestions, got %d", len(suggestions))
				}
				return
			}
			if len(suggestions) != 1 {
				t.Fatalf("Expected 1 suggestion, got %d", len(suggestions))
			}
			if suggestions[0].Action != tt.wantAction {
				t.Errorf("Expected %s, got %s", tt.wantAction, suggestions[0].Action)
			}
		})
	}
}

func TestComputeSuggestions_ZeroQuantitySuppressed(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name    string
		holding domain.Holding
	}{
		{
			name:    "single share SELL floors to zero",
			holding: holding("CBA.AX", 1, 50.0, domain.SignalHold, 55),
		},
		{
			name:    "three shares BUY floors to zero",
			holding: holding("BHP.AX", 3, 40.0, domain.SignalStrongBuy, 90),
		},
		{
			name:    "zero shares produce nothing",
			holding: holding("WES.AX", 0, 60.0, domain.SignalHold, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := engine.ComputeSuggestions(portfolio(tt.holding))
			if len(suggestions) != 0 {
				t.Errorf("Expected no suggestions, got %d", len(suggestions))
			}
		})
	}
}

func TestComputeSuggestions_QuantityNeverExceedsShares(t *testing.T) {
	engine := NewEngine()

	for shares := 1; shares <= 500; shares++ {
		p := portfolio(
			holding("AAA.AX", shares, 10.0, domain.SignalHold, 40),
			holding("BBB.AX", shares, 10.0, domain.SignalStrongBuy, 95),
		)
		for _, s := range engine.ComputeSuggestions(p) {
			if s.Action == ActionSell && s.Quantity > shares {
				t.Fatalf("SELL quantity %d exceeds %d held shares", s.Quantity, shares)
			}
			if s.Quantity <= 0 {
				t.Fatalf("Emitted non-positive quantity %d at %d shares", s.Quantity, shares)
			}
		}
	}
}

func TestComputeSuggestions_MalformedHoldings(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name    string
		holding domain.Holding
	}{
		{
			name:    "negative shares",
			holding: holding("AAA.AX", -10, 50.0, domain.SignalHold, 40),
		},
		{
			name:    "NaN confidence",
			holding: holding("BBB.AX", 100, 50.0, domain.SignalStrongBuy, math.NaN()),
		},
		{
			name:    "Inf confidence",
			holding: holding("CCC.AX", 100, 50.0, domain.SignalStrongBuy, math.Inf(1)),
		},
		{
			name:    "unknown signal",
			holding: holding("DDD.AX", 100, 50.0, domain.Signal("MODERATE_BUY"), 90),
		},
		{
			name:    "empty signal",
			holding: holding("EEE.AX", 100, 50.0, domain.Signal(""), 55),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := engine.ComputeSuggestions(portfolio(tt.holding))
			if len(suggestions) != 0 {
				t.Errorf("Malformed holding produced %d suggestions", len(suggestions))
			}
		})
	}
}

func TestComputeSuggestions_Idempotent(t *testing.T) {
	engine := NewEngine()
	p := portfolio(
		holding("CBA.AX", 100, 50.0, domain.SignalHold, 55),
		holding("BHP.AX", 200, 40.0, domain.SignalStrongBuy, 85),
		holding("CSL.AX", 30, 250.0, domain.SignalHold, 70),
	)

	first := engine.ComputeSuggestions(p)
	second := engine.ComputeSuggestions(p)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Recomputation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestComputeSuggestions_DoesNotMutateInput(t *testing.T) {
	engine := NewEngine()
	p := portfolio(
		holding("CBA.AX", 100, 50.0, domain.SignalHold, 55),
		holding("BHP.AX", 200, 40.0, domain.SignalStrongBuy, 85),
	)

	before := domain.Portfolio{TotalValue: p.TotalValue, Holdings: append([]domain.Holding(nil), p.Holdings...)}
	engine.ComputeSuggestions(p)

	if !reflect.DeepEqual(p, before) {
		t.Errorf("Input portfolio was mutated:\nbefore: %+v\nafter:  %+v", before, p)
	}
}

func TestComputeSuggestions_StableWithinPriorityTier(t *testing.T) {
	engine := NewEngine()
	p := portfolio(
		holding("AAA.AX", 100, 10.0, domain.SignalHold, 40),
		holding("BBB.AX", 100, 10.0, domain.SignalHold, 41),
		holding("CCC.AX", 100, 10.0, domain.SignalHold, 42),
	)

	suggestions := engine.ComputeSuggestions(p)

	if len(suggestions) != 3 {
		t.Fatalf("Expected 3 suggestions, got %d", len(suggestions))
	}
	want := []string{"AAA.AX", "BBB.AX", "CCC.AX"}
	for i, ticker := range want {
		if suggestions[i].Ticker != ticker {
			t.Errorf("Position %d: expected %s, got %s", i, ticker, suggestions[i].Ticker)
		}
	}
}

func TestNewAllocation(t *testing.T) {
	tests := []struct {
		name     string
		p        domain.Portfolio
		h        domain.Holding
		action   Action
		quantity int
		want     float64
	}{
		{
			name: "buy increases allocation",
			p: portfolio(
				holding("AAA.AX", 100, 10.0, domain.SignalHold, 90), // 1000
				holding("BBB.AX", 100, 10.0, domain.SignalHold, 90), // 1000
			),
			h:        holding("AAA.AX", 100, 10.0, domain.SignalHold, 90),
			action:   ActionBuy,
			quantity: 100,
			// (1000 + 1000) / (2000 + 1000) * 100
			want: 66.66666666666667,
		},
		{
			name: "sell decreases allocation",
			p: portfolio(
				holding("AAA.AX", 100, 10.0, domain.SignalHold, 90),
				holding("BBB.AX", 100, 10.0, domain.SignalHold, 90),
			),
			h:        holding("AAA.AX", 100, 10.0, domain.SignalHold, 90),
			action:   ActionSell,
			quantity: 50,
			// (1000 - 500) / (2000 - 500) * 100
			want: 33.33333333333333,
		},
		{
			name:     "sole holding buy stays at 100",
			p:        portfolio(holding("AAA.AX", 100, 10.0, domain.SignalHold, 90)),
			h:        holding("AAA.AX", 100, 10.0, domain.SignalHold, 90),
			action:   ActionBuy,
			quantity: 30,
			want:     100,
		},
		{
			name:     "selling the whole portfolio reports zero",
			p:        portfolio(holding("AAA.AX", 100, 10.0, domain.SignalHold, 90)),
			h:        holding("AAA.AX", 100, 10.0, domain.SignalHold, 90),
			action:   ActionSell,
			quantity: 100,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newAllocation(tt.p, tt.h, tt.action, tt.quantity)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %.6f, got %.6f", tt.want, got)
			}
		})
	}
}

func TestFormatSummary(t *testing.T) {
	one := []Suggestion{{ID: "sell-CBA.AX"}}
	two := []Suggestion{{ID: "buy-BHP.AX"}, {ID: "sell-CBA.AX"}}

	if got := FormatSummary(one); got != "1 suggestion generated" {
		t.Errorf("Expected singular summary, got %q", got)
	}
	if got := FormatSummary(two); got != "2 suggestions generated" {
		t.Errorf("Expected plural summary, got %q", got)
	}
	if got := FormatSummary(nil); got != "0 suggestions generated" {
		t.Errorf("Expected zero summary, got %q", got)
	}
}

func TestNewEngineWithRules_CustomTable(t *testing.T) {
	rules := []Rule{
		{
			Name: "sell_everything",
			Matches: func(h domain.Holding) bool {
				return true
			},
			Action:           ActionSell,
			QuantityFraction: 1.0,
			Priority:         PriorityLow,
			Reason:           "Liquidate",
			ExpectedReturn:   0,
			VolatilityChange: -5.0,
		},
	}
	engine := NewEngineWithRules(rules)
	p := portfolio(holding("CBA.AX", 10, 50.0, domain.SignalBuy, 50))

	suggestions := engine.ComputeSuggestions(p)

	if len(suggestions) != 1 {
		t.Fatalf("Expected 1 suggestion, got %d", len(suggestions))
	}
	if suggestions[0].Quantity != 10 {
		t.Errorf("Expected quantity 10, got %d", suggestions[0].Quantity)
	}
	if suggestions[0].Priority != PriorityLow {
		t.Errorf("Expected low priority, got %s", suggestions[0].Priority)
	}
}
