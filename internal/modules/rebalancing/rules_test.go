package rebalancing

import (
	"testing"

	"github.com/aristath/portfolio-advisor/internal/domain"
)

func TestRule_Quantity_Floors(t *testing.T) {
	rule := Rule{QuantityFraction: 0.5}

	tests := []struct {
		shares int
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{100, 50},
		{101, 50},
	}

	for _, tt := range tests {
		h := holding("CBA.AX", tt.shares, 50.0, domain.SignalHold, 55)
		if got := rule.Quantity(h); got != tt.want {
			t.Errorf("Quantity(%d shares): expected %d, got %d", tt.shares, tt.want, got)
		}
	}
}

func TestMatchRule_FirstMatchWins(t *testing.T) {
	rules := []Rule{
		{
			Name:    "first",
			Matches: func(h domain.Holding) bool { return h.Shares > 0 },
			Action:  ActionSell,
		},
		{
			Name:    "second",
			Matches: func(h domain.Holding) bool { return true },
			Action:  ActionBuy,
		},
	}

	rule := matchRule(rules, holding("CBA.AX", 10, 50.0, domain.SignalHold, 55))
	if rule == nil {
		t.Fatal("Expected a match")
	}
	if rule.Name != "first" {
		t.Errorf("Expected first rule to win, got %s", rule.Name)
	}
}

func TestMatchRule_NoMatch(t *testing.T) {
	rule := matchRule(defaultRules, holding("CBA.AX", 100, 50.0, domain.SignalBuy, 75))
	if rule != nil {
		t.Errorf("Expected no match, got rule %s", rule.Name)
	}
}

func TestDefaultRules_OnlyTwoEntries(t *testing.T) {
	if len(defaultRules) != 2 {
		t.Fatalf("Expected 2 shipped rules, got %d", len(defaultRules))
	}
	if defaultRules[0].Name != "low_confidence_hold" {
		t.Errorf("Unexpected first rule: %s", defaultRules[0].Name)
	}
	if defaultRules[1].Name != "high_confidence_strong_buy" {
		t.Errorf("Unexpected second rule: %s", defaultRules[1].Name)
	}
}
