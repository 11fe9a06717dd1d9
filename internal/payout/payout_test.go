package payout

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestWinAmountTruncates(t *testing.T) {
	tests := []struct {
		name       string
		bet        string
		multiplier float64
		expected   string
	}{
		{"whole multiple", "100", 2.0, "200"},
		{"fractional multiplier", "1", 1.98, "1.98"},
		{"truncates toward zero", "0.00000001", 1.5, "0.00000001"},
		{"no rounding up", "0.1", 1.9999999999, "0.19999999"},
		{"zero multiplier", "50", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet, err := decimal.NewFromString(tt.bet)
			if err != nil {
				t.Fatalf("bad bet amount: %v", err)
			}

			got := WinAmount(bet, tt.multiplier)
			want, _ := decimal.NewFromString(tt.expected)
			if !got.Equal(want) {
				t.Errorf("WinAmount(%s, %v) = %s, want %s", tt.bet, tt.multiplier, got, want)
			}
		})
	}
}

func TestDiceMultiplier(t *testing.T) {
	tests := []struct {
		name      string
		target    float64
		condition DiceCondition
		edge      float64
		expected  float64
	}{
		{"over 50 pays just under 2x", 50, DiceOver, 1.0, 1.98},
		{"under 50 symmetric", 50, DiceUnder, 1.0, 1.98},
		{"over 90 pays near 10x", 90, DiceOver, 1.0, 9.9},
		{"no edge is fair", 50, DiceOver, 0, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiceMultiplier(tt.target, tt.condition, tt.edge)
			if err != nil {
				t.Fatalf("DiceMultiplier failed: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("DiceMultiplier() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDiceMultiplierRejectsBadTargets(t *testing.T) {
	for _, target := range []float64{0, 100, -5, 100.01} {
		if _, err := DiceMultiplier(target, DiceOver, 1.0); err == nil {
			t.Errorf("expected error for target %v", target)
		}
	}
	if _, err := DiceMultiplier(50, "sideways", 1.0); err == nil {
		t.Error("expected error for invalid condition")
	}
}

func TestDiceWin(t *testing.T) {
	tests := []struct {
		roll      float64
		target    float64
		condition DiceCondition
		expected  bool
	}{
		{67.05, 50, DiceOver, true},
		{50, 50, DiceOver, false}, // exact target is a loss on both sides
		{50, 50, DiceUnder, false},
		{49.99, 50, DiceUnder, true},
		{100.00, 99.99, DiceOver, true},
		{0.00, 0.01, DiceUnder, true},
	}

	for _, tt := range tests {
		got, err := DiceWin(tt.roll, tt.target, tt.condition)
		if err != nil {
			t.Fatalf("DiceWin failed: %v", err)
		}
		if got != tt.expected {
			t.Errorf("DiceWin(%v, %v, %s) = %v, want %v", tt.roll, tt.target, tt.condition, got, tt.expected)
		}
	}
}
