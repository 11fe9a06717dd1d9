package games

import (
	"github.com/fairlab/outcome-engine/internal/engine"
)

// BlackjackGame implements the blackjack payout-rules game. Cards are drawn
// from an unlimited deck (each draw independent over 52 cards). The house
// edge comes from the dealer draw rules, not from scaling the payout, so
// the settle multipliers are fixed constants.
type BlackjackGame struct{}

// blackjackMaxCards bounds one round: two hands plus the longest possible
// dealer draw sequence.
const blackjackMaxCards = 16

// Settle outcomes for a blackjack round.
const (
	BlackjackLoss    = "loss"
	BlackjackPush    = "push"
	BlackjackWin     = "win"
	BlackjackNatural = "natural"
)

// Spec returns metadata about the Blackjack game.
func (g *BlackjackGame) Spec() GameSpec {
	return GameSpec{
		ID:          "blackjack",
		Name:        "Blackjack",
		Tag:         "BLACKJACK",
		MetricLabel: "multiplier",
	}
}

// FloatCount returns the number of floats required.
func (g *BlackjackGame) FloatCount(params map[string]any) int {
	return blackjackMaxCards
}

// Evaluate deals the round and settles it. Deal order is player, dealer,
// player, dealer; the dealer then draws to 17, standing on all 17s.
func (g *BlackjackGame) Evaluate(seeds Seeds, nonce uint64, params map[string]any) (GameResult, error) {
	bg := engine.NewByteGenerator(seeds.Server, seeds.Client, nonce, g.Spec().Tag, 0)

	draw := func() Card { return cardFromFloat(bg.NextFloat()) }

	p1, d1, p2, d2 := draw(), draw(), draw(), draw()
	playerCards := []Card{p1, p2}
	dealerCards := []Card{d1, d2}

	playerValue := blackjackHandValue(playerCards)
	playerNatural := playerValue == 21

	for blackjackHandValue(dealerCards) < 17 {
		dealerCards = append(dealerCards, draw())
	}
	dealerValue := blackjackHandValue(dealerCards)
	dealerNatural := dealerValue == 21 && len(dealerCards) == 2

	outcome := blackjackSettle(playerValue, dealerValue, playerNatural, dealerNatural)

	playerStrs := make([]string, len(playerCards))
	for i, c := range playerCards {
		playerStrs[i] = c.String()
	}
	dealerStrs := make([]string, len(dealerCards))
	for i, c := range dealerCards {
		dealerStrs[i] = c.String()
	}

	return GameResult{
		Metric:      BlackjackMultiplier(outcome),
		MetricLabel: "multiplier",
		Details: map[string]any{
			"player_cards":   playerStrs,
			"dealer_cards":   dealerStrs,
			"player_value":   playerValue,
			"dealer_value":   dealerValue,
			"player_natural": playerNatural,
			"dealer_natural": dealerNatural,
			"outcome":        outcome,
		},
	}, nil
}

// blackjackSettle classifies the round from the two final hand values.
// Dealer busts above 21; naturals beat made 21s and push each other.
func blackjackSettle(playerValue, dealerValue int, playerNatural, dealerNatural bool) string {
	switch {
	case playerNatural && dealerNatural:
		return BlackjackPush
	case playerNatural:
		return BlackjackNatural
	case dealerNatural:
		return BlackjackLoss
	case playerValue > 21:
		return BlackjackLoss
	case dealerValue > 21:
		return BlackjackWin
	case playerValue > dealerValue:
		return BlackjackWin
	case playerValue < dealerValue:
		return BlackjackLoss
	default:
		return BlackjackPush
	}
}

// BlackjackMultiplier returns the fixed settle multiplier for an outcome:
// 2.5x natural, 2.0x win, 1.0x push, 0x loss.
func BlackjackMultiplier(outcome string) float64 {
	switch outcome {
	case BlackjackNatural:
		return 2.5
	case BlackjackWin:
		return 2.0
	case BlackjackPush:
		return 1.0
	default:
		return 0
	}
}
