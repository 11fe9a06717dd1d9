package games

import (
	"math"

	"github.com/fairlab/outcome-engine/internal/engine"
)

// diceOutcomes is the number of discrete rolls: 0.00 through 100.00
// inclusive in 0.01 steps.
const diceOutcomes = 10001

// DiceGame implements the Dice roll game.
type DiceGame struct{}

// Spec returns metadata about the Dice game.
func (g *DiceGame) Spec() GameSpec {
	return GameSpec{
		ID:          "dice",
		Name:        "Dice",
		Tag:         "DICE",
		MetricLabel: "roll",
	}
}

// FloatCount returns the number of floats required.
func (g *DiceGame) FloatCount(params map[string]any) int {
	return 1
}

// Evaluate calculates the dice roll (0.00 to 100.00).
func (g *DiceGame) Evaluate(seeds Seeds, nonce uint64, params map[string]any) (GameResult, error) {
	f := engine.Floats(seeds.Server, seeds.Client, nonce, g.Spec().Tag, 1)[0]

	// floor(f * 10001) / 100 maps [0,1) onto exactly 10,001 equally likely
	// discrete outcomes.
	roll := math.Floor(f*diceOutcomes) / 100

	return GameResult{
		Metric:      roll,
		MetricLabel: "roll",
		Details: map[string]any{
			"raw_float": f,
			"roll":      roll,
		},
	}, nil
}
