package games

import (
	"math"

	"github.com/fairlab/outcome-engine/internal/engine"
)

const (
	limboDefaultEdge = 1.0 // percent

	// Policy constants, not derived from the house-edge math. The epsilon
	// guards the normalizer's own near-boundary values; the distribution
	// already excludes 0 and 1.
	limboFloatEpsilon  = 1e-6
	limboMaxMultiplier = 1000000.0
)

// LimboGame implements the Limbo crash-multiplier game.
type LimboGame struct{}

// Spec returns metadata about the Limbo game.
func (g *LimboGame) Spec() GameSpec {
	return GameSpec{
		ID:          "limbo",
		Name:        "Limbo",
		Tag:         "LIMBO",
		MetricLabel: "multiplier",
		Continuous:  true,
	}
}

// FloatCount returns the number of floats required.
func (g *LimboGame) FloatCount(params map[string]any) int {
	return 1
}

// Evaluate calculates the crash multiplier. The houseEdge param is a
// percentage (1.0 means 1%).
func (g *LimboGame) Evaluate(seeds Seeds, nonce uint64, params map[string]any) (GameResult, error) {
	edge := limboDefaultEdge
	if v, ok, err := floatParam(params, "houseEdge"); err != nil {
		return GameResult{}, err
	} else if ok {
		edge = v
	}

	f := engine.Floats(seeds.Server, seeds.Client, nonce, g.Spec().Tag, 1)[0]
	multiplier := LimboMultiplier(f, edge)

	return GameResult{
		Metric:      multiplier,
		MetricLabel: "multiplier",
		Details: map[string]any{
			"raw_float":  f,
			"multiplier": multiplier,
			"house_edge": edge,
		},
	}, nil
}

// LimboMultiplier maps a normalized float to a crash multiplier with the
// given house edge percent applied. A player target T wins when the
// multiplier is at least T, so the win probability is (1 - edge/100) / T.
func LimboMultiplier(f, houseEdgePercent float64) float64 {
	f = math.Min(math.Max(f, limboFloatEpsilon), 1-limboFloatEpsilon)

	multiplier := (1 - houseEdgePercent/100) / f

	// Round down to 2 decimal places, then clamp to [1, cap].
	multiplier = math.Floor(multiplier*100) / 100
	if multiplier < 1 {
		return 1
	}
	if multiplier > limboMaxMultiplier {
		return limboMaxMultiplier
	}
	return multiplier
}
