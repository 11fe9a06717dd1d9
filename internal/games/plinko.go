package games

import (
	"fmt"
	"strings"

	"github.com/fairlab/outcome-engine/internal/engine"
)

const (
	plinkoMinRows     = 8
	plinkoMaxRows     = 16
	plinkoDefaultRows = 16
)

var plinkoDefaultRisk = RiskMedium

// PlinkoGame implements the Plinko drop game.
type PlinkoGame struct{}

// Spec returns metadata about the Plinko game.
func (g *PlinkoGame) Spec() GameSpec {
	return GameSpec{
		ID:          "plinko",
		Name:        "Plinko",
		Tag:         "PLINKO",
		MetricLabel: "bucket",
	}
}

// FloatCount returns how many floats are required for the given parameters.
func (g *PlinkoGame) FloatCount(params map[string]any) int {
	rows, _, err := plinkoParams(params)
	if err != nil {
		return plinkoDefaultRows
	}
	return rows
}

// Evaluate walks the peg rows. Every row is an unbiased 50/50 decision
// regardless of risk level; risk only selects the payout table. The bucket
// index is the count of left decisions, a Binomial(rows, 0.5) variable.
func (g *PlinkoGame) Evaluate(seeds Seeds, nonce uint64, params map[string]any) (GameResult, error) {
	rows, risk, err := plinkoParams(params)
	if err != nil {
		return GameResult{}, err
	}

	table, err := plinkoTable(risk, rows)
	if err != nil {
		return GameResult{}, err
	}

	floats := engine.Floats(seeds.Server, seeds.Client, nonce, g.Spec().Tag, rows)

	directions := make([]string, rows)
	bucketIndex := 0
	for i, f := range floats {
		if f < 0 || f >= 1 {
			return GameResult{}, fmt.Errorf("plinko float at row %d out of range [0,1): %f", i, f)
		}

		if f < 0.5 {
			bucketIndex++
			directions[i] = "left"
		} else {
			directions[i] = "right"
		}
	}

	multiplier := table[bucketIndex]

	return GameResult{
		Metric:      float64(bucketIndex),
		MetricLabel: "bucket",
		Details: map[string]any{
			"rows":         rows,
			"risk":         risk.String(),
			"directions":   directions,
			"bucket_index": bucketIndex,
			"multiplier":   multiplier,
		},
	}, nil
}

func plinkoParams(params map[string]any) (int, Risk, error) {
	rows := plinkoDefaultRows
	if v, ok, err := intParam(params, "rows"); err != nil {
		return 0, 0, err
	} else if ok {
		rows = v
	}
	if rows < plinkoMinRows || rows > plinkoMaxRows {
		return 0, 0, fmt.Errorf("plinko rows must be between %d and %d, got %d", plinkoMinRows, plinkoMaxRows, rows)
	}

	risk := plinkoDefaultRisk
	if params != nil {
		if raw, ok := params["risk"]; ok {
			s, ok := raw.(string)
			if !ok {
				return 0, 0, fmt.Errorf("unsupported type for plinko risk: %T", raw)
			}
			parsed, err := ParseRisk(strings.ToLower(strings.TrimSpace(s)))
			if err != nil {
				return 0, 0, err
			}
			risk = parsed
		}
	}

	return rows, risk, nil
}
