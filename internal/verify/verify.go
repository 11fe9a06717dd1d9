// Package verify recomputes past outcomes from revealed seed material. It
// shares no state with the betting path and needs no authentication: every
// input is already public once a pair has been rotated.
package verify

import (
	"fmt"
	"math"

	"github.com/fairlab/outcome-engine/internal/games"
	"github.com/fairlab/outcome-engine/internal/seeds"
)

// multiplierEpsilon tolerates presentation-layer rounding on continuous
// multipliers. Discrete outcomes are compared exactly.
const multiplierEpsilon = 1e-9

// Request carries everything needed to audit one bet.
type Request struct {
	ServerSeed     string         `json:"server_seed"`
	ServerSeedHash string         `json:"server_seed_hash"`
	ClientSeed     string         `json:"client_seed"`
	Nonce          uint64         `json:"nonce"`
	Game           string         `json:"game"`
	ClaimedOutcome float64        `json:"claimed_outcome"`
	Params         map[string]any `json:"params,omitempty"`
}

// Result reports the audit verdict with the recomputed value attached, so
// a mismatch shows what the seeds actually produce.
type Result struct {
	IsValid           bool             `json:"is_valid"`
	HashValid         bool             `json:"hash_valid"`
	RecomputedOutcome float64          `json:"recomputed_outcome"`
	Recomputed        games.GameResult `json:"recomputed,omitempty"`
}

// Verify checks the seed commitment, re-runs the deriver and compares the
// outcome. A hash mismatch fails closed: the revealed seed was not the one
// committed to, so the outcome is not even recomputed.
func Verify(req Request) (Result, error) {
	game, ok := games.Get(req.Game)
	if !ok {
		return Result{}, fmt.Errorf("unknown game: %s", req.Game)
	}

	if seeds.HashSeed(req.ServerSeed) != req.ServerSeedHash {
		return Result{}, nil
	}

	recomputed, err := game.Evaluate(
		games.Seeds{Server: req.ServerSeed, Client: req.ClientSeed},
		req.Nonce,
		req.Params,
	)
	if err != nil {
		return Result{HashValid: true}, err
	}

	result := Result{
		HashValid:         true,
		RecomputedOutcome: recomputed.Metric,
		Recomputed:        recomputed,
	}

	if game.Spec().Continuous {
		result.IsValid = math.Abs(recomputed.Metric-req.ClaimedOutcome) <= multiplierEpsilon
	} else {
		result.IsValid = recomputed.Metric == req.ClaimedOutcome
	}
	return result, nil
}
