// Package bets orchestrates the bet control flow: nonce allocation, outcome
// derivation, payout math and the emitted outcome record.
package bets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/fairlab/outcome-engine/internal/games"
	"github.com/fairlab/outcome-engine/internal/lib/sl"
	"github.com/fairlab/outcome-engine/internal/payout"
	"github.com/fairlab/outcome-engine/internal/seeds"
	"github.com/fairlab/outcome-engine/internal/store"
)

// Typed errors for the API layer's taxonomy.
var (
	ErrUnknownGame   = errors.New("unknown game")
	ErrInvalidParams = errors.New("invalid game parameters")
)

// HouseEdges configures the per-game house edge as decimal percentages
// (1.0 means 1%). Immutable during a derivation. Plinko and blackjack
// carry no knob: plinko's edge lives in the payout tables, blackjack's in
// the dealer draw rules.
type HouseEdges struct {
	Dice  float64
	Limbo float64
	Mines float64
}

// PlaceBetRequest carries a bet from the API collaborator.
type PlaceBetRequest struct {
	UserID     string
	Game       string
	ClientSeed string // used only when the user's first pair is created
	BetAmount  decimal.Decimal
	Params     map[string]any
}

// PlaceBetResult is returned to the caller along with the full seed/nonce
// tuple needed for later verification.
type PlaceBetResult struct {
	Bet            store.Bet      `json:"bet"`
	Outcome        map[string]any `json:"outcome"`
	ServerSeedHash string         `json:"server_seed_hash"`
	ClientSeed     string         `json:"client_seed"`
	Nonce          uint64         `json:"nonce"`
}

// Service wires the seed manager, derivers and payout math together. All
// deriver work happens outside the nonce critical section.
type Service struct {
	manager *seeds.Manager
	db      store.DB
	edges   HouseEdges
	log     *slog.Logger
}

// NewService creates a bet service.
func NewService(manager *seeds.Manager, db store.DB, edges HouseEdges, log *slog.Logger) *Service {
	return &Service{manager: manager, db: db, edges: edges, log: log}
}

// PlaceBet runs one bet end to end and persists its outcome record.
func (s *Service) PlaceBet(ctx context.Context, req PlaceBetRequest) (*PlaceBetResult, error) {
	game, ok := games.Get(req.Game)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, req.Game)
	}
	if req.BetAmount.IsNegative() {
		return nil, fmt.Errorf("%w: bet amount must not be negative", ErrInvalidParams)
	}

	if _, err := s.manager.EnsureInitialPair(ctx, req.UserID, req.ClientSeed); err != nil {
		return nil, err
	}

	alloc, err := s.manager.AllocateNonce(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	result, err := game.Evaluate(games.Seeds{Server: alloc.ServerSeed, Client: alloc.ClientSeed}, alloc.Nonce, s.gameParams(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	multiplier, win, err := s.settle(req, result)
	if err != nil {
		return nil, err
	}

	winAmount := decimal.Zero
	if multiplier > 0 {
		winAmount = payout.WinAmount(req.BetAmount, multiplier)
	}

	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	outcomeJSON, err := json.Marshal(result.Details)
	if err != nil {
		return nil, fmt.Errorf("encode outcome: %w", err)
	}

	bet := store.Bet{
		UserID:      req.UserID,
		Game:        req.Game,
		SeedPairID:  alloc.PairID,
		Nonce:       alloc.Nonce,
		ParamsJSON:  string(paramsJSON),
		OutcomeJSON: string(outcomeJSON),
		Metric:      result.Metric,
		Multiplier:  multiplier,
		BetAmount:   req.BetAmount,
		WinAmount:   winAmount,
		Win:         win,
	}
	if err := s.db.SaveBet(ctx, &bet); err != nil {
		s.log.Error("save bet failed", sl.Err(err), slog.String("user_id", req.UserID))
		return nil, err
	}

	s.log.Info("bet placed",
		slog.String("bet_id", bet.ID),
		slog.String("user_id", req.UserID),
		slog.String("game", req.Game),
		slog.Uint64("nonce", alloc.Nonce),
		slog.Float64("multiplier", multiplier),
		slog.Bool("win", win),
	)

	return &PlaceBetResult{
		Bet:            bet,
		Outcome:        result.Details,
		ServerSeedHash: alloc.ServerSeedHash,
		ClientSeed:     alloc.ClientSeed,
		Nonce:          alloc.Nonce,
	}, nil
}

// gameParams injects the configured house edge where the deriver consumes
// it directly (limbo).
func (s *Service) gameParams(req PlaceBetRequest) map[string]any {
	if req.Game != "limbo" {
		return req.Params
	}

	params := make(map[string]any, len(req.Params)+1)
	for k, v := range req.Params {
		params[k] = v
	}
	params["houseEdge"] = s.edges.Limbo
	return params
}

// settle maps a raw outcome to the paid multiplier and win flag.
func (s *Service) settle(req PlaceBetRequest, result games.GameResult) (float64, bool, error) {
	switch req.Game {
	case "dice":
		return s.settleDice(req, result)
	case "limbo":
		return s.settleLimbo(req, result)
	case "plinko":
		return settlePlinko(result)
	case "mines":
		return s.settleMines(req, result)
	case "blackjack":
		// Fixed settle table; the edge lives in the dealer draw rules.
		multiplier := result.Metric
		return multiplier, multiplier > 1, nil
	default:
		return 0, false, fmt.Errorf("%w: %s", ErrUnknownGame, req.Game)
	}
}

func (s *Service) settleDice(req PlaceBetRequest, result games.GameResult) (float64, bool, error) {
	target, ok, err := floatParam(req.Params, "target")
	if err != nil || !ok {
		return 0, false, fmt.Errorf("%w: dice requires a target", ErrInvalidParams)
	}
	rawCondition, _ := req.Params["condition"].(string)
	condition := payout.DiceCondition(rawCondition)

	multiplier, err := payout.DiceMultiplier(target, condition, s.edges.Dice)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	win, err := payout.DiceWin(result.Metric, target, condition)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if !win {
		return 0, false, nil
	}
	return multiplier, true, nil
}

func (s *Service) settleLimbo(req PlaceBetRequest, result games.GameResult) (float64, bool, error) {
	target, ok, err := floatParam(req.Params, "target")
	if err != nil || !ok {
		return 0, false, fmt.Errorf("%w: limbo requires a target", ErrInvalidParams)
	}
	if target < 1.01 {
		return 0, false, fmt.Errorf("%w: limbo target must be at least 1.01", ErrInvalidParams)
	}

	if result.Metric >= target {
		return target, true, nil
	}
	return 0, false, nil
}

func settlePlinko(result games.GameResult) (float64, bool, error) {
	multiplier, ok := result.Details["multiplier"].(float64)
	if !ok {
		return 0, false, fmt.Errorf("plinko outcome missing multiplier")
	}
	return multiplier, multiplier >= 1, nil
}

func (s *Service) settleMines(req PlaceBetRequest, result games.GameResult) (float64, bool, error) {
	reveals, err := intSliceParam(req.Params, "reveals")
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if len(reveals) == 0 {
		return 0, false, fmt.Errorf("%w: mines requires at least one revealed tile", ErrInvalidParams)
	}

	seen := make(map[int]bool, len(reveals))
	for _, tile := range reveals {
		if tile < 0 || tile >= games.MinesGridSize {
			return 0, false, fmt.Errorf("%w: tile %d out of range", ErrInvalidParams, tile)
		}
		if seen[tile] {
			return 0, false, fmt.Errorf("%w: tile %d revealed twice", ErrInvalidParams, tile)
		}
		seen[tile] = true
	}

	minesCount, ok := result.Details["mines_count"].(int)
	if !ok {
		return 0, false, fmt.Errorf("mines outcome missing mines_count")
	}
	positions, ok := result.Details["mine_positions"].([]int)
	if !ok {
		return 0, false, fmt.Errorf("mines outcome missing mine_positions")
	}

	// The payout formula is only consulted for clean reveal sequences;
	// validate the reveal count against it up front so contract violations
	// reject the bet instead of deriving a bogus multiplier.
	multiplier, err := payout.MinesMultiplier(minesCount, len(reveals), s.edges.Mines)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	mineSet := make(map[int]bool, len(positions))
	for _, pos := range positions {
		mineSet[pos] = true
	}

	// Tiles are tested in reveal order; touching a mine loses regardless
	// of the formula.
	for _, tile := range reveals {
		if mineSet[tile] {
			return 0, false, nil
		}
	}

	return multiplier, true, nil
}

func floatParam(params map[string]any, key string) (float64, bool, error) {
	if params == nil {
		return 0, false, nil
	}
	raw, ok := params[key]
	if !ok {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("unsupported type for %s: %T", key, raw)
	}
}

func intSliceParam(params map[string]any, key string) ([]int, error) {
	if params == nil {
		return nil, nil
	}
	raw, ok := params[key]
	if !ok {
		return nil, nil
	}

	switch v := raw.(type) {
	case []int:
		return v, nil
	case []any:
		out := make([]int, len(v))
		for i, elem := range v {
			f, ok := elem.(float64)
			if !ok {
				return nil, fmt.Errorf("%s[%d] is not a number", key, i)
			}
			out[i] = int(f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type for %s: %T", key, raw)
	}
}
