package bets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fairlab/outcome-engine/internal/payout"
	"github.com/fairlab/outcome-engine/internal/seeds"
	"github.com/fairlab/outcome-engine/internal/store"
	"github.com/fairlab/outcome-engine/internal/verify"
)

func newTestService(t *testing.T) (*Service, store.DB) {
	t.Helper()

	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	edges := HouseEdges{Dice: 1.0, Limbo: 1.0, Mines: 1.0}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(seeds.NewManager(db), db, edges, log), db
}

func TestPlaceBetDice(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	result, err := svc.PlaceBet(ctx, PlaceBetRequest{
		UserID:     "user-1",
		Game:       "dice",
		ClientSeed: "my-client-seed",
		BetAmount:  decimal.NewFromInt(10),
		Params:     map[string]any{"target": 50.0, "condition": "over"},
	})
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	// The first bet under a fresh pair observes nonce 1.
	if result.Nonce != 1 {
		t.Errorf("nonce = %d, want 1", result.Nonce)
	}
	if result.ClientSeed != "my-client-seed" {
		t.Errorf("client seed = %s, want my-client-seed", result.ClientSeed)
	}
	if len(result.ServerSeedHash) != 64 {
		t.Errorf("server seed hash length = %d, want 64", len(result.ServerSeedHash))
	}

	bet := result.Bet
	if bet.ID == "" {
		t.Fatal("bet not persisted with an ID")
	}
	if bet.Win {
		if math.Abs(bet.Multiplier-1.98) > 1e-9 {
			t.Errorf("win multiplier = %v, want 1.98", bet.Multiplier)
		}
		if !bet.WinAmount.Equal(payout.WinAmount(bet.BetAmount, 1.98)) {
			t.Errorf("win amount = %s inconsistent with multiplier", bet.WinAmount)
		}
	} else {
		if bet.Multiplier != 0 || !bet.WinAmount.IsZero() {
			t.Errorf("losing bet paid out: multiplier %v, win %s", bet.Multiplier, bet.WinAmount)
		}
	}

	stored, err := db.GetBet(ctx, bet.ID)
	if err != nil {
		t.Fatalf("load stored bet: %v", err)
	}
	if stored.Nonce != 1 || stored.Game != "dice" {
		t.Errorf("stored bet mismatch: %+v", stored)
	}
}

func TestPlaceBetNonceSequence(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for want := uint64(1); want <= 5; want++ {
		result, err := svc.PlaceBet(ctx, PlaceBetRequest{
			UserID:    "user-1",
			Game:      "dice",
			BetAmount: decimal.NewFromInt(1),
			Params:    map[string]any{"target": 50.0, "condition": "under"},
		})
		if err != nil {
			t.Fatalf("bet %d: %v", want, err)
		}
		if result.Nonce != want {
			t.Fatalf("nonce = %d, want %d", result.Nonce, want)
		}
	}
}

func TestPlaceBetRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  PlaceBetRequest
		want error
	}{
		{
			"unknown game",
			PlaceBetRequest{UserID: "u", Game: "roulette", BetAmount: decimal.NewFromInt(1)},
			ErrUnknownGame,
		},
		{
			"negative amount",
			PlaceBetRequest{UserID: "u", Game: "dice", BetAmount: decimal.NewFromInt(-1)},
			ErrInvalidParams,
		},
		{
			"dice without target",
			PlaceBetRequest{UserID: "u", Game: "dice", BetAmount: decimal.NewFromInt(1)},
			ErrInvalidParams,
		},
		{
			"limbo target below minimum",
			PlaceBetRequest{UserID: "u", Game: "limbo", BetAmount: decimal.NewFromInt(1), Params: map[string]any{"target": 1.0}},
			ErrInvalidParams,
		},
		{
			"mines duplicate reveal",
			PlaceBetRequest{UserID: "u", Game: "mines", BetAmount: decimal.NewFromInt(1), Params: map[string]any{"minesCount": 3, "reveals": []int{4, 4}}},
			ErrInvalidParams,
		},
		{
			"mines without reveals",
			PlaceBetRequest{UserID: "u", Game: "mines", BetAmount: decimal.NewFromInt(1), Params: map[string]any{"minesCount": 3}},
			ErrInvalidParams,
		},
		{
			"plinko bad rows",
			PlaceBetRequest{UserID: "u", Game: "plinko", BetAmount: decimal.NewFromInt(1), Params: map[string]any{"rows": 40}},
			ErrInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.PlaceBet(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlaceBetLimbo(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.PlaceBet(ctx, PlaceBetRequest{
		UserID:    "user-1",
		Game:      "limbo",
		BetAmount: decimal.NewFromInt(5),
		Params:    map[string]any{"target": 2.0},
	})
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	crash := result.Bet.Metric
	if crash < 1.0 {
		t.Errorf("crash point %v below 1.0", crash)
	}
	if result.Bet.Win {
		if crash < 2.0 {
			t.Errorf("won with crash point %v below target", crash)
		}
		if result.Bet.Multiplier != 2.0 {
			t.Errorf("win multiplier = %v, want the target 2.0", result.Bet.Multiplier)
		}
	} else if crash >= 2.0 {
		t.Errorf("lost with crash point %v above target", crash)
	}
}

func TestPlaceBetMines(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reveals := []int{0, 1, 2}
	result, err := svc.PlaceBet(ctx, PlaceBetRequest{
		UserID:    "user-1",
		Game:      "mines",
		BetAmount: decimal.NewFromInt(10),
		Params:    map[string]any{"minesCount": 3, "reveals": reveals},
	})
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	positions, ok := result.Outcome["mine_positions"].([]int)
	if !ok {
		t.Fatal("outcome missing mine positions")
	}
	mineSet := make(map[int]bool)
	for _, pos := range positions {
		mineSet[pos] = true
	}

	hit := false
	for _, tile := range reveals {
		if mineSet[tile] {
			hit = true
			break
		}
	}

	if hit {
		if result.Bet.Win || result.Bet.Multiplier != 0 {
			t.Errorf("mine hit but bet won: %+v", result.Bet)
		}
	} else {
		want, err := payout.MinesMultiplier(3, len(reveals), 1.0)
		if err != nil {
			t.Fatalf("reference multiplier: %v", err)
		}
		if !result.Bet.Win || math.Abs(result.Bet.Multiplier-want) > 1e-9 {
			t.Errorf("clean reveals paid %v, want %v", result.Bet.Multiplier, want)
		}
	}
}

func TestPlaceBetBlackjack(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.PlaceBet(ctx, PlaceBetRequest{
		UserID:    "user-1",
		Game:      "blackjack",
		BetAmount: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	switch result.Bet.Multiplier {
	case 0, 1.0, 2.0, 2.5:
	default:
		t.Errorf("multiplier %v outside the settle table", result.Bet.Multiplier)
	}
	if result.Bet.Win != (result.Bet.Multiplier > 1) {
		t.Errorf("win flag %v inconsistent with multiplier %v", result.Bet.Win, result.Bet.Multiplier)
	}
}

func TestPlacedBetVerifiesAfterRotation(t *testing.T) {
	// End to end: place a bet, rotate to reveal the seed, then audit the
	// outcome from public material only.
	svc, db := newTestService(t)
	ctx := context.Background()
	manager := seeds.NewManager(db)

	result, err := svc.PlaceBet(ctx, PlaceBetRequest{
		UserID:     "user-1",
		Game:       "dice",
		ClientSeed: "audited-client-seed",
		BetAmount:  decimal.NewFromInt(10),
		Params:     map[string]any{"target": 42.0, "condition": "over"},
	})
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	revealed, _, err := manager.Rotate(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}

	verdict, err := verify.Verify(verify.Request{
		ServerSeed:     revealed.ServerSeed,
		ServerSeedHash: result.ServerSeedHash,
		ClientSeed:     result.ClientSeed,
		Nonce:          result.Nonce,
		Game:           "dice",
		ClaimedOutcome: result.Bet.Metric,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verdict.HashValid {
		t.Error("revealed seed does not match the pre-bet commitment")
	}
	if !verdict.IsValid {
		t.Errorf("recorded outcome %v does not reproduce (got %v)", result.Bet.Metric, verdict.RecomputedOutcome)
	}
}
