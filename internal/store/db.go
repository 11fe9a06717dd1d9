package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairlab/outcome-engine/internal/seeds"
)

// ErrBetNotFound means no bet record exists with the requested ID.
var ErrBetNotFound = errors.New("bet not found")

// Bet is the persisted outcome record emitted for every placed bet. The
// engine produces it; durability and money movement stay with external
// collaborators.
type Bet struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Game        string          `json:"game"`
	SeedPairID  string          `json:"seed_pair_id"`
	Nonce       uint64          `json:"nonce"`
	ParamsJSON  string          `json:"params_json"`
	OutcomeJSON string          `json:"outcome_json"`
	Metric      float64         `json:"metric"`
	Multiplier  float64         `json:"multiplier"`
	BetAmount   decimal.Decimal `json:"bet_amount"`
	WinAmount   decimal.Decimal `json:"win_amount"`
	Win         bool            `json:"win"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DB is the storage surface the engine needs: the seed-pair lifecycle
// operations plus the bet audit trail.
type DB interface {
	seeds.Store

	Close() error
	Migrate() error
	SaveBet(ctx context.Context, bet *Bet) error
	GetBet(ctx context.Context, id string) (*Bet, error)
	ListBets(ctx context.Context, userID string, limit int) ([]Bet, error)
}
