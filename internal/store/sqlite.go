package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"

	"github.com/fairlab/outcome-engine/internal/seeds"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout pins timestamp storage to RFC3339 text.
const timeLayout = time.RFC3339Nano

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for concurrent readers; busy timeout so writers queue
	// instead of failing immediately.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, multierr.Append(fmt.Errorf("set %s: %w", pragma, err), db.Close())
		}
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate applies the embedded goose migrations.
func (s *SQLiteDB) Migrate() error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// isUniqueConstraintError detects guarded-write conflicts from the driver.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ActivePair returns the user's active pair or seeds.ErrNoActivePair.
func (s *SQLiteDB) ActivePair(ctx context.Context, userID string) (seeds.Pair, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, server_seed, server_seed_hash, client_seed,
		       next_server_seed, next_server_seed_hash, nonce, active,
		       created_at, revealed_at
		FROM seed_pairs WHERE user_id = ? AND active = 1`, userID)

	pair, err := scanPair(row)
	if errors.Is(err, sql.ErrNoRows) {
		return seeds.Pair{}, seeds.ErrNoActivePair
	}
	if err != nil {
		return seeds.Pair{}, fmt.Errorf("query active pair: %w", err)
	}
	return pair, nil
}

// CreatePair inserts a new active pair. The partial unique index on
// (user_id) WHERE active=1 turns creation races into seeds.ErrConflict.
func (s *SQLiteDB) CreatePair(ctx context.Context, pair seeds.Pair) (seeds.Pair, error) {
	if pair.ID == "" {
		pair.ID = uuid.New().String()
	}
	if pair.CreatedAt.IsZero() {
		pair.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seed_pairs (
			id, user_id, server_seed, server_seed_hash, client_seed,
			next_server_seed, next_server_seed_hash, nonce, active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pair.ID, pair.UserID, pair.ServerSeed, pair.ServerSeedHash, pair.ClientSeed,
		pair.NextServerSeed, pair.NextServerSeedHash, pair.Nonce, boolToInt(pair.Active),
		pair.CreatedAt.Format(timeLayout),
	)
	if isUniqueConstraintError(err) {
		return seeds.Pair{}, seeds.ErrConflict
	}
	if err != nil {
		return seeds.Pair{}, fmt.Errorf("insert seed pair: %w", err)
	}
	return pair, nil
}

// AllocateNonce is the single serialization point for concurrent bets: one
// atomic update-and-return, no read-then-write window.
func (s *SQLiteDB) AllocateNonce(ctx context.Context, userID string) (seeds.Pair, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE seed_pairs SET nonce = nonce + 1
		WHERE user_id = ? AND active = 1
		RETURNING id, user_id, server_seed, server_seed_hash, client_seed,
		          next_server_seed, next_server_seed_hash, nonce, active,
		          created_at, revealed_at`, userID)

	pair, err := scanPair(row)
	if errors.Is(err, sql.ErrNoRows) {
		return seeds.Pair{}, seeds.ErrNoActivePair
	}
	if err != nil {
		return seeds.Pair{}, fmt.Errorf("allocate nonce: %w", err)
	}
	return pair, nil
}

// RotatePair deactivates and reveals the identified pair and inserts its
// successor in one transaction. The id fence rejects swaps built from a
// stale read: if the pair already lost its active flag to a racing
// rotation, zero rows match and the caller re-reads instead of revealing
// whichever seed is live by now.
func (s *SQLiteDB) RotatePair(ctx context.Context, currentID string, successor seeds.Pair) (seeds.Pair, seeds.Pair, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return seeds.Pair{}, seeds.Pair{}, fmt.Errorf("begin rotation: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	row := tx.QueryRowContext(ctx, `
		UPDATE seed_pairs SET active = 0, revealed_at = ?
		WHERE id = ? AND active = 1
		RETURNING id, user_id, server_seed, server_seed_hash, client_seed,
		          next_server_seed, next_server_seed_hash, nonce, active,
		          created_at, revealed_at`,
		now.Format(timeLayout), currentID)

	revealed, err := scanPair(row)
	if errors.Is(err, sql.ErrNoRows) {
		return seeds.Pair{}, seeds.Pair{}, seeds.ErrConflict
	}
	if err != nil {
		return seeds.Pair{}, seeds.Pair{}, fmt.Errorf("deactivate pair: %w", err)
	}

	if successor.ID == "" {
		successor.ID = uuid.New().String()
	}
	successor.CreatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO seed_pairs (
			id, user_id, server_seed, server_seed_hash, client_seed,
			next_server_seed, next_server_seed_hash, nonce, active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		successor.ID, successor.UserID, successor.ServerSeed, successor.ServerSeedHash,
		successor.ClientSeed, successor.NextServerSeed, successor.NextServerSeedHash,
		successor.Nonce, successor.CreatedAt.Format(timeLayout),
	)
	if isUniqueConstraintError(err) {
		return seeds.Pair{}, seeds.Pair{}, seeds.ErrConflict
	}
	if err != nil {
		return seeds.Pair{}, seeds.Pair{}, fmt.Errorf("insert successor pair: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return seeds.Pair{}, seeds.Pair{}, fmt.Errorf("commit rotation: %w", err)
	}

	successor.Active = true
	return revealed, successor, nil
}

// SaveBet persists a bet outcome record.
func (s *SQLiteDB) SaveBet(ctx context.Context, bet *Bet) error {
	if bet.ID == "" {
		bet.ID = uuid.New().String()
	}
	if bet.CreatedAt.IsZero() {
		bet.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bets (
			id, user_id, game, seed_pair_id, nonce, params_json, outcome_json,
			metric, multiplier, bet_amount, win_amount, win, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bet.ID, bet.UserID, bet.Game, bet.SeedPairID, bet.Nonce,
		bet.ParamsJSON, bet.OutcomeJSON, bet.Metric, bet.Multiplier,
		bet.BetAmount.String(), bet.WinAmount.String(), boolToInt(bet.Win),
		bet.CreatedAt.Format(timeLayout),
	)
	if isUniqueConstraintError(err) {
		// A duplicate (seed_pair_id, nonce) means two bets derived from the
		// same triple, which the atomic allocator is supposed to prevent.
		return seeds.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

// GetBet loads one bet by ID.
func (s *SQLiteDB) GetBet(ctx context.Context, id string) (*Bet, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, game, seed_pair_id, nonce, params_json, outcome_json,
		       metric, multiplier, bet_amount, win_amount, win, created_at
		FROM bets WHERE id = ?`, id)

	bet, err := scanBet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query bet: %w", err)
	}
	return bet, nil
}

// ListBets returns the user's most recent bets.
func (s *SQLiteDB) ListBets(ctx context.Context, userID string, limit int) ([]Bet, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, game, seed_pair_id, nonce, params_json, outcome_json,
		       metric, multiplier, bet_amount, win_amount, win, created_at
		FROM bets WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	var bets []Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}
		bets = append(bets, *bet)
	}
	return bets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPair(row rowScanner) (seeds.Pair, error) {
	var (
		pair       seeds.Pair
		active     int
		createdAt  string
		revealedAt sql.NullString
	)

	err := row.Scan(
		&pair.ID, &pair.UserID, &pair.ServerSeed, &pair.ServerSeedHash,
		&pair.ClientSeed, &pair.NextServerSeed, &pair.NextServerSeedHash,
		&pair.Nonce, &active, &createdAt, &revealedAt,
	)
	if err != nil {
		return seeds.Pair{}, err
	}

	pair.Active = active != 0
	if pair.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return seeds.Pair{}, fmt.Errorf("parse created_at: %w", err)
	}
	if revealedAt.Valid {
		t, err := time.Parse(timeLayout, revealedAt.String)
		if err != nil {
			return seeds.Pair{}, fmt.Errorf("parse revealed_at: %w", err)
		}
		pair.RevealedAt = &t
	}
	return pair, nil
}

func scanBet(row rowScanner) (*Bet, error) {
	var (
		bet       Bet
		betAmount string
		winAmount string
		win       int
		createdAt string
	)

	err := row.Scan(
		&bet.ID, &bet.UserID, &bet.Game, &bet.SeedPairID, &bet.Nonce,
		&bet.ParamsJSON, &bet.OutcomeJSON, &bet.Metric, &bet.Multiplier,
		&betAmount, &winAmount, &win, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if bet.BetAmount, err = decimal.NewFromString(betAmount); err != nil {
		return nil, fmt.Errorf("parse bet_amount: %w", err)
	}
	if bet.WinAmount, err = decimal.NewFromString(winAmount); err != nil {
		return nil, fmt.Errorf("parse win_amount: %w", err)
	}
	bet.Win = win != 0
	if bet.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &bet, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
