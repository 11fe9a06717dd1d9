package seeds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// Store is the durable boundary for seed pairs. Implementations must
// enforce the one-active-pair-per-user invariant with a uniqueness
// constraint and make AllocateNonce a single atomic update-and-return,
// because multiple processes may run this engine concurrently.
type Store interface {
	// ActivePair returns the user's active pair or ErrNoActivePair.
	ActivePair(ctx context.Context, userID string) (Pair, error)

	// CreatePair inserts a new active pair. Returns ErrConflict if the
	// user already has one.
	CreatePair(ctx context.Context, pair Pair) (Pair, error)

	// AllocateNonce atomically increments the active pair's nonce and
	// returns the post-increment state. Returns ErrNoActivePair if the
	// user has none.
	AllocateNonce(ctx context.Context, userID string) (Pair, error)

	// RotatePair deactivates and reveals exactly the pair identified by
	// currentID and activates its successor in one transaction, returning
	// (revealed, new). If that pair is no longer active the swap is built
	// from a stale read and must be rejected with ErrConflict, never applied
	// to whichever pair is active by then.
	RotatePair(ctx context.Context, currentID string, successor Pair) (Pair, Pair, error)
}

// conflictAttempts bounds the retry loop around guarded writes. After
// exhaustion the conflict surfaces as a transient error the caller may
// retry as a whole bet.
const conflictAttempts = 3

// Manager drives the per-user seed pair state machine:
// NO_PAIR -> ACTIVE(nonce=n) -> ... -> ROTATING -> ACTIVE(nonce=0).
type Manager struct {
	store Store
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// EnsureInitialPair idempotently creates the user's first pair. Two
// concurrent first bets may both attempt the insert; the loser detects the
// uniqueness conflict and re-reads the winner's pair.
func (m *Manager) EnsureInitialPair(ctx context.Context, userID, clientSeed string) (Pair, error) {
	pair, err := m.store.ActivePair(ctx, userID)
	if err == nil {
		return pair, nil
	}
	if !errors.Is(err, ErrNoActivePair) {
		return Pair{}, fmt.Errorf("read active pair: %w", err)
	}

	var created Pair
	backoff := retry.WithMaxRetries(conflictAttempts, retry.NewConstant(10*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := m.store.CreatePair(ctx, NewPair(userID, clientSeed))
		if err == nil {
			created = p
			return nil
		}
		if errors.Is(err, ErrConflict) {
			// Another request created the pair first; adopt it.
			winner, readErr := m.store.ActivePair(ctx, userID)
			if readErr == nil {
				created = winner
				return nil
			}
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return Pair{}, fmt.Errorf("create initial pair: %w", err)
	}
	return created, nil
}

// AllocateNonce returns the derivation triple for the user's next bet.
// The returned nonce is the post-increment value: a fresh pair's first
// bet observes nonce 1. Concurrent calls for the same user are linearized
// by the store's atomic update, never by in-process locking.
func (m *Manager) AllocateNonce(ctx context.Context, userID string) (Allocation, error) {
	pair, err := m.store.AllocateNonce(ctx, userID)
	if err != nil {
		return Allocation{}, err
	}

	return Allocation{
		PairID:         pair.ID,
		ServerSeed:     pair.ServerSeed,
		ServerSeedHash: pair.ServerSeedHash,
		ClientSeed:     pair.ClientSeed,
		Nonce:          pair.Nonce,
	}, nil
}

// Rotate deactivates the user's active pair (revealing its server seed,
// which was already committed via its hash), promotes the pre-published
// next seed to a new active pair and pre-generates the commitment after
// that, keeping the chain unbroken. Each attempt fences the swap on the
// pair it read: if a racing rotation swaps first, the store rejects the
// stale successor and this attempt re-reads instead of revealing a seed
// that is still live. Fails if no active pair exists.
func (m *Manager) Rotate(ctx context.Context, userID, newClientSeed string) (Pair, Pair, error) {
	var revealed, active Pair
	backoff := retry.WithMaxRetries(conflictAttempts, retry.NewConstant(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		current, err := m.store.ActivePair(ctx, userID)
		if err != nil {
			return err
		}

		nextServerSeed := NewServerSeed()
		successor := Pair{
			UserID:             userID,
			ServerSeed:         current.NextServerSeed,
			ServerSeedHash:     current.NextServerSeedHash,
			ClientSeed:         newClientSeed,
			NextServerSeed:     nextServerSeed,
			NextServerSeedHash: HashSeed(nextServerSeed),
			Nonce:              0,
			Active:             true,
		}
		if successor.ClientSeed == "" {
			successor.ClientSeed = current.ClientSeed
		}

		r, a, err := m.store.RotatePair(ctx, current.ID, successor)
		if err == nil {
			revealed, active = r, a
			return nil
		}
		if errors.Is(err, ErrConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return Pair{}, Pair{}, err
	}
	return revealed, active, nil
}

// SeedInfo returns the public view of the user's active pair. The live
// server seed never leaves this package unrevealed.
func (m *Manager) SeedInfo(ctx context.Context, userID string) (Pair, error) {
	pair, err := m.store.ActivePair(ctx, userID)
	if err != nil {
		return Pair{}, err
	}

	pair.ServerSeed = ""
	pair.NextServerSeed = ""
	return pair, nil
}
