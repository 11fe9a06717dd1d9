// Package seeds owns the commit-reveal seed lifecycle: it is the only
// legal path to obtain a (serverSeed, clientSeed, nonce) triple for a bet
// and to rotate a user's pair.
package seeds

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Pair is the unit of fairness commitment. The server seed hash is
// published before any bet under the pair; the next pair's hash is
// published alongside it so the chain can be audited forward.
type Pair struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	ServerSeed         string     `json:"-"` // secret until revealed
	ServerSeedHash     string     `json:"server_seed_hash"`
	ClientSeed         string     `json:"client_seed"`
	NextServerSeed     string     `json:"-"`
	NextServerSeedHash string     `json:"next_server_seed_hash"`
	Nonce              uint64     `json:"nonce"`
	Active             bool       `json:"active"`
	CreatedAt          time.Time  `json:"created_at"`
	RevealedAt         *time.Time `json:"revealed_at,omitempty"`
}

// Allocation is the derivation triple handed to a bet.
type Allocation struct {
	PairID         string
	ServerSeed     string
	ServerSeedHash string
	ClientSeed     string
	Nonce          uint64
}

// Sentinel errors surfaced by the store boundary.
var (
	// ErrNoActivePair means the user has no active pair; callers either
	// initialize one or reject the request.
	ErrNoActivePair = errors.New("no active seed pair")

	// ErrConflict means a guarded write lost a race (duplicate active pair,
	// stale nonce row). The loser re-reads the winner's state.
	ErrConflict = errors.New("seed pair conflict")
)

// serverSeedBytes gives 64 hex characters, matching the published format.
const serverSeedBytes = 32

// NewServerSeed returns a fresh secret seed from the OS entropy source.
func NewServerSeed() string {
	buf := make([]byte, serverSeedBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; an error here
		// means the process cannot safely continue issuing commitments.
		panic("seeds: entropy source unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// HashSeed computes the public commitment for a server seed.
func HashSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// NewPair builds an unsaved pair with a fresh secret and pre-generated
// next-seed commitment.
func NewPair(userID, clientSeed string) Pair {
	serverSeed := NewServerSeed()
	nextServerSeed := NewServerSeed()

	return Pair{
		UserID:             userID,
		ServerSeed:         serverSeed,
		ServerSeedHash:     HashSeed(serverSeed),
		ClientSeed:         clientSeed,
		NextServerSeed:     nextServerSeed,
		NextServerSeedHash: HashSeed(nextServerSeed),
		Nonce:              0,
		Active:             true,
	}
}
