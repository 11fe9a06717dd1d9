package engine

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
)

// DigestSize is the number of raw bytes produced per derivation.
const DigestSize = sha512.Size

// floatByteCount is how many digest bytes feed one normalized float.
const floatByteCount = 4

// Dividers for the base-256 positional fraction. These are part of the
// observable verification contract and must not change.
var floatDividers = [floatByteCount]float64{256, 65536, 16777216, 4294967296}

// Derive computes the deterministic byte stream for one cursor position.
// The digest is HMAC-SHA512 keyed by the server seed over
// "{client}:{nonce}:{gameTag}" at cursor zero and "{client}:{nonce}:{cursor}"
// for every later draw, so each cursor yields an independent 64-byte block.
func Derive(serverSeed, clientSeed string, nonce uint64, gameTag string, cursor uint64) [DigestSize]byte {
	h := hmac.New(sha512.New, []byte(serverSeed))
	if cursor == 0 {
		fmt.Fprintf(h, "%s:%d:%s", clientSeed, nonce, gameTag)
	} else {
		fmt.Fprintf(h, "%s:%d:%d", clientSeed, nonce, cursor)
	}

	var out [DigestSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// NormalizeFloat maps 4 raw bytes onto [0, 1). Each term is strictly less
// than its divider and the finite series is bounded below 1, so the range
// guarantee is structural; no clamping is applied.
func NormalizeFloat(bytes [floatByteCount]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		result += float64(b) / floatDividers[i]
	}
	return result
}

// ByteGenerator walks the cursor sequence for one (seeds, nonce, game)
// tuple, yielding one normalized float per cursor.
type ByteGenerator struct {
	serverSeed string
	clientSeed string
	nonce      uint64
	gameTag    string
	cursor     uint64
}

// NewByteGenerator creates a generator positioned at the given cursor.
func NewByteGenerator(serverSeed, clientSeed string, nonce uint64, gameTag string, cursor uint64) *ByteGenerator {
	return &ByteGenerator{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
		nonce:      nonce,
		gameTag:    gameTag,
		cursor:     cursor,
	}
}

// NextFloat derives the digest for the current cursor, normalizes its first
// 4 bytes and advances the cursor.
func (bg *ByteGenerator) NextFloat() float64 {
	digest := Derive(bg.serverSeed, bg.clientSeed, bg.nonce, bg.gameTag, bg.cursor)
	bg.cursor++
	return NormalizeFloat([floatByteCount]byte{digest[0], digest[1], digest[2], digest[3]})
}

// Floats generates count floats starting at cursor zero.
func Floats(serverSeed, clientSeed string, nonce uint64, gameTag string, count int) []float64 {
	bg := NewByteGenerator(serverSeed, clientSeed, nonce, gameTag, 0)
	floats := make([]float64, count)

	for i := 0; i < count; i++ {
		floats[i] = bg.NextFloat()
	}

	return floats
}

// FloatsInto fills the provided slice with floats, avoiding allocation on
// hot paths that reuse a buffer.
func FloatsInto(dst []float64, serverSeed, clientSeed string, nonce uint64, gameTag string, count int) []float64 {
	if len(dst) < count {
		dst = make([]float64, count)
	}

	bg := NewByteGenerator(serverSeed, clientSeed, nonce, gameTag, 0)

	for i := 0; i < count; i++ {
		dst[i] = bg.NextFloat()
	}

	return dst[:count]
}
