package payout

import (
	"fmt"

	"github.com/fairlab/outcome-engine/internal/games"
)

// MinesMultiplier returns the payout for revealing revealedCount safe tiles
// in sequence with minesCount mines on the board. The running product is
// the reciprocal of the hypergeometric probability of that reveal sequence,
// scaled by (1 - edge/100).
//
// revealedCount beyond the number of safe tiles is a caller contract
// violation and is rejected, never clamped.
func MinesMultiplier(minesCount, revealedCount int, houseEdgePercent float64) (float64, error) {
	if minesCount < 1 || minesCount > games.MinesGridSize-1 {
		return 0, fmt.Errorf("mines count must be between 1 and %d, got %d", games.MinesGridSize-1, minesCount)
	}
	if revealedCount < 0 {
		return 0, fmt.Errorf("revealed count must not be negative, got %d", revealedCount)
	}

	safeTiles := games.MinesGridSize - minesCount
	if revealedCount > safeTiles {
		return 0, fmt.Errorf("revealed count %d exceeds %d safe tiles", revealedCount, safeTiles)
	}

	product := 1.0
	for i := 0; i < revealedCount; i++ {
		product *= float64(games.MinesGridSize-i) / float64(safeTiles-i)
	}

	return product * (1 - houseEdgePercent/100), nil
}
