package games

import (
	"fmt"
	"math"
	"sort"

	"github.com/fairlab/outcome-engine/internal/engine"
)

// MinesGridSize is the number of tiles on the 5x5 board.
const MinesGridSize = 25

const (
	minesDefaultCount = 3
	minesMinCount     = 1
	minesMaxCount     = 24
)

// MinesGame implements the Mines game: a deterministic partial shuffle
// places N mines on a 25-tile grid.
type MinesGame struct{}

// Spec returns metadata about the Mines game.
func (g *MinesGame) Spec() GameSpec {
	return GameSpec{
		ID:          "mines",
		Name:        "Mines",
		Tag:         "MINES",
		MetricLabel: "first_mine",
	}
}

// FloatCount returns the number of floats required (one per mine).
func (g *MinesGame) FloatCount(params map[string]any) int {
	count, _, err := intParam(params, "minesCount")
	if err != nil || count == 0 {
		return minesDefaultCount
	}
	return count
}

// Evaluate draws the mine positions. Each cursor removes one position from
// the shrinking candidate pool, a Fisher-Yates style partial shuffle that
// guarantees distinct positions and makes every combination reachable. The
// returned positions are sorted ascending for stable storage; the draw
// order itself is what feeds the hash inputs and is reported separately.
func (g *MinesGame) Evaluate(seeds Seeds, nonce uint64, params map[string]any) (GameResult, error) {
	minesCount := minesDefaultCount
	if v, ok, err := intParam(params, "minesCount"); err != nil {
		return GameResult{}, err
	} else if ok {
		minesCount = v
	}

	if minesCount < minesMinCount || minesCount > minesMaxCount {
		return GameResult{}, fmt.Errorf("mines count must be between %d and %d, got %d", minesMinCount, minesMaxCount, minesCount)
	}

	positions, drawOrder := MinePositions(seeds, nonce, minesCount)

	return GameResult{
		Metric:      float64(positions[0]),
		MetricLabel: "first_mine",
		Details: map[string]any{
			"mines_count":    minesCount,
			"mine_positions": positions,
			"draw_order":     drawOrder,
		},
	}, nil
}

// MinePositions returns the sorted mine positions and the raw draw order
// for (seeds, nonce, minesCount).
func MinePositions(seeds Seeds, nonce uint64, minesCount int) (sorted, drawOrder []int) {
	pool := make([]int, MinesGridSize)
	for i := range pool {
		pool[i] = i
	}

	bg := engine.NewByteGenerator(seeds.Server, seeds.Client, nonce, "MINES", 0)

	drawOrder = make([]int, 0, minesCount)
	for cursor := 0; cursor < minesCount; cursor++ {
		f := bg.NextFloat()
		index := int(math.Floor(f * float64(len(pool))))

		drawOrder = append(drawOrder, pool[index])
		pool = append(pool[:index], pool[index+1:]...)
	}

	sorted = make([]int, minesCount)
	copy(sorted, drawOrder)
	sort.Ints(sorted)
	return sorted, drawOrder
}
