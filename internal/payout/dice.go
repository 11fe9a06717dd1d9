package payout

import "fmt"

// DiceCondition says which side of the target wins.
type DiceCondition string

const (
	DiceOver  DiceCondition = "over"
	DiceUnder DiceCondition = "under"
)

// diceTargetMin/Max keep the win chance strictly positive on both sides.
const (
	diceTargetMin = 0.01
	diceTargetMax = 99.99
)

// DiceMultiplier returns the payout multiplier for a target roll with the
// house edge percent applied: (100 - edge) / winChance.
func DiceMultiplier(target float64, condition DiceCondition, houseEdgePercent float64) (float64, error) {
	chance, err := diceWinChance(target, condition)
	if err != nil {
		return 0, err
	}
	return (100 - houseEdgePercent) / chance, nil
}

// DiceWin reports whether a roll beats the target under the condition.
func DiceWin(roll, target float64, condition DiceCondition) (bool, error) {
	switch condition {
	case DiceOver:
		return roll > target, nil
	case DiceUnder:
		return roll < target, nil
	default:
		return false, fmt.Errorf("invalid dice condition: %s", condition)
	}
}

// diceWinChance returns the win probability as a percentage.
func diceWinChance(target float64, condition DiceCondition) (float64, error) {
	if target < diceTargetMin || target > diceTargetMax {
		return 0, fmt.Errorf("dice target must be between %.2f and %.2f, got %.2f", diceTargetMin, diceTargetMax, target)
	}

	switch condition {
	case DiceOver:
		return 100 - target, nil
	case DiceUnder:
		return target, nil
	default:
		return 0, fmt.Errorf("invalid dice condition: %s", condition)
	}
}
