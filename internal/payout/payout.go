// Package payout turns raw game outcomes into multipliers and win amounts
// with the configured house edge applied. Everything here is pure math;
// money movement belongs to the wallet collaborator.
package payout

import (
	"github.com/shopspring/decimal"
)

// winAmountPlaces is the fixed precision of win amounts.
const winAmountPlaces = 8

// WinAmount computes betAmount * multiplier truncated (rounded toward
// zero) at 8 decimal places, so a rounding artifact can never overpay.
func WinAmount(betAmount decimal.Decimal, multiplier float64) decimal.Decimal {
	return betAmount.Mul(decimal.NewFromFloat(multiplier)).Truncate(winAmountPlaces)
}
