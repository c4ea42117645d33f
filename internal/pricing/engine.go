// Package pricing computes booking quotes. The engine is pure: no I/O,
// no side effects, and it never fails on bad input.
package pricing

import (
	"math"

	"gigbook/internal/entities"
)

const perGuestBaseRate = 200

type tierParams struct {
	base            float64
	guestMultiplier float64
	depositRate     float64
}

var tiers = map[entities.Tier]tierParams{
	entities.TierBasic:   {base: 20000, guestMultiplier: 1.0, depositRate: 0.3},
	entities.TierPremium: {base: 45000, guestMultiplier: 1.2, depositRate: 0.3},
	entities.TierLuxe:    {base: 100000, guestMultiplier: 1.5, depositRate: 0.4},
}

type LineItem struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type Breakdown struct {
	TotalAmount   int64      `json:"total_amount"`
	DepositAmount int64      `json:"deposit_amount"`
	LineItems     []LineItem `json:"line_items"`
}

// Quote returns the price breakdown for a tier and guest count.
// An unknown or empty tier yields a defined zero breakdown; a negative
// guest count is clamped to zero. Amounts round half away from zero so
// repeated quotes for the same inputs are identical.
func Quote(tier entities.Tier, guestCount int) Breakdown {
	params, ok := tiers[tier]
	if !ok {
		return Breakdown{}
	}

	if guestCount < 0 {
		guestCount = 0
	}

	perGuest := perGuestBaseRate * params.guestMultiplier
	guestAmount := int64(math.Round(float64(guestCount) * perGuest))
	total := int64(math.Round(params.base)) + guestAmount
	deposit := int64(math.Round(float64(total) * params.depositRate))

	return Breakdown{
		TotalAmount:   total,
		DepositAmount: deposit,
		LineItems: []LineItem{
			{Label: string(tier) + " package", Amount: int64(params.base)},
			{Label: "guests", Amount: guestAmount},
		},
	}
}
