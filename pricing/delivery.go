// Package pricing computes delivery fees and order totals.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Delivery tiers.
const (
	Standard = "standard"
	Express  = "express"
	SameDay  = "sameDay"
	Pickup   = "pickup"
)

var ErrUnknownTier = errors.New("unknown delivery option")

// Tier is one row of the delivery table.
type Tier struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Fee   decimal.Decimal `json:"fee"`
	// Waivable tiers become free once the subtotal reaches the threshold.
	Waivable bool `json:"waivable"`
}

// Rules is the delivery fee table plus the free-delivery threshold.
type Rules struct {
	Tiers            []Tier          `json:"options"`
	FreeDeliveryFrom decimal.Decimal `json:"freeDeliveryFrom"`
}

// DefaultRules returns the standard table with the given threshold.
func DefaultRules(freeFrom float64) Rules {
	return Rules{
		Tiers: []Tier{
			{ID: Standard, Label: "Standard delivery", Fee: decimal.NewFromInt(350), Waivable: true},
			{ID: Express, Label: "Express delivery", Fee: decimal.NewFromInt(400), Waivable: true},
			{ID: SameDay, Label: "Same-day delivery", Fee: decimal.NewFromInt(450), Waivable: true},
			{ID: Pickup, Label: "Pickup", Fee: decimal.Zero},
		},
		FreeDeliveryFrom: decimal.NewFromFloat(freeFrom),
	}
}

// Tier looks up a delivery option by id.
func (r Rules) Tier(id string) (Tier, error) {
	for _, t := range r.Tiers {
		if t.ID == id {
			return t, nil
		}
	}
	return Tier{}, ErrUnknownTier
}

// Fee returns the delivery fee for a subtotal and tier.
// An empty tier id is priced as standard.
func (r Rules) Fee(subtotal decimal.Decimal, tierID string) (decimal.Decimal, error) {
	if tierID == "" {
		tierID = Standard
	}
	t, err := r.Tier(tierID)
	if err != nil {
		return decimal.Zero, err
	}
	if t.Waivable && subtotal.GreaterThanOrEqual(r.FreeDeliveryFrom) {
		return decimal.Zero, nil
	}
	return t.Fee, nil
}

// Line is anything that has a unit price and a quantity.
type Line struct {
	Price float64
	Qty   int
}

// Subtotal sums price*qty over lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return sum
}

// MinorUnits converts an amount to the gateway's integer minor units (cents).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// MinorUnitsFloat is MinorUnits for float amounts coming off the wire.
func MinorUnitsFloat(amount float64) int64 {
	return MinorUnits(decimal.NewFromFloat(amount))
}
