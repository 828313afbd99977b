// Package domain contains the core domain types for the pricing context.
package domain

import "github.com/shopspring/decimal"

// Spread represents the relative price difference between the best sell bid
// and the best buy ask across exchanges.
type Spread struct {
	BuyAsk      decimal.Decimal `json:"buyAsk"`
	SellBid     decimal.Decimal `json:"sellBid"`
	Relative    decimal.Decimal `json:"relative"`    // (SellBid - BuyAsk) / BuyAsk
	BasisPoints decimal.Decimal `json:"basisPoints"` // Relative * 10000
}

// CalculateSpread computes the relative spread. A negative result (selling
// below the buy price) is a valid value, not an error; it simply fails any
// sensible threshold.
func CalculateSpread(buyAsk, sellBid decimal.Decimal) Spread {
	relative := decimal.Zero
	if !buyAsk.IsZero() {
		relative = sellBid.Sub(buyAsk).Div(buyAsk)
	}

	return Spread{
		BuyAsk:      buyAsk,
		SellBid:     sellBid,
		Relative:    relative,
		BasisPoints: relative.Mul(decimal.NewFromInt(10000)),
	}
}

// Meets reports whether the spread reaches the given minimum fraction.
func (s Spread) Meets(minSpread decimal.Decimal) bool {
	return s.Relative.GreaterThanOrEqual(minSpread)
}
