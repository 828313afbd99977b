// Package domain contains the core domain types for the pricing context.
package domain

import (
	"github.com/shopspring/decimal"
)

// Quote is one exchange's current best bid and ask for a pair. Quotes are
// produced fresh every scan cycle and are only meaningful within the cycle
// that fetched them.
type Quote struct {
	Exchange string          `json:"exchange"`
	Bid      decimal.Decimal `json:"bid"`
	Ask      decimal.Decimal `json:"ask"`
}

// Valid reports whether both sides are present and positive. Quotes that
// fail this check are discarded, not treated as errors: a zero side usually
// means the exchange has no book for the pair.
func (q Quote) Valid() bool {
	return q.Bid.IsPositive() && q.Ask.IsPositive()
}

// PairSnapshot is the cross-exchange view of one pair for one cycle:
// the cheapest place to buy, the dearest place to sell, and every valid
// quote that was considered, in adapter order.
type PairSnapshot struct {
	Pair     Pair    `json:"pair"`
	BestBuy  Quote   `json:"bestBuy"`  // minimum ask
	BestSell Quote   `json:"bestSell"` // maximum bid
	Quotes   []Quote `json:"quotes"`
}

// CrossExchange reports whether best buy and best sell sit on different
// exchanges. When they don't, no arbitrage exists regardless of spread.
func (s *PairSnapshot) CrossExchange() bool {
	return s.BestBuy.Exchange != s.BestSell.Exchange
}

// Spread returns the relative spread between the snapshot's best sell bid
// and best buy ask.
func (s *PairSnapshot) Spread() Spread {
	return CalculateSpread(s.BestBuy.Ask, s.BestSell.Bid)
}
