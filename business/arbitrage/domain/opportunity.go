// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pricing "github.com/avescod/crossarb/business/pricing/domain"
)

// Opportunity is a cross-exchange price discrepancy that clears the
// configured spread threshold: buy on the exchange with the lowest ask, sell
// on the exchange with the highest bid. Detection never acts on it; execution
// is triggered manually.
type Opportunity struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Pair      pricing.Pair    `json:"pair"`
	BestBuy   pricing.Quote   `json:"bestBuy"`
	BestSell  pricing.Quote   `json:"bestSell"`
	Spread    pricing.Spread  `json:"spread"`
	Notional  decimal.Decimal `json:"notional"`
}

// NewOpportunity stamps an opportunity from a snapshot's best quotes.
func NewOpportunity(pair pricing.Pair, bestBuy, bestSell pricing.Quote, spread pricing.Spread, notional decimal.Decimal) Opportunity {
	return Opportunity{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Pair:      pair,
		BestBuy:   bestBuy,
		BestSell:  bestSell,
		Spread:    spread,
		Notional:  notional,
	}
}

// ExecutionResult reports the outcome of one buy-and-withdraw attempt.
// OK means the buy order was placed and the withdrawal was initiated; the
// deposit on the sell exchange settles out-of-band and is not tracked.
type ExecutionResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Err    string `json:"error,omitempty"`
	Note   string `json:"note,omitempty"`
}

// Failure reasons reported by the execution orchestrator. These are stable
// strings consumed by the dashboard and logs.
const (
	ReasonSpreadTooLow         = "spread too low"
	ReasonNoOrderAPI           = "buy exchange cannot create orders via API"
	ReasonOrderFailed          = "order failed"
	ReasonNoDestinationAddr    = "no destination address"
	ReasonWithdrawNotSupported = "withdraw not supported"
	ReasonWithdrawFailed       = "withdraw failed"
)

// Failed builds a failure result. err may be nil for precondition failures.
func Failed(reason string, err error) ExecutionResult {
	res := ExecutionResult{OK: false, Reason: reason}
	if err != nil {
		res.Err = err.Error()
	}
	return res
}

// Succeeded builds a success result carrying the awaiting-deposit note.
func Succeeded(note string) ExecutionResult {
	return ExecutionResult{OK: true, Note: note}
}
