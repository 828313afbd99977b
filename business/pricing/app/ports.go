// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"
	"errors"

	"github.com/avescod/crossarb/business/pricing/domain"
	"github.com/shopspring/decimal"
)

// ErrPairUnavailable signals that an exchange does not list the requested
// pair or currently has no book for it. This is expected absence, not a
// fault: callers skip the exchange and move on.
var ErrPairUnavailable = errors.New("pair unavailable on exchange")

// OrderAck acknowledges a placed market order.
type OrderAck struct {
	Exchange   string          `json:"exchange"`
	OrderID    string          `json:"orderId"`
	Pair       domain.Pair     `json:"pair"`
	BaseAmount decimal.Decimal `json:"baseAmount"`
}

// WithdrawalAck acknowledges an initiated withdrawal. The transfer itself
// settles out-of-band; the ack only confirms the exchange accepted the request.
type WithdrawalAck struct {
	Exchange string          `json:"exchange"`
	TxID     string          `json:"txId"`
	Asset    string          `json:"asset"`
	Amount   decimal.Decimal `json:"amount"`
	Address  string          `json:"address"`
}

// Adapter is the per-exchange integration consumed by the aggregator and the
// execution orchestrator. Capability queries are preconditions: callers must
// check HasOrderCapability / HasWithdrawCapability before invoking the
// corresponding operation. Implementations must be safe for concurrent use;
// the scan loop and manual executions share adapter instances.
type Adapter interface {
	// Name returns the exchange identifier (lowercase, e.g. "binance").
	Name() string

	// GetQuote returns the current best bid/ask for the pair, or
	// ErrPairUnavailable when the exchange does not list it.
	GetQuote(ctx context.Context, pair domain.Pair) (domain.Quote, error)

	// HasOrderCapability reports whether the adapter can place orders.
	HasOrderCapability() bool

	// PlaceMarketBuy places a market buy for baseAmount of the pair's base asset.
	PlaceMarketBuy(ctx context.Context, pair domain.Pair, baseAmount decimal.Decimal) (OrderAck, error)

	// HasWithdrawCapability reports whether the adapter can initiate withdrawals.
	HasWithdrawCapability() bool

	// Withdraw requests a transfer of amount of asset to the given address.
	Withdraw(ctx context.Context, asset string, amount decimal.Decimal, address string) (WithdrawalAck, error)
}
