// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"

	"github.com/avescod/crossarb/business/arbitrage/domain"
	"github.com/avescod/crossarb/pkg/ui"
)

// TUINotifier forwards events to the Bubble Tea dashboard as messages.
type TUINotifier struct{}

// NewTUINotifier creates a TUINotifier. The TUI program itself is started by
// main; this sink only sends messages to it.
func NewTUINotifier() *TUINotifier {
	return &TUINotifier{}
}

// Start is a no-op; the program lifecycle belongs to main.
func (n *TUINotifier) Start(ctx context.Context) error {
	return nil
}

// Exchanges forwards the exchange list.
func (n *TUINotifier) Exchanges(ev domain.ExchangesEvent) {
	ui.Send(ui.ExchangesMsg{Exchanges: ev.Exchanges})
}

// Ticker forwards a per-pair scan result.
func (n *TUINotifier) Ticker(ev domain.TickerEvent) {
	ui.Send(ui.TickerMsg{
		Pair:      ev.Pair.String(),
		BuyVenue:  ev.BestBuy.Exchange,
		BuyAsk:    ev.BestBuy.Ask,
		SellVenue: ev.BestSell.Exchange,
		SellBid:   ev.BestSell.Bid,
		SpreadBps: ev.Spread.BasisPoints,
	})
}

// Opportunity forwards a detected opportunity.
func (n *TUINotifier) Opportunity(opp domain.Opportunity) {
	ui.Send(ui.OpportunityMsg{
		ID:        opp.ID,
		Timestamp: opp.Timestamp,
		Pair:      opp.Pair.String(),
		BuyVenue:  opp.BestBuy.Exchange,
		SellVenue: opp.BestSell.Exchange,
		SpreadBps: opp.Spread.BasisPoints,
	})
}

// Log forwards a progress line.
func (n *TUINotifier) Log(ev domain.LogEvent) {
	ui.Send(ui.LogMsg{Level: ev.Level, Message: ev.Message})
}

// ExecutionResult forwards the outcome of a manual execution.
func (n *TUINotifier) ExecutionResult(oppID string, res domain.ExecutionResult) {
	ui.Send(ui.ExecResultMsg{
		OpportunityID: oppID,
		OK:            res.OK,
		Reason:        res.Reason,
		Note:          res.Note,
	})
}

// Stop is a no-op; quitting the program belongs to main.
func (n *TUINotifier) Stop() error {
	return nil
}
