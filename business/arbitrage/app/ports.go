// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"

	"github.com/avescod/crossarb/business/arbitrage/domain"
)

// Notifier receives scan and execution events. Implementations render them
// somewhere useful: the console, the TUI, or the dashboard stream. Methods
// other than Start and Stop must not block; the detector calls them from its
// scan loop.
type Notifier interface {
	// Start initializes the sink.
	Start(ctx context.Context) error

	// Exchanges announces the configured exchanges, once on startup.
	Exchanges(ev domain.ExchangesEvent)

	// Ticker reports the per-pair scan result for the current cycle.
	Ticker(ev domain.TickerEvent)

	// Opportunity reports a detected arbitrage opportunity.
	Opportunity(opp domain.Opportunity)

	// Log reports a progress line, mostly from execution steps.
	Log(ev domain.LogEvent)

	// ExecutionResult reports the outcome of a manual execution.
	ExecutionResult(oppID string, res domain.ExecutionResult)

	// Stop gracefully shuts down the sink.
	Stop() error
}
