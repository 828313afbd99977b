// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/avescod/crossarb/business/arbitrage/domain"
)

// ConsoleNotifier renders scan and execution events as plain CLI output.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier creates a ConsoleNotifier writing to stdout.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{out: os.Stdout}
}

// Start prints the banner.
func (n *ConsoleNotifier) Start(ctx context.Context) error {
	fmt.Fprintln(n.out, "Cross-Exchange Arbitrage Scanner")
	fmt.Fprintln(n.out, "================================")
	return nil
}

// Exchanges prints the configured exchange list.
func (n *ConsoleNotifier) Exchanges(ev domain.ExchangesEvent) {
	fmt.Fprintf(n.out, "Exchanges: %s\n\n", strings.Join(ev.Exchanges, ", "))
}

// Ticker prints a one-line scan summary per pair per cycle.
func (n *ConsoleNotifier) Ticker(ev domain.TickerEvent) {
	fmt.Fprintf(n.out, "[%s] %-10s buy %s@%s  sell %s@%s  spread %s bps\n",
		ev.Timestamp.Format("15:04:05"),
		ev.Pair.String(),
		ev.BestBuy.Exchange, ev.BestBuy.Ask.StringFixed(2),
		ev.BestSell.Exchange, ev.BestSell.Bid.StringFixed(2),
		ev.Spread.BasisPoints.StringFixed(1),
	)
}

// Opportunity prints a highlighted opportunity block.
func (n *ConsoleNotifier) Opportunity(opp domain.Opportunity) {
	fmt.Fprintln(n.out, "")
	fmt.Fprintln(n.out, "================================================================================")
	fmt.Fprintln(n.out, "ARBITRAGE OPPORTUNITY DETECTED")
	fmt.Fprintln(n.out, "================================================================================")
	fmt.Fprintf(n.out, "ID:         %s\n", opp.ID)
	fmt.Fprintf(n.out, "Timestamp:  %s\n", opp.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(n.out, "Pair:       %s\n", opp.Pair.String())
	fmt.Fprintf(n.out, "Buy:        %s at %s (ask)\n", opp.BestBuy.Exchange, opp.BestBuy.Ask.String())
	fmt.Fprintf(n.out, "Sell:       %s at %s (bid)\n", opp.BestSell.Exchange, opp.BestSell.Bid.String())
	fmt.Fprintf(n.out, "Spread:     %s bps\n", opp.Spread.BasisPoints.StringFixed(2))
	fmt.Fprintf(n.out, "Notional:   %s %s\n", opp.Notional.String(), opp.Pair.Quote)
	fmt.Fprintln(n.out, "================================================================================")
}

// Log prints a progress line.
func (n *ConsoleNotifier) Log(ev domain.LogEvent) {
	fmt.Fprintf(n.out, "[%s] %s: %s\n",
		ev.Timestamp.Format("15:04:05"), ev.Level, ev.Message)
}

// ExecutionResult prints the outcome of a manual execution.
func (n *ConsoleNotifier) ExecutionResult(oppID string, res domain.ExecutionResult) {
	if res.OK {
		fmt.Fprintf(n.out, "EXECUTION %s OK: %s\n", oppID, res.Note)
		return
	}
	line := fmt.Sprintf("EXECUTION %s FAILED: %s", oppID, res.Reason)
	if res.Err != "" {
		line += " (" + res.Err + ")"
	}
	fmt.Fprintln(n.out, line)
}

// Stop prints the shutdown line.
func (n *ConsoleNotifier) Stop() error {
	fmt.Fprintln(n.out, "")
	fmt.Fprintln(n.out, "Scanner stopped")
	return nil
}
