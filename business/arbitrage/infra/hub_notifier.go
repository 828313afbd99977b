// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"

	"github.com/avescod/crossarb/business/arbitrage/domain"
	"github.com/avescod/crossarb/internal/server"
)

// HubNotifier pushes events onto the dashboard WebSocket stream.
type HubNotifier struct {
	hub *server.Hub
}

// NewHubNotifier creates a HubNotifier over the given hub.
func NewHubNotifier(hub *server.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// Start is a no-op; the hub loop runs inside the dashboard server.
func (n *HubNotifier) Start(ctx context.Context) error {
	return nil
}

// Exchanges broadcasts the configured exchanges.
func (n *HubNotifier) Exchanges(ev domain.ExchangesEvent) {
	n.hub.Broadcast(domain.EventExchanges, ev)
}

// Ticker broadcasts a per-pair scan result.
func (n *HubNotifier) Ticker(ev domain.TickerEvent) {
	n.hub.Broadcast(domain.EventTicker, ev)
}

// Opportunity broadcasts a detected opportunity.
func (n *HubNotifier) Opportunity(opp domain.Opportunity) {
	n.hub.Broadcast(domain.EventOpportunity, opp)
}

// Log broadcasts a progress line.
func (n *HubNotifier) Log(ev domain.LogEvent) {
	n.hub.Broadcast(domain.EventLog, ev)
}

// ExecutionResult broadcasts the outcome of a manual execution.
func (n *HubNotifier) ExecutionResult(oppID string, res domain.ExecutionResult) {
	n.hub.Broadcast(domain.EventExecutionResult, struct {
		OpportunityID string `json:"opportunityId"`
		domain.ExecutionResult
	}{OpportunityID: oppID, ExecutionResult: res})
}

// Stop is a no-op; the hub stops with the server's context.
func (n *HubNotifier) Stop() error {
	return nil
}
