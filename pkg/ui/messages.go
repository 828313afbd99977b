// Package ui provides the Bubble Tea TUI for the arbitrage scanner.
package ui

import (
	"time"

	"github.com/shopspring/decimal"
)

// Message types for TUI updates

// TickerMsg is sent once per pair per scan cycle.
type TickerMsg struct {
	Pair      string
	BuyVenue  string
	BuyAsk    decimal.Decimal
	SellVenue string
	SellBid   decimal.Decimal
	SpreadBps decimal.Decimal
}

// OpportunityMsg is sent when a spread clears the threshold.
type OpportunityMsg struct {
	ID        string
	Timestamp time.Time
	Pair      string
	BuyVenue  string
	SellVenue string
	SpreadBps decimal.Decimal
}

// ExecResultMsg is sent when a manual execution finishes.
type ExecResultMsg struct {
	OpportunityID string
	OK            bool
	Reason        string
	Note          string
}

// ExchangesMsg announces the configured exchanges on startup.
type ExchangesMsg struct {
	Exchanges []string
}

// LogMsg displays a log line in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg drives animations and the welcome timeout.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}
