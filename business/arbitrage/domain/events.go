package domain

import (
	"time"

	pricing "github.com/avescod/crossarb/business/pricing/domain"
)

// Event types published to notification sinks and the dashboard stream.
const (
	EventTicker          = "ticker"
	EventOpportunity     = "opportunity"
	EventLog             = "log"
	EventExecutionResult = "exec_result"
	EventExchanges       = "exchanges"
)

// TickerEvent is emitted once per pair per scan cycle, whether or not an
// opportunity was found.
type TickerEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Pair      pricing.Pair    `json:"pair"`
	Quotes    []pricing.Quote `json:"quotes"`
	BestBuy   pricing.Quote   `json:"bestBuy"`
	BestSell  pricing.Quote   `json:"bestSell"`
	Spread    pricing.Spread  `json:"spread"`
}

// LogEvent is a human-readable progress line, mostly emitted during
// execution so the operator can follow each step.
type LogEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// ExchangesEvent announces the configured exchanges once on startup.
type ExchangesEvent struct {
	Exchanges []string `json:"exchanges"`
}
