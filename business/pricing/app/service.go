package app

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avescod/crossarb/business/pricing/domain"
	"github.com/avescod/crossarb/internal/logger"
)

// Service is the pricing context facade. It owns the ordered adapter set and
// exposes quote aggregation plus adapter lookup for execution flows.
type Service struct {
	aggregator *Aggregator
	adapters   []Adapter
	byName     map[string]Adapter
	lastQuote  atomic.Int64 // unix nanos of the last produced snapshot
}

// NewService builds the pricing service. The adapter slice order defines
// tie-break precedence for best-quote selection.
func NewService(adapters []Adapter, log logger.LoggerInterface) *Service {
	byName := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		byName[strings.ToLower(a.Name())] = a
	}
	return &Service{
		aggregator: NewAggregator(adapters, log),
		adapters:   adapters,
		byName:     byName,
	}
}

// Aggregate returns the best-buy/best-sell snapshot for the pair, or nil when
// fewer than two exchanges have a valid quote.
func (s *Service) Aggregate(ctx context.Context, pair domain.Pair) *domain.PairSnapshot {
	snap := s.aggregator.Aggregate(ctx, pair)
	if snap != nil {
		s.lastQuote.Store(time.Now().UnixNano())
	}
	return snap
}

// LastQuoteTime reports when the last snapshot was produced. Zero until the
// first successful aggregation; health checks treat that as not ready.
func (s *Service) LastQuoteTime() time.Time {
	n := s.lastQuote.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Adapter looks up an adapter by exchange name, case-insensitive.
func (s *Service) Adapter(name string) (Adapter, bool) {
	a, ok := s.byName[strings.ToLower(name)]
	return a, ok
}

// Names returns the exchange names in configured order.
func (s *Service) Names() []string {
	names := make([]string, len(s.adapters))
	for i, a := range s.adapters {
		names[i] = a.Name()
	}
	return names
}
