// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/avescod/crossarb/business/pricing/domain"
	"github.com/avescod/crossarb/internal/logger"
)

const tracerName = "github.com/avescod/crossarb/business/pricing/app"

// Aggregator fans a quote request out to every configured exchange adapter
// and selects the best buy (minimum ask) and best sell (maximum bid) across
// the valid responses.
type Aggregator struct {
	adapters []Adapter
	logger   logger.LoggerInterface
	tracer   trace.Tracer
}

// NewAggregator creates an Aggregator over the given adapters. Adapter order
// is significant: when two exchanges tie on best ask or best bid, the one
// earlier in this slice wins. That keeps cycle results reproducible.
func NewAggregator(adapters []Adapter, log logger.LoggerInterface) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
}

// Aggregate queries all adapters for the pair concurrently and returns a
// snapshot, or nil when fewer than two exchanges produced a valid quote.
// Adapters that error, report the pair unavailable, or return an incomplete
// quote are excluded; only unexpected failures are logged. Nothing is cached
// between calls.
func (a *Aggregator) Aggregate(ctx context.Context, pair domain.Pair) *domain.PairSnapshot {
	ctx, span := a.tracer.Start(ctx, "pricing.aggregate",
		trace.WithAttributes(attribute.String("pair", pair.String())),
	)
	defer span.End()

	// Indexed results keep adapter order stable under concurrent fan-out.
	results := make([]*domain.Quote, len(a.adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range a.adapters {
		g.Go(func() error {
			quote, err := adapter.GetQuote(gctx, pair)
			if err != nil {
				if !errors.Is(err, ErrPairUnavailable) {
					a.logger.Warn(gctx, "quote fetch failed",
						"exchange", adapter.Name(), "pair", pair.String(), "error", err)
				}
				return nil
			}
			if !quote.Valid() {
				return nil
			}
			results[i] = &quote
			return nil
		})
	}
	// Quote goroutines never return errors; Wait only joins them.
	_ = g.Wait()

	quotes := make([]domain.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}

	span.SetAttributes(attribute.Int("quotes", len(quotes)))

	if len(quotes) < 2 {
		return nil
	}

	bestBuy := quotes[0]
	bestSell := quotes[0]
	for _, q := range quotes[1:] {
		// Strict comparisons: on a tie the earlier adapter keeps the slot.
		if q.Ask.LessThan(bestBuy.Ask) {
			bestBuy = q
		}
		if q.Bid.GreaterThan(bestSell.Bid) {
			bestSell = q
		}
	}

	return &domain.PairSnapshot{
		Pair:     pair,
		BestBuy:  bestBuy,
		BestSell: bestSell,
		Quotes:   quotes,
	}
}

// Adapters returns the configured adapters in iteration order.
func (a *Aggregator) Adapters() []Adapter {
	return a.adapters
}
