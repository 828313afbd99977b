// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avescod/crossarb/business/arbitrage/domain"
	pricingApp "github.com/avescod/crossarb/business/pricing/app"
	pricingDomain "github.com/avescod/crossarb/business/pricing/domain"
	"github.com/avescod/crossarb/internal/logger"
)

// opportunityCacheSize bounds how many recent opportunities stay addressable
// for manual execution. Nothing survives a restart.
const opportunityCacheSize = 128

const tracerName = "github.com/avescod/crossarb/business/arbitrage/app"

// DetectorConfig holds configuration for the arbitrage detector.
type DetectorConfig struct {
	Pairs        []pricingDomain.Pair
	ScanInterval time.Duration
	MinSpread    decimal.Decimal
	Notional     decimal.Decimal
}

// Detector runs the periodic scan loop: aggregate quotes per pair, emit a
// ticker event each cycle, and flag opportunities whose spread clears the
// threshold. It only detects; execution happens elsewhere, on demand.
type Detector struct {
	pricing  *pricingApp.Service
	notifier Notifier
	config   DetectorConfig
	logger   logger.LoggerInterface
	tracer   trace.Tracer

	mu     sync.Mutex
	recent map[string]domain.Opportunity
	order  []string
}

// NewDetector creates a new arbitrage Detector.
func NewDetector(pricing *pricingApp.Service, notifier Notifier, config DetectorConfig, log logger.LoggerInterface) *Detector {
	return &Detector{
		pricing:  pricing,
		notifier: notifier,
		config:   config,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		recent:   make(map[string]domain.Opportunity, opportunityCacheSize),
	}
}

// Start begins the detection loop in a background goroutine.
func (d *Detector) Start(ctx context.Context) error {
	d.logger.Info(ctx, "starting arbitrage detector",
		"pairs", len(d.config.Pairs),
		"interval", d.config.ScanInterval.String(),
		"minSpread", d.config.MinSpread.String(),
	)

	if err := d.notifier.Start(ctx); err != nil {
		return err
	}
	d.notifier.Exchanges(domain.ExchangesEvent{Exchanges: d.pricing.Names()})

	go d.run(ctx)
	return nil
}

func (d *Detector) run(ctx context.Context) {
	ticker := time.NewTicker(d.config.ScanInterval)
	defer ticker.Stop()

	// First cycle runs immediately rather than one interval in.
	d.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info(ctx, "detector stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			d.scan(ctx)
		}
	}
}

// scan runs one full cycle over all configured pairs. A failure on one pair
// never aborts the cycle for the others.
func (d *Detector) scan(ctx context.Context) {
	for _, pair := range d.config.Pairs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.scanPair(ctx, pair)
	}
}

func (d *Detector) scanPair(ctx context.Context, pair pricingDomain.Pair) {
	ctx, span := d.tracer.Start(ctx, "arbitrage.scan",
		trace.WithAttributes(attribute.String("pair", pair.String())),
	)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error(ctx, "pair scan panicked", "pair", pair.String(), "panic", r)
		}
	}()

	snapshot := d.pricing.Aggregate(ctx, pair)
	if snapshot == nil {
		d.logger.Debug(ctx, "not enough quotes", "pair", pair.String())
		return
	}

	spread := snapshot.Spread()
	d.notifier.Ticker(domain.TickerEvent{
		Timestamp: time.Now().UTC(),
		Pair:      pair,
		Quotes:    snapshot.Quotes,
		BestBuy:   snapshot.BestBuy,
		BestSell:  snapshot.BestSell,
		Spread:    spread,
	})

	// Same-exchange "spreads" are just the venue's own bid/ask inversion
	// artifacts; only cross-exchange discrepancies count.
	if !snapshot.CrossExchange() || !spread.Meets(d.config.MinSpread) {
		return
	}

	opp := domain.NewOpportunity(pair, snapshot.BestBuy, snapshot.BestSell, spread, d.config.Notional)
	span.SetAttributes(
		attribute.String("opportunity.id", opp.ID),
		attribute.String("spread.bps", spread.BasisPoints.StringFixed(1)),
	)
	d.remember(opp)
	d.notifier.Opportunity(opp)

	d.logger.Info(ctx, "opportunity detected",
		"id", opp.ID,
		"pair", pair.String(),
		"buy", opp.BestBuy.Exchange,
		"sell", opp.BestSell.Exchange,
		"spreadBps", spread.BasisPoints.StringFixed(1),
	)
}

// Opportunity returns a recently detected opportunity by ID.
func (d *Detector) Opportunity(id string) (domain.Opportunity, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	opp, ok := d.recent[id]
	return opp, ok
}

func (d *Detector) remember(opp domain.Opportunity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.order) >= opportunityCacheSize {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.recent, oldest)
	}
	d.recent[opp.ID] = opp
	d.order = append(d.order, opp.ID)
}

// Stop gracefully shuts down the detector's sink. The loop itself stops with
// its context.
func (d *Detector) Stop() error {
	return d.notifier.Stop()
}
