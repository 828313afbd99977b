package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avescod/crossarb/business/arbitrage/domain"
	pricingApp "github.com/avescod/crossarb/business/pricing/app"
	"github.com/avescod/crossarb/internal/logger"
)

// Executor carries out a manually triggered opportunity: market-buy the base
// asset on the cheap exchange, then withdraw it towards the expensive one.
// It stops at the first failed step. There is no rollback and no retry; a
// placed buy stays on the books even when the withdrawal fails, and running
// the same opportunity twice buys twice.
type Executor struct {
	pricing   *pricingApp.Service
	detector  *Detector
	notifier  Notifier
	addresses *domain.AddressBook
	logger    logger.LoggerInterface
	tracer    trace.Tracer
}

// NewExecutor creates an Executor sharing the detector's pricing service and
// notification sink.
func NewExecutor(pricing *pricingApp.Service, detector *Detector, notifier Notifier, addresses *domain.AddressBook, log logger.LoggerInterface) *Executor {
	return &Executor{
		pricing:   pricing,
		detector:  detector,
		notifier:  notifier,
		addresses: addresses,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}
}

// Execute runs the buy-and-withdraw ladder for a previously detected
// opportunity. The spread is re-validated against live quotes first; prices
// move between detection and the operator's click.
func (e *Executor) Execute(ctx context.Context, opp domain.Opportunity) domain.ExecutionResult {
	ctx, span := e.tracer.Start(ctx, "arbitrage.execute",
		trace.WithAttributes(
			attribute.String("opportunity.id", opp.ID),
			attribute.String("pair", opp.Pair.String()),
		),
	)
	defer span.End()

	res := e.execute(ctx, opp)
	span.SetAttributes(attribute.Bool("success", res.OK))
	e.notifier.ExecutionResult(opp.ID, res)
	return res
}

func (e *Executor) execute(ctx context.Context, opp domain.Opportunity) domain.ExecutionResult {
	e.step(ctx, "info", fmt.Sprintf("executing %s: detected buy on %s, sell on %s",
		opp.Pair.String(), opp.BestBuy.Exchange, opp.BestSell.Exchange))

	// Re-validate against live quotes.
	snapshot := e.pricing.Aggregate(ctx, opp.Pair)
	if snapshot == nil || !snapshot.CrossExchange() || !snapshot.Spread().Meets(e.detector.config.MinSpread) {
		e.step(ctx, "warn", "spread no longer clears the threshold, aborting")
		return domain.Failed(domain.ReasonSpreadTooLow, nil)
	}

	// The trade runs against the live best venues, which may have moved
	// since detection.
	buyQuote := snapshot.BestBuy
	sellQuote := snapshot.BestSell
	moved := buyQuote.Exchange != opp.BestBuy.Exchange || sellQuote.Exchange != opp.BestSell.Exchange
	if moved {
		e.step(ctx, "info", fmt.Sprintf("live quotes moved since detection: trading buy on %s, sell on %s",
			buyQuote.Exchange, sellQuote.Exchange))
	}

	buyAdapter, ok := e.pricing.Adapter(buyQuote.Exchange)
	if !ok || !buyAdapter.HasOrderCapability() {
		e.step(ctx, "warn", fmt.Sprintf("%s has no order API access", buyQuote.Exchange))
		return domain.Failed(domain.ReasonNoOrderAPI, nil)
	}

	baseAmount := opp.Notional.Div(buyQuote.Ask)
	e.step(ctx, "info", fmt.Sprintf("placing market buy on %s: %s %s at ~%s",
		buyQuote.Exchange, baseAmount.StringFixed(8), opp.Pair.Base, buyQuote.Ask.String()))

	order, err := buyAdapter.PlaceMarketBuy(ctx, opp.Pair, baseAmount)
	if err != nil {
		e.step(ctx, "error", fmt.Sprintf("buy on %s failed: %v", buyQuote.Exchange, err))
		return domain.Failed(domain.ReasonOrderFailed, err)
	}
	e.step(ctx, "info", fmt.Sprintf("order %s filled on %s", order.OrderID, order.Exchange))

	address, ok := e.addresses.Lookup(sellQuote.Exchange, opp.Pair.Base)
	if !ok {
		e.step(ctx, "error", fmt.Sprintf("no %s deposit address configured for %s",
			opp.Pair.Base, sellQuote.Exchange))
		return domain.Failed(domain.ReasonNoDestinationAddr, nil)
	}

	if !buyAdapter.HasWithdrawCapability() {
		e.step(ctx, "error", fmt.Sprintf("%s cannot withdraw via API", buyQuote.Exchange))
		return domain.Failed(domain.ReasonWithdrawNotSupported, nil)
	}

	e.step(ctx, "info", fmt.Sprintf("withdrawing %s %s from %s to %s",
		order.BaseAmount.StringFixed(8), opp.Pair.Base, buyQuote.Exchange, sellQuote.Exchange))

	withdrawal, err := buyAdapter.Withdraw(ctx, opp.Pair.Base, order.BaseAmount, address)
	if err != nil {
		e.step(ctx, "error", fmt.Sprintf("withdrawal from %s failed: %v", buyQuote.Exchange, err))
		return domain.Failed(domain.ReasonWithdrawFailed, err)
	}

	note := fmt.Sprintf("bought %s %s on %s, withdrawal %s initiated; awaiting deposit on %s before selling",
		order.BaseAmount.StringFixed(8), opp.Pair.Base, buyQuote.Exchange, withdrawal.TxID, sellQuote.Exchange)
	if moved {
		note += fmt.Sprintf("; venues changed since detection (was buy %s, sell %s)",
			opp.BestBuy.Exchange, opp.BestSell.Exchange)
	}
	e.step(ctx, "info", note)
	return domain.Succeeded(note)
}

// step logs and mirrors a progress line to the notification sink.
func (e *Executor) step(ctx context.Context, level, message string) {
	switch level {
	case "error":
		e.logger.Error(ctx, message)
	case "warn":
		e.logger.Warn(ctx, message)
	default:
		e.logger.Info(ctx, message)
	}
	e.notifier.Log(domain.LogEvent{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	})
}
