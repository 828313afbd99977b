package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avescod/crossarb/business/arbitrage/domain"
	pricingApp "github.com/avescod/crossarb/business/pricing/app"
	pricingDomain "github.com/avescod/crossarb/business/pricing/domain"
)

func newDetector(notifier *recordingNotifier, cfg DetectorConfig, adapters ...pricingApp.Adapter) *Detector {
	log := testLogger()
	return NewDetector(pricingApp.NewService(adapters, log), notifier, cfg, log)
}

func TestDetector_ScanEmitsTickerEveryCycle(t *testing.T) {
	notifier := &recordingNotifier{}
	// 10 bps spread, below the 30 bps threshold.
	d := newDetector(notifier, detectorConfig("BTC/USDT"),
		&fakeExchange{name: "binance", quote: quoteOn("binance", "99.9", "100")},
		&fakeExchange{name: "mexc", quote: quoteOn("mexc", "100.1", "100.2")},
	)

	d.scan(context.Background())

	if len(notifier.tickers) != 1 {
		t.Fatalf("ticker events = %d, want 1", len(notifier.tickers))
	}
	if len(notifier.opportunities) != 0 {
		t.Errorf("opportunities = %d, want 0 below threshold", len(notifier.opportunities))
	}

	ev := notifier.tickers[0]
	if ev.BestBuy.Exchange != "binance" || ev.BestSell.Exchange != "mexc" {
		t.Errorf("ticker best buy/sell = %s/%s, want binance/mexc", ev.BestBuy.Exchange, ev.BestSell.Exchange)
	}
}

func TestDetector_ScanFlagsOpportunity(t *testing.T) {
	notifier := &recordingNotifier{}
	// 50 bps spread on a 30 bps threshold.
	d := newDetector(notifier, detectorConfig("BTC/USDT"),
		&fakeExchange{name: "binance", quote: quoteOn("binance", "99.9", "100")},
		&fakeExchange{name: "mexc", quote: quoteOn("mexc", "100.5", "100.6")},
	)

	d.scan(context.Background())

	if len(notifier.opportunities) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(notifier.opportunities))
	}
	opp := notifier.opportunities[0]
	if opp.BestBuy.Exchange != "binance" || opp.BestSell.Exchange != "mexc" {
		t.Errorf("opportunity buy/sell = %s/%s, want binance/mexc", opp.BestBuy.Exchange, opp.BestSell.Exchange)
	}
	if !opp.Notional.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Notional = %s, want 1000", opp.Notional)
	}
	if opp.ID == "" {
		t.Error("opportunity has no ID")
	}

	// Detected opportunities stay addressable for manual execution.
	cached, ok := d.Opportunity(opp.ID)
	if !ok {
		t.Fatal("Opportunity(id) missed a just-detected opportunity")
	}
	if cached.ID != opp.ID {
		t.Errorf("cached ID = %s, want %s", cached.ID, opp.ID)
	}
}

func TestDetector_SameExchangeBestIsNotAnOpportunity(t *testing.T) {
	notifier := &recordingNotifier{}
	// Binance's crossed book holds both the lowest ask and the highest bid.
	d := newDetector(notifier, detectorConfig("BTC/USDT"),
		&fakeExchange{name: "binance", quote: quoteOn("binance", "101", "100")},
		&fakeExchange{name: "mexc", quote: quoteOn("mexc", "99", "102")},
	)

	d.scan(context.Background())

	if len(notifier.tickers) != 1 {
		t.Fatalf("ticker events = %d, want 1", len(notifier.tickers))
	}
	if len(notifier.opportunities) != 0 {
		t.Errorf("opportunities = %d, want 0 for same-exchange best prices", len(notifier.opportunities))
	}
}

func TestDetector_InsufficientQuotesSkipsPair(t *testing.T) {
	notifier := &recordingNotifier{}
	d := newDetector(notifier, detectorConfig("BTC/USDT"),
		&fakeExchange{name: "binance", quote: quoteOn("binance", "99.9", "100")},
		&fakeExchange{name: "mexc", quoteErr: pricingApp.ErrPairUnavailable},
	)

	d.scan(context.Background())

	if len(notifier.tickers) != 0 {
		t.Errorf("ticker events = %d, want 0 without a snapshot", len(notifier.tickers))
	}
}

func TestDetector_PairFailureDoesNotAbortCycle(t *testing.T) {
	notifier := &recordingNotifier{panicOnTicker: "BTC/USDT"}
	d := newDetector(notifier, detectorConfig("BTC/USDT", "ETH/USDT"),
		&fakeExchange{name: "binance", quote: quoteOn("binance", "99.9", "100")},
		&fakeExchange{name: "mexc", quote: quoteOn("mexc", "100.1", "100.2")},
	)

	d.scan(context.Background())

	// BTC/USDT panicked in the sink; ETH/USDT still produced its ticker.
	if len(notifier.tickers) != 1 {
		t.Fatalf("ticker events = %d, want 1", len(notifier.tickers))
	}
	if got := notifier.tickers[0].Pair.String(); got != "ETH/USDT" {
		t.Errorf("surviving ticker pair = %s, want ETH/USDT", got)
	}
}

func TestDetector_OpportunityCacheEvictsOldest(t *testing.T) {
	notifier := &recordingNotifier{}
	d := newDetector(notifier, detectorConfig("BTC/USDT"))

	pair := pricingDomain.MustParsePair("BTC/USDT")
	spread := pricingDomain.CalculateSpread(
		decimal.RequireFromString("100"), decimal.RequireFromString("100.5"))

	var first, last domain.Opportunity
	for i := 0; i < opportunityCacheSize+1; i++ {
		opp := domain.NewOpportunity(pair,
			quoteOn("binance", "99.9", "100"), quoteOn("mexc", "100.5", "100.6"),
			spread, decimal.RequireFromString("1000"))
		if i == 0 {
			first = opp
		}
		last = opp
		d.remember(opp)
	}

	if _, ok := d.Opportunity(first.ID); ok {
		t.Error("oldest opportunity survived past the cache bound")
	}
	if _, ok := d.Opportunity(last.ID); !ok {
		t.Error("newest opportunity missing from the cache")
	}
}

func TestDetector_StartAnnouncesExchanges(t *testing.T) {
	notifier := &recordingNotifier{}
	d := newDetector(notifier, detectorConfig("BTC/USDT"),
		&fakeExchange{name: "binance", quote: quoteOn("binance", "99.9", "100")},
		&fakeExchange{name: "mexc", quote: quoteOn("mexc", "100.1", "100.2")},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	notifier.mu.Lock()
	started := notifier.started
	exchanges := notifier.exchanges
	notifier.mu.Unlock()

	if !started {
		t.Error("notifier was not started")
	}
	if len(exchanges) != 2 || exchanges[0] != "binance" || exchanges[1] != "mexc" {
		t.Errorf("exchanges event = %v, want [binance mexc]", exchanges)
	}

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !notifier.stopped {
		t.Error("notifier was not stopped")
	}
}
