package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avescod/crossarb/business/pricing/domain"
	"github.com/avescod/crossarb/internal/logger"
)

// fakeAdapter serves a canned quote or error. Trading calls are not used by
// the aggregator and fail the test if reached.
type fakeAdapter struct {
	name  string
	quote domain.Quote
	err   error
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) GetQuote(_ context.Context, _ domain.Pair) (domain.Quote, error) {
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return f.quote, nil
}

func (f *fakeAdapter) HasOrderCapability() bool { return false }

func (f *fakeAdapter) PlaceMarketBuy(_ context.Context, _ domain.Pair, _ decimal.Decimal) (OrderAck, error) {
	return OrderAck{}, errors.New("not used in aggregation")
}

func (f *fakeAdapter) HasWithdrawCapability() bool { return false }

func (f *fakeAdapter) Withdraw(_ context.Context, _ string, _ decimal.Decimal, _ string) (WithdrawalAck, error) {
	return WithdrawalAck{}, errors.New("not used in aggregation")
}

func quoteOn(exchange, bid, ask string) domain.Quote {
	return domain.Quote{
		Exchange: exchange,
		Bid:      decimal.RequireFromString(bid),
		Ask:      decimal.RequireFromString(ask),
	}
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestAggregator_Aggregate(t *testing.T) {
	pair := domain.MustParsePair("BTC/USDT")

	tests := []struct {
		name         string
		adapters     []Adapter
		wantNil      bool
		wantBuy      string // exchange expected to hold the minimum ask
		wantSell     string // exchange expected to hold the maximum bid
		wantQuoteLen int
	}{
		{
			name: "picks_min_ask_and_max_bid",
			adapters: []Adapter{
				&fakeAdapter{name: "binance", quote: quoteOn("binance", "100.2", "100.4")},
				&fakeAdapter{name: "mexc", quote: quoteOn("mexc", "100.8", "100.9")},
				&fakeAdapter{name: "kraken", quote: quoteOn("kraken", "100.1", "100.3")},
			},
			wantBuy:      "kraken",
			wantSell:     "mexc",
			wantQuoteLen: 3,
		},
		{
			name: "single_quote_is_not_a_snapshot",
			adapters: []Adapter{
				&fakeAdapter{name: "binance", quote: quoteOn("binance", "100", "100.1")},
				&fakeAdapter{name: "mexc", err: ErrPairUnavailable},
			},
			wantNil: true,
		},
		{
			name: "no_adapters",
			adapters: []Adapter{},
			wantNil:  true,
		},
		{
			name: "invalid_quote_excluded",
			adapters: []Adapter{
				&fakeAdapter{name: "binance", quote: quoteOn("binance", "100", "100.1")},
				&fakeAdapter{name: "mexc", quote: quoteOn("mexc", "0", "100.2")},
				&fakeAdapter{name: "kraken", quote: quoteOn("kraken", "100.3", "100.5")},
			},
			wantBuy:      "binance",
			wantSell:     "kraken",
			wantQuoteLen: 2,
		},
		{
			name: "adapter_error_excluded_others_survive",
			adapters: []Adapter{
				&fakeAdapter{name: "binance", err: errors.New("502 bad gateway")},
				&fakeAdapter{name: "mexc", quote: quoteOn("mexc", "100", "100.1")},
				&fakeAdapter{name: "kraken", quote: quoteOn("kraken", "100.4", "100.6")},
			},
			wantBuy:      "mexc",
			wantSell:     "kraken",
			wantQuoteLen: 2,
		},
		{
			name: "tie_goes_to_earlier_adapter",
			adapters: []Adapter{
				&fakeAdapter{name: "binance", quote: quoteOn("binance", "100.5", "100.7")},
				&fakeAdapter{name: "mexc", quote: quoteOn("mexc", "100.5", "100.7")},
			},
			wantBuy:      "binance",
			wantSell:     "binance",
			wantQuoteLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(tt.adapters, testLogger())
			snap := agg.Aggregate(context.Background(), pair)

			if tt.wantNil {
				if snap != nil {
					t.Fatalf("expected nil snapshot, got %+v", snap)
				}
				return
			}
			if snap == nil {
				t.Fatal("expected snapshot, got nil")
			}

			if snap.BestBuy.Exchange != tt.wantBuy {
				t.Errorf("BestBuy.Exchange = %q, want %q", snap.BestBuy.Exchange, tt.wantBuy)
			}
			if snap.BestSell.Exchange != tt.wantSell {
				t.Errorf("BestSell.Exchange = %q, want %q", snap.BestSell.Exchange, tt.wantSell)
			}
			if len(snap.Quotes) != tt.wantQuoteLen {
				t.Errorf("len(Quotes) = %d, want %d", len(snap.Quotes), tt.wantQuoteLen)
			}
			if snap.Pair != pair {
				t.Errorf("Pair = %v, want %v", snap.Pair, pair)
			}
		})
	}
}

func TestAggregator_QuotesKeepAdapterOrder(t *testing.T) {
	adapters := []Adapter{
		&fakeAdapter{name: "binance", quote: quoteOn("binance", "100.5", "100.7")},
		&fakeAdapter{name: "mexc", err: ErrPairUnavailable},
		&fakeAdapter{name: "kraken", quote: quoteOn("kraken", "100.1", "100.3")},
	}

	agg := NewAggregator(adapters, testLogger())
	snap := agg.Aggregate(context.Background(), domain.MustParsePair("ETH/USDT"))
	if snap == nil {
		t.Fatal("expected snapshot, got nil")
	}

	want := []string{"binance", "kraken"}
	if len(snap.Quotes) != len(want) {
		t.Fatalf("len(Quotes) = %d, want %d", len(snap.Quotes), len(want))
	}
	for i, exchange := range want {
		if snap.Quotes[i].Exchange != exchange {
			t.Errorf("Quotes[%d].Exchange = %q, want %q", i, snap.Quotes[i].Exchange, exchange)
		}
	}
}

func TestService_AdapterLookup(t *testing.T) {
	adapters := []Adapter{
		&fakeAdapter{name: "Binance"},
		&fakeAdapter{name: "mexc"},
	}
	svc := NewService(adapters, testLogger())

	if _, ok := svc.Adapter("binance"); !ok {
		t.Error("Adapter(binance) not found despite case-insensitive lookup")
	}
	if _, ok := svc.Adapter("MEXC"); !ok {
		t.Error("Adapter(MEXC) not found despite case-insensitive lookup")
	}
	if _, ok := svc.Adapter("kraken"); ok {
		t.Error("Adapter(kraken) found but was never configured")
	}

	names := svc.Names()
	if len(names) != 2 || names[0] != "Binance" || names[1] != "mexc" {
		t.Errorf("Names() = %v, want [Binance mexc]", names)
	}
}
