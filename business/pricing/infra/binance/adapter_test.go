package binance

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avescod/crossarb/business/pricing/app"
	"github.com/avescod/crossarb/business/pricing/domain"
	"github.com/avescod/crossarb/internal/logger"
	"github.com/avescod/crossarb/internal/ratelimit"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return New(Config{BaseURL: srv.URL}, ratelimit.New(600), log)
}

func TestAdapter_GetQuote(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol = %s, want BTCUSDT", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"BTCUSDT","bidPrice":"63999.98","bidQty":"2.1","askPrice":"64000.12","askQty":"0.5"}`))
	})

	quote, err := adapter.GetQuote(context.Background(), domain.MustParsePair("BTC/USDT"))
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}

	if quote.Exchange != "binance" {
		t.Errorf("Exchange = %q, want binance", quote.Exchange)
	}
	if !quote.Bid.Equal(decimal.RequireFromString("63999.98")) {
		t.Errorf("Bid = %s, want 63999.98", quote.Bid)
	}
	if !quote.Ask.Equal(decimal.RequireFromString("64000.12")) {
		t.Errorf("Ask = %s, want 64000.12", quote.Ask)
	}
}

func TestAdapter_GetQuote_UnknownSymbol(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	_, err := adapter.GetQuote(context.Background(), domain.MustParsePair("NOPE/USDT"))
	if !errors.Is(err, app.ErrPairUnavailable) {
		t.Errorf("error = %v, want ErrPairUnavailable", err)
	}
}

func TestAdapter_UnlistedPairDoesNotTripBreaker(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("symbol") == "NOPEUSDT" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
			return
		}
		w.Write([]byte(`{"symbol":"BTCUSDT","bidPrice":"63999.98","bidQty":"2.1","askPrice":"64000.12","askQty":"0.5"}`))
	})

	// Scanning an unlisted pair every cycle must stay an expected absence,
	// not accumulate into an open circuit that blocks listed pairs.
	unlisted := domain.MustParsePair("NOPE/USDT")
	for i := 0; i < 10; i++ {
		_, err := adapter.GetQuote(context.Background(), unlisted)
		if !errors.Is(err, app.ErrPairUnavailable) {
			t.Fatalf("cycle %d: error = %v, want ErrPairUnavailable", i, err)
		}
	}

	quote, err := adapter.GetQuote(context.Background(), domain.MustParsePair("BTC/USDT"))
	if err != nil {
		t.Fatalf("listed pair quote failed after scanning an unlisted pair: %v", err)
	}
	if !quote.Bid.Equal(decimal.RequireFromString("63999.98")) {
		t.Errorf("Bid = %s, want 63999.98", quote.Bid)
	}
}

func TestAdapter_CapabilitiesFollowCredentials(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)

	quoteOnly := New(Config{}, ratelimit.New(600), log)
	if quoteOnly.HasOrderCapability() || quoteOnly.HasWithdrawCapability() {
		t.Error("adapter without credentials reports trading capability")
	}
	if _, err := quoteOnly.PlaceMarketBuy(context.Background(), domain.MustParsePair("BTC/USDT"), decimal.New(1, 0)); err == nil {
		t.Error("PlaceMarketBuy succeeded without credentials")
	}

	trading := New(Config{APIKey: "k", APISecret: "s"}, ratelimit.New(600), log)
	if !trading.HasOrderCapability() || !trading.HasWithdrawCapability() {
		t.Error("adapter with credentials reports no trading capability")
	}
}
