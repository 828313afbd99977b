package mexc

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
	adapter, err := New(Config{BaseURL: srv.URL}, ratelimit.New(600), log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return adapter
}

func TestAdapter_GetQuote(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != bookTickerPath {
			t.Errorf("path = %s, want %s", r.URL.Path, bookTickerPath)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol = %s, want BTCUSDT", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"BTCUSDT","bidPrice":"64000.01","bidQty":"1.2","askPrice":"64000.25","askQty":"0.8"}`))
	})

	quote, err := adapter.GetQuote(context.Background(), domain.MustParsePair("BTC/USDT"))
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}

	if quote.Exchange != "mexc" {
		t.Errorf("Exchange = %q, want mexc", quote.Exchange)
	}
	if !quote.Bid.Equal(decimal.RequireFromString("64000.01")) {
		t.Errorf("Bid = %s, want 64000.01", quote.Bid)
	}
	if !quote.Ask.Equal(decimal.RequireFromString("64000.25")) {
		t.Errorf("Ask = %s, want 64000.25", quote.Ask)
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

func TestAdapter_GetQuote_EmptyBook(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"XYZUSDT","bidPrice":"","bidQty":"","askPrice":"","askQty":""}`))
	})

	_, err := adapter.GetQuote(context.Background(), domain.MustParsePair("XYZ/USDT"))
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
		w.Write([]byte(`{"symbol":"BTCUSDT","bidPrice":"64000.01","bidQty":"1.2","askPrice":"64000.25","askQty":"0.8"}`))
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
	if !quote.Ask.Equal(decimal.RequireFromString("64000.25")) {
		t.Errorf("Ask = %s, want 64000.25", quote.Ask)
	}
}

func TestAdapter_GetQuote_ServerError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream unavailable`))
	})

	_, err := adapter.GetQuote(context.Background(), domain.MustParsePair("BTC/USDT"))
	if err == nil {
		t.Fatal("GetQuote succeeded against a failing upstream")
	}
	if errors.Is(err, app.ErrPairUnavailable) {
		t.Error("server error was misreported as pair unavailable")
	}
}

func TestAdapter_TradingUnsupported(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {})

	if adapter.HasOrderCapability() {
		t.Error("quote-only adapter reports order capability")
	}
	if adapter.HasWithdrawCapability() {
		t.Error("quote-only adapter reports withdraw capability")
	}

	if _, err := adapter.PlaceMarketBuy(context.Background(), domain.MustParsePair("BTC/USDT"), decimal.New(1, 0)); err == nil {
		t.Error("PlaceMarketBuy succeeded on a quote-only adapter")
	}
	if _, err := adapter.Withdraw(context.Background(), "BTC", decimal.New(1, 0), "bc1qdeposit"); err == nil {
		t.Error("Withdraw succeeded on a quote-only adapter")
	}
}
