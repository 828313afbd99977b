package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	arbApp "github.com/avescod/crossarb/business/arbitrage/app"
	arbDomain "github.com/avescod/crossarb/business/arbitrage/domain"
	"github.com/avescod/crossarb/internal/config"
	"github.com/avescod/crossarb/internal/logger"
)

type fakeTrigger struct {
	known   map[string]arbDomain.ExecutionResult
	lastID  string
	lastOpp arbDomain.Opportunity

	// hub mimics the notification fan-out: when set, every execution
	// result is broadcast once, exactly like the hub-backed notifier does.
	hub *Hub
}

func (f *fakeTrigger) Trigger(_ context.Context, id string) (any, error) {
	f.lastID = id
	res, ok := f.known[id]
	if !ok {
		return nil, arbApp.ErrUnknownOpportunity
	}
	if f.hub != nil {
		f.hub.Broadcast("exec_result", res)
	}
	return res, nil
}

func (f *fakeTrigger) Execute(_ context.Context, opp arbDomain.Opportunity) any {
	f.lastOpp = opp
	res := arbDomain.ExecutionResult{OK: true, Note: "awaiting deposit"}
	if f.hub != nil {
		f.hub.Broadcast("exec_result", res)
	}
	return res
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func testConfig() *config.Config {
	return &config.Config{
		Exchanges: config.ExchangesConfig{Order: []string{"binance", "mexc"}},
		Arbitrage: config.ArbitrageConfig{
			Pairs:         []string{"BTC/USDT"},
			ScanInterval:  5 * time.Second,
			MinSpread:     0.003,
			TradeNotional: 100,
		},
	}
}

func TestHandleConfig_OmitsSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.Exchanges.Binance.APIKey = "super-secret"
	cfg.Withdrawals.Addresses = []config.WithdrawalEntry{
		{Exchange: "mexc", Asset: "BTC", Address: "bc1qdeposit"},
	}

	rec := httptest.NewRecorder()
	handleConfig(cfg)(rec, httptest.NewRequest("GET", "/api/config", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	if strings.Contains(body, "super-secret") || strings.Contains(body, "bc1qdeposit") {
		t.Errorf("config response leaks credentials or addresses: %s", body)
	}

	var view configView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Exchanges) != 2 || view.ScanInterval != "5s" || view.MinSpread != 0.003 {
		t.Errorf("config view = %+v", view)
	}
}

const opportunityBody = `{
	"pair":{"Base":"BTC","Quote":"USDT"},
	"bestBuy":{"exchange":"binance","bid":"99.9","ask":"100"},
	"bestSell":{"exchange":"mexc","bid":"100.5","ask":"100.6"}
}`

func TestHandleExecute(t *testing.T) {
	trigger := &fakeTrigger{
		known: map[string]arbDomain.ExecutionResult{
			"opp-1": {OK: true, Note: "awaiting deposit"},
		},
	}
	handler := handleExecute(trigger, testLogger())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "known_opportunity", body: `{"id":"opp-1"}`, wantStatus: 200},
		{name: "unknown_opportunity", body: `{"id":"opp-404"}`, wantStatus: 404},
		{name: "supplied_opportunity", body: opportunityBody, wantStatus: 200},
		{name: "missing_id_and_quotes", body: `{}`, wantStatus: 400},
		{name: "pair_without_quotes", body: `{"pair":{"Base":"BTC","Quote":"USDT"}}`, wantStatus: 400},
		{name: "malformed_body", body: `{`, wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/execute", strings.NewReader(tt.body))
			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != 200 {
				return
			}

			var res arbDomain.ExecutionResult
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !res.OK || res.Note != "awaiting deposit" {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestHandleExecute_SuppliedPayloadReachesTrigger(t *testing.T) {
	trigger := &fakeTrigger{}
	handler := handleExecute(trigger, testLogger())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("POST", "/api/execute", strings.NewReader(opportunityBody)))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := trigger.lastOpp.Pair.String(); got != "BTC/USDT" {
		t.Errorf("pair = %q, want BTC/USDT", got)
	}
	if trigger.lastOpp.BestBuy.Exchange != "binance" || trigger.lastOpp.BestSell.Exchange != "mexc" {
		t.Errorf("venues = buy %q, sell %q", trigger.lastOpp.BestBuy.Exchange, trigger.lastOpp.BestSell.Exchange)
	}
	if got := trigger.lastOpp.BestBuy.Ask.String(); got != "100" {
		t.Errorf("buy ask = %s, want 100", got)
	}
}

func TestHandleExecute_BroadcastsResultOnce(t *testing.T) {
	hub := NewHub(testLogger())
	trigger := &fakeTrigger{
		known: map[string]arbDomain.ExecutionResult{
			"opp-1": {OK: true, Note: "awaiting deposit"},
		},
		hub: hub,
	}
	handler := handleExecute(trigger, testLogger())

	for _, body := range []string{`{"id":"opp-1"}`, opportunityBody} {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("POST", "/api/execute", strings.NewReader(body)))
		if rec.Code != 200 {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
	}

	// The notification fan-out is the only path onto the stream; the
	// handler itself must not queue a second copy per execution.
	if got := len(hub.broadcast); got != 2 {
		t.Errorf("broadcast queue holds %d messages for 2 executions, want 2", got)
	}
}
