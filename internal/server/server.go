// Package server exposes the dashboard API: configuration, manual execution
// triggering, and the WebSocket event stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	arbApp "github.com/avescod/crossarb/business/arbitrage/app"
	arbDomain "github.com/avescod/crossarb/business/arbitrage/domain"
	"github.com/avescod/crossarb/internal/config"
	"github.com/avescod/crossarb/internal/logger"
)

// Trigger runs executions for the dashboard: detected opportunities by ID,
// or a caller-supplied opportunity payload.
type Trigger interface {
	Trigger(ctx context.Context, id string) (result any, err error)
	Execute(ctx context.Context, opp arbDomain.Opportunity) (result any)
}

// arbitrageTrigger adapts the arbitrage service to the Trigger port.
type arbitrageTrigger struct {
	svc *arbApp.Service
}

// NewTrigger wraps the arbitrage service for the execute endpoint.
func NewTrigger(svc *arbApp.Service) Trigger {
	return &arbitrageTrigger{svc: svc}
}

func (t *arbitrageTrigger) Trigger(ctx context.Context, id string) (any, error) {
	return t.svc.Trigger(ctx, id)
}

func (t *arbitrageTrigger) Execute(ctx context.Context, opp arbDomain.Opportunity) any {
	return t.svc.Execute(ctx, opp)
}

// Server is the dashboard HTTP + WebSocket server.
type Server struct {
	httpServer *http.Server
	hub        *Hub
	logger     logger.LoggerInterface
}

// New creates a server with all routes registered.
func New(cfg *config.Config, trigger Trigger, hub *Hub, log logger.LoggerInterface) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/config", handleConfig(cfg))
	mux.HandleFunc("POST /api/execute", handleExecute(trigger, log))
	mux.HandleFunc("GET /ws", hub.HandleWS)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{httpServer: srv, hub: hub, logger: log}
}

// Start runs the hub loop and listens for HTTP requests until the context is
// cancelled or ListenAndServe fails.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		if err := s.hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error(ctx, "ws hub stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "dashboard server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// configView is the sanitized configuration shown to dashboard clients.
// Credentials and addresses never leave the process.
type configView struct {
	Exchanges    []string `json:"exchanges"`
	Pairs        []string `json:"pairs"`
	ScanInterval string   `json:"scanInterval"`
	MinSpread    float64  `json:"minSpread"`
	Notional     float64  `json:"tradeNotional"`
}

func handleConfig(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, configView{
			Exchanges:    cfg.Exchanges.Order,
			Pairs:        cfg.Arbitrage.Pairs,
			ScanInterval: cfg.Arbitrage.ScanInterval.String(),
			MinSpread:    cfg.Arbitrage.MinSpread,
			Notional:     cfg.Arbitrage.TradeNotional,
		})
	}
}

// handleExecute accepts either an opportunity-shaped payload (pair plus both
// best quotes, the form broadcast on the event stream) or a bare {"id": ...}
// referencing a recently detected opportunity. The result reaches connected
// dashboards through the notification fan-out; the handler only answers the
// caller.
func handleExecute(trigger Trigger, log logger.LoggerInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req arbDomain.Opportunity
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
			return
		}

		switch {
		case req.Pair.Base != "" && req.BestBuy.Valid() && req.BestSell.Valid():
			log.Info(r.Context(), "manual execution requested",
				"pair", req.Pair.String(), "buy", req.BestBuy.Exchange, "sell", req.BestSell.Exchange)
			writeJSON(w, http.StatusOK, trigger.Execute(r.Context(), req))

		case req.ID != "":
			log.Info(r.Context(), "manual execution requested", "id", req.ID)
			result, err := trigger.Trigger(r.Context(), req.ID)
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, result)

		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing opportunity id or quotes"})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
