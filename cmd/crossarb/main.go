// Package main is the entry point for the cross-exchange arbitrage scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/avescod/crossarb/business/arbitrage"
	arbApp "github.com/avescod/crossarb/business/arbitrage/app"
	arbDI "github.com/avescod/crossarb/business/arbitrage/di"
	"github.com/avescod/crossarb/business/pricing"
	pricingDI "github.com/avescod/crossarb/business/pricing/di"
	"github.com/avescod/crossarb/internal/apm"
	"github.com/avescod/crossarb/internal/config"
	"github.com/avescod/crossarb/internal/health"
	"github.com/avescod/crossarb/internal/logger"
	"github.com/avescod/crossarb/internal/metrics"
	"github.com/avescod/crossarb/internal/monolith"
	"github.com/avescod/crossarb/internal/server"
	"github.com/avescod/crossarb/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("crossarb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Arbitrage.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	// The TUI owns the terminal, so logs are discarded in that mode.
	var log *logger.Logger
	if tuiMode {
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting cross-exchange arbitrage scanner",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithExporterConfig(metrics.NewPrometheusConfig()),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// The hub is shared between the dashboard server and the arbitrage
	// module's notification sink.
	hub := server.NewHub(log)
	mono.Container().Register("hub", hub)

	modules := []monolith.Module{
		&pricing.Module{},   // Must be first - provides quote aggregation
		&arbitrage.Module{}, // Depends on pricing
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	startDashboard := func() {
		svc := arbDI.GetArbitrageService(mono.Services())
		srv := server.New(cfg, server.NewTrigger(svc), hub, log)
		go func() {
			if err := srv.Start(ctx); err != nil {
				log.Error(ctx, "dashboard server failed", "error", err)
			}
		}()

		// Readiness degrades when no pair has aggregated within a few cycles.
		pricingSvc := pricingDI.GetPricingService(mono.Services())
		healthServer.RegisterCheck("quotes",
			health.ExchangeFreshness(3*cfg.Arbitrage.ScanInterval, pricingSvc.LastQuoteTime))
	}

	if tuiMode {
		startFunc := func() error {
			if err := mono.StartModules(ctx, modules...); err != nil {
				return fmt.Errorf("failed to start modules: %w", err)
			}
			startDashboard()
			return nil
		}
		stopFunc := func() {
			svc := arbDI.GetArbitrageService(mono.Services())
			svc.Stop()
		}
		return runTUI(ctx, startFunc, stopFunc)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	startDashboard()

	return runCLI(ctx, arbDI.GetArbitrageService(mono.Services()), log)
}

func runCLI(ctx context.Context, svc *arbApp.Service, log *logger.Logger) error {
	log.Info(ctx, "all modules started, scanning for opportunities")

	<-ctx.Done()

	log.Info(ctx, "shutting down")

	if err := svc.Stop(); err != nil {
		log.Error(ctx, "error stopping arbitrage service", "error", err)
	}
	return nil
}

func runTUI(ctx context.Context, startFunc func() error, stopFunc func()) error {
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// The TUI starts immediately so the welcome screen shows while
	// modules connect in the background.
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		<-ctx.Done()
		stopFunc()
		errCh <- nil
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
