// Package arbitrage implements the arbitrage bounded context: spread
// detection across exchanges and manual execution of opportunities.
package arbitrage

import (
	"context"

	arbApp "github.com/avescod/crossarb/business/arbitrage/app"
	arbDI "github.com/avescod/crossarb/business/arbitrage/di"
	"github.com/avescod/crossarb/business/arbitrage/domain"
	"github.com/avescod/crossarb/business/arbitrage/infra"
	pricingDI "github.com/avescod/crossarb/business/pricing/di"
	pricingDomain "github.com/avescod/crossarb/business/pricing/domain"
	"github.com/avescod/crossarb/internal/config"
	"github.com/avescod/crossarb/internal/di"
	"github.com/avescod/crossarb/internal/logger"
	"github.com/avescod/crossarb/internal/monolith"
	"github.com/avescod/crossarb/internal/server"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbDI.AddressBook, func(sr di.ServiceRegistry) *domain.AddressBook {
		cfg := sr.Get("config").(*config.Config)
		book := domain.NewAddressBook()
		for _, entry := range cfg.Withdrawals.Addresses {
			book.Add(entry.Exchange, entry.Asset, entry.Address)
		}
		return book
	})

	di.RegisterToken(c, arbDI.Notifier, func(sr di.ServiceRegistry) arbApp.Notifier {
		cfg := sr.Get("config").(*config.Config)
		hub := sr.Get("hub").(*server.Hub)

		var local arbApp.Notifier
		if cfg.Arbitrage.TUIMode {
			local = infra.NewTUINotifier()
		} else {
			local = infra.NewConsoleNotifier()
		}
		return infra.NewFanout(local, infra.NewHubNotifier(hub))
	})

	di.RegisterToken(c, arbDI.Detector, func(sr di.ServiceRegistry) *arbApp.Detector {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		pairs := make([]pricingDomain.Pair, 0, len(cfg.Arbitrage.Pairs))
		for _, raw := range cfg.Arbitrage.Pairs {
			pairs = append(pairs, pricingDomain.MustParsePair(raw))
		}

		return arbApp.NewDetector(
			pricingDI.GetPricingService(sr),
			arbDI.GetNotifier(sr),
			arbApp.DetectorConfig{
				Pairs:        pairs,
				ScanInterval: cfg.Arbitrage.ScanInterval,
				MinSpread:    cfg.Arbitrage.MinSpreadDecimal(),
				Notional:     cfg.Arbitrage.TradeNotionalDecimal(),
			},
			log,
		)
	})

	di.RegisterToken(c, arbDI.Executor, func(sr di.ServiceRegistry) *arbApp.Executor {
		log := sr.Get("logger").(logger.LoggerInterface)
		return arbApp.NewExecutor(
			pricingDI.GetPricingService(sr),
			arbDI.GetDetector(sr),
			arbDI.GetNotifier(sr),
			arbDI.GetAddressBook(sr),
			log,
		)
	})

	di.RegisterToken(c, arbDI.ArbitrageService, func(sr di.ServiceRegistry) *arbApp.Service {
		return arbApp.NewService(arbDI.GetDetector(sr), di.GetToken(sr, arbDI.Executor))
	})

	return nil
}

// Startup launches the detection loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	svc := arbDI.GetArbitrageService(mono.Services())
	if err := svc.Start(ctx); err != nil {
		return err
	}
	mono.Logger().Info(ctx, "arbitrage module started")
	return nil
}
