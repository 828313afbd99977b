// Package pricing implements the pricing bounded context: per-exchange
// adapters and cross-exchange quote aggregation.
package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/avescod/crossarb/business/pricing/app"
	pricingDI "github.com/avescod/crossarb/business/pricing/di"
	"github.com/avescod/crossarb/business/pricing/infra/binance"
	"github.com/avescod/crossarb/business/pricing/infra/mexc"
	"github.com/avescod/crossarb/internal/config"
	"github.com/avescod/crossarb/internal/di"
	"github.com/avescod/crossarb/internal/logger"
	"github.com/avescod/crossarb/internal/monolith"
	"github.com/avescod/crossarb/internal/ratelimit"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Adapters are built in configured order; that order is the tie-break
	// precedence for best-quote selection.
	di.RegisterToken(c, pricingDI.Adapters, func(sr di.ServiceRegistry) []app.Adapter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		limiters := sr.Get("limiters").(*ratelimit.Registry)

		adapters := make([]app.Adapter, 0, len(cfg.Exchanges.Order))
		for _, name := range cfg.Exchanges.Order {
			switch strings.ToLower(name) {
			case "binance":
				adapters = append(adapters, binance.New(binance.Config{
					APIKey:    cfg.Exchanges.Binance.APIKey,
					APISecret: cfg.Exchanges.Binance.APISecret,
					BaseURL:   cfg.Exchanges.Binance.BaseURL,
				}, limiters.For("binance"), log))
			case "mexc":
				adapter, err := mexc.New(mexc.Config{
					BaseURL: cfg.Exchanges.MEXC.BaseURL,
				}, limiters.For("mexc"), log)
				if err != nil {
					panic("failed to create mexc adapter: " + err.Error())
				}
				adapters = append(adapters, adapter)
			default:
				panic(fmt.Sprintf("unknown exchange %q in exchanges.order", name))
			}
		}
		return adapters
	})

	// Register the pricing service (public - exposed to other modules).
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.Service {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewService(pricingDI.GetAdapters(sr), log)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := pricingDI.GetPricingService(mono.Services())
	log.Info(ctx, "pricing module started", "exchanges", strings.Join(svc.Names(), ","))
	return nil
}
