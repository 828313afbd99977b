// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/avescod/crossarb/business/pricing/app"
	"github.com/avescod/crossarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.Service]("pricing.Service")
)

// Private dependency tokens - internal to pricing module
var (
	Adapters = di.NewToken[[]app.Adapter]("pricing:adapters")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, PricingService)
}

func GetAdapters(c di.ServiceRegistry) []app.Adapter {
	return di.GetToken(c, Adapters)
}
