// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/avescod/crossarb/business/arbitrage/app"
	"github.com/avescod/crossarb/business/arbitrage/domain"
	"github.com/avescod/crossarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ArbitrageService = di.NewToken[*app.Service]("arbitrage.Service")
)

// Private dependency tokens - internal to arbitrage module
var (
	Detector    = di.NewToken[*app.Detector]("arbitrage:detector")
	Executor    = di.NewToken[*app.Executor]("arbitrage:executor")
	Notifier    = di.NewToken[app.Notifier]("arbitrage:notifier")
	AddressBook = di.NewToken[*domain.AddressBook]("arbitrage:addressBook")
)

// Helper functions for type-safe access
func GetArbitrageService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, ArbitrageService)
}

func GetDetector(c di.ServiceRegistry) *app.Detector {
	return di.GetToken(c, Detector)
}

func GetNotifier(c di.ServiceRegistry) app.Notifier {
	return di.GetToken(c, Notifier)
}

func GetAddressBook(c di.ServiceRegistry) *domain.AddressBook {
	return di.GetToken(c, AddressBook)
}
