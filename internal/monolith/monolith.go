// Package monolith provides the application container and module interface.
package monolith

import (
	"context"

	"github.com/avescod/crossarb/internal/config"
	"github.com/avescod/crossarb/internal/di"
	"github.com/avescod/crossarb/internal/logger"
	"github.com/avescod/crossarb/internal/ratelimit"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	Limiters() *ratelimit.Registry
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config    *config.Config
	logger    logger.LoggerInterface
	limiters  *ratelimit.Registry
	container di.Container
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	// One shared limiter registry: the scan loop and manual executions draw
	// from the same per-exchange budget.
	limiters := ratelimit.NewRegistry(600)
	if rpm := cfg.Exchanges.Binance.RequestsPerMinute; rpm > 0 {
		limiters.Set("binance", rpm)
	}
	if rpm := cfg.Exchanges.MEXC.RequestsPerMinute; rpm > 0 {
		limiters.Set("mexc", rpm)
	}

	container := di.NewContainer()
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("limiters", limiters)

	return &app{
		config:    cfg,
		logger:    log,
		limiters:  limiters,
		container: container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) Limiters() *ratelimit.Registry {
	return a.limiters
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// Close releases shared resources.
func (a *app) Close() error {
	return nil
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
