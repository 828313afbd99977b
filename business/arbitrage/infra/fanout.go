// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"errors"

	arbApp "github.com/avescod/crossarb/business/arbitrage/app"
	"github.com/avescod/crossarb/business/arbitrage/domain"
)

// Fanout replicates every event to multiple sinks. The console or TUI and
// the dashboard stream usually run side by side.
type Fanout struct {
	sinks []arbApp.Notifier
}

// NewFanout creates a Fanout over the given sinks.
func NewFanout(sinks ...arbApp.Notifier) *Fanout {
	return &Fanout{sinks: sinks}
}

// Start starts every sink, stopping at the first failure.
func (f *Fanout) Start(ctx context.Context) error {
	for _, s := range f.sinks {
		if err := s.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fanout) Exchanges(ev domain.ExchangesEvent) {
	for _, s := range f.sinks {
		s.Exchanges(ev)
	}
}

func (f *Fanout) Ticker(ev domain.TickerEvent) {
	for _, s := range f.sinks {
		s.Ticker(ev)
	}
}

func (f *Fanout) Opportunity(opp domain.Opportunity) {
	for _, s := range f.sinks {
		s.Opportunity(opp)
	}
}

func (f *Fanout) Log(ev domain.LogEvent) {
	for _, s := range f.sinks {
		s.Log(ev)
	}
}

func (f *Fanout) ExecutionResult(oppID string, res domain.ExecutionResult) {
	for _, s := range f.sinks {
		s.ExecutionResult(oppID, res)
	}
}

// Stop stops every sink and joins their errors.
func (f *Fanout) Stop() error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
