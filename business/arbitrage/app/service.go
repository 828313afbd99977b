package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/avescod/crossarb/business/arbitrage/domain"
)

// ErrUnknownOpportunity is returned when a trigger names an opportunity ID
// the detector has no record of.
var ErrUnknownOpportunity = errors.New("unknown opportunity")

// Service is the arbitrage context facade: the detector's scan loop plus
// manual execution triggering.
type Service struct {
	detector *Detector
	executor *Executor
}

// NewService bundles the detector and executor.
func NewService(detector *Detector, executor *Executor) *Service {
	return &Service{detector: detector, executor: executor}
}

// Start launches the detection loop.
func (s *Service) Start(ctx context.Context) error {
	return s.detector.Start(ctx)
}

// Trigger executes a previously detected opportunity by ID, synchronously.
// Two triggers for the same ID place two buys; callers own idempotency.
func (s *Service) Trigger(ctx context.Context, id string) (domain.ExecutionResult, error) {
	opp, ok := s.detector.Opportunity(id)
	if !ok {
		return domain.ExecutionResult{}, ErrUnknownOpportunity
	}
	return s.executor.Execute(ctx, opp), nil
}

// Execute runs a caller-supplied opportunity without consulting the
// detector's cache. The executor re-validates it against live quotes before
// any order is placed, so a stale or fabricated payload aborts with "spread
// too low" rather than trading.
func (s *Service) Execute(ctx context.Context, opp domain.Opportunity) domain.ExecutionResult {
	if opp.ID == "" {
		opp.ID = uuid.NewString()
	}
	if opp.Timestamp.IsZero() {
		opp.Timestamp = time.Now().UTC()
	}
	if opp.Notional.IsZero() {
		opp.Notional = s.detector.config.Notional
	}
	return s.executor.Execute(ctx, opp)
}

// Stop shuts down the detector's sink.
func (s *Service) Stop() error {
	return s.detector.Stop()
}
