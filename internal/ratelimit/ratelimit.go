// Package ratelimit provides per-exchange request throttling on top of
// golang.org/x/time/rate.
//
// The scan loop and manually triggered executions may hit the same exchange
// concurrently; both must draw tokens from the same limiter so the combined
// request rate stays inside the exchange's budget.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles calls against a single exchange.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerMinute, with a burst of 10% of
// the per-minute budget (at least 1).
func New(requestsPerMinute int) *Limiter {
	rps := float64(requestsPerMinute) / 60.0
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed immediately.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Tokens returns the number of tokens currently available.
func (l *Limiter) Tokens() float64 {
	return l.limiter.Tokens()
}

// Registry hands out one shared Limiter per exchange name.
type Registry struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
	perMin   int
}

// NewRegistry creates a registry whose limiters default to requestsPerMinute.
func NewRegistry(requestsPerMinute int) *Registry {
	return &Registry{
		limiters: make(map[string]*Limiter),
		perMin:   requestsPerMinute,
	}
}

// For returns the limiter for the named exchange, creating it with the
// registry default on first use. All callers for a given exchange receive
// the same limiter instance.
func (r *Registry) For(exchange string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[exchange]; ok {
		return l
	}
	l := New(r.perMin)
	r.limiters[exchange] = l
	return l
}

// Set installs a limiter with an explicit per-minute budget for one exchange,
// overriding the registry default.
func (r *Registry) Set(exchange string, requestsPerMinute int) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := New(requestsPerMinute)
	r.limiters[exchange] = l
	return l
}
