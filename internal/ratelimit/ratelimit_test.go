package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestRegistry_SharedInstancePerExchange(t *testing.T) {
	reg := NewRegistry(600)

	a := reg.For("binance")
	b := reg.For("binance")
	if a != b {
		t.Error("For(binance) returned different limiters for the same exchange")
	}

	c := reg.For("mexc")
	if c == a {
		t.Error("For(mexc) shares binance's limiter")
	}
}

func TestRegistry_SetOverridesDefault(t *testing.T) {
	reg := NewRegistry(600)
	custom := reg.Set("binance", 1200)

	if got := reg.For("binance"); got != custom {
		t.Error("For(binance) does not return the explicitly set limiter")
	}
}

func TestLimiter_BurstThenThrottle(t *testing.T) {
	// 60 rpm: burst of 6, then one token per second.
	l := New(60)

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow() {
			allowed++
		}
	}
	if allowed != 6 {
		t.Errorf("burst allowed %d requests, want 6", allowed)
	}
	if l.Allow() {
		t.Error("Allow() passed with the burst already spent")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := New(60)
	for l.Allow() {
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("Wait returned nil with no tokens and an expired context")
	}
}

func TestNew_MinimumBurst(t *testing.T) {
	l := New(5)
	if !l.Allow() {
		t.Error("limiter with tiny budget never allows a request")
	}
}
