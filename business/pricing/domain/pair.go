// Package domain contains the core domain types for the pricing context.
package domain

import (
	"fmt"
	"strings"
)

// Pair represents a trading pair, e.g. BTC/USDT.
type Pair struct {
	Base  string
	Quote string
}

// ParsePair parses "BASE/QUOTE" into a Pair.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid pair %q: expected BASE/QUOTE", s)
	}
	return Pair{
		Base:  strings.ToUpper(parts[0]),
		Quote: strings.ToUpper(parts[1]),
	}, nil
}

// MustParsePair parses a pair or panics. For statically known inputs.
func MustParsePair(s string) Pair {
	p, err := ParsePair(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pair in BASE/QUOTE form.
func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// Symbol returns the concatenated exchange symbol form (e.g. "BTCUSDT").
func (p Pair) Symbol() string {
	return p.Base + p.Quote
}
