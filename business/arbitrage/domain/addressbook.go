package domain

import "strings"

// AddressBook maps (sell exchange, asset) to the deposit address used as the
// withdrawal destination. It is built once from configuration and never
// mutated afterwards, so lookups are safe from any goroutine.
type AddressBook struct {
	entries map[string]string
}

// NewAddressBook builds an address book. Later duplicates overwrite earlier
// ones, matching config precedence.
func NewAddressBook() *AddressBook {
	return &AddressBook{entries: make(map[string]string)}
}

// Add registers the deposit address for an asset on an exchange.
func (b *AddressBook) Add(exchange, asset, address string) {
	b.entries[key(exchange, asset)] = address
}

// Lookup returns the deposit address for the asset on the exchange.
func (b *AddressBook) Lookup(exchange, asset string) (string, bool) {
	addr, ok := b.entries[key(exchange, asset)]
	return addr, ok
}

// Len returns the number of configured addresses.
func (b *AddressBook) Len() int {
	return len(b.entries)
}

func key(exchange, asset string) string {
	return strings.ToLower(exchange) + "/" + strings.ToUpper(asset)
}
