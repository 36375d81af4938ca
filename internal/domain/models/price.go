package models

import "sync"

// PriceInfo is one symbol's snapshot from a price source. ChangePercent is
// an explicit optional: nil means "unknown", not "zero change". Price is
// absent for entries carried forward from a restored snapshot.
type PriceInfo struct {
	ChangePercent *float64
	Price         *float64
	Source        string
}

// Trade is a single tick from the live market stream.
type Trade struct {
	Symbol    string
	Timestamp int64
	Price     float64
	Volume    float64
}

// Reference is the persisted daily baseline used to derive intraday changes
// from raw stream prices. It resets when the stored date rolls over.
type Reference struct {
	Date   string             `json:"date"`
	Prices map[string]float64 `json:"prices"`
}

// PriceBook holds the latest known PriceInfo per symbol. REST fetches and
// the live stream both merge into it; readers get copies.
type PriceBook struct {
	mu sync.RWMutex
	m  map[string]PriceInfo
}

// NewPriceBook creates an empty price book.
func NewPriceBook() *PriceBook {
	return &PriceBook{m: make(map[string]PriceInfo)}
}

// Lookup returns the entry for symbol, if any.
func (b *PriceBook) Lookup(symbol string) (PriceInfo, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.m[symbol]
	return p, ok
}

// Merge overwrites entries with fresh data. Symbols absent from the update
// keep their previous values.
func (b *PriceBook) Merge(updates map[string]PriceInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sym, p := range updates {
		b.m[sym] = p
	}
}

// Set stores a single entry.
func (b *PriceBook) Set(symbol string, p PriceInfo) {
	b.mu.Lock()
	b.m[symbol] = p
	b.mu.Unlock()
}

// Len returns the number of tracked symbols.
func (b *PriceBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.m)
}

// Reset drops all entries. Called on day rollover.
func (b *PriceBook) Reset() {
	b.mu.Lock()
	b.m = make(map[string]PriceInfo)
	b.mu.Unlock()
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 { return &v }
