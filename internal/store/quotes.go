package store

import (
	"sort"
	"sync"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
)

// QuoteStore is a thread-safe in-memory store for the current
// simulated quotes, keyed by symbol. Only the feed simulator writes
// to it; everything else reads snapshots.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]domain.Instrument
}

// NewQuoteStore creates a store seeded with the given instruments.
func NewQuoteStore(seed []domain.Instrument) *QuoteStore {
	s := &QuoteStore{quotes: make(map[string]domain.Instrument, len(seed))}
	for _, q := range seed {
		s.quotes[q.Symbol] = q
	}
	return s
}

// Get retrieves the quote for a symbol.
func (s *QuoteStore) Get(symbol string) (domain.Instrument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	return q, ok
}

// List returns all quotes sorted by symbol.
func (s *QuoteStore) List() []domain.Instrument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Instrument, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Replace swaps in a full new quote set.
func (s *QuoteStore) Replace(quotes []domain.Instrument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = make(map[string]domain.Instrument, len(quotes))
	for _, q := range quotes {
		s.quotes[q.Symbol] = q
	}
}
