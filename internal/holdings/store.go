package holdings

import (
	"sync"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

// Store is the ordered, in-memory list of holdings for one session.
type Store struct {
	mu       sync.RWMutex
	holdings []models.Holding
}

func NewStore() *Store {
	return &Store{holdings: []models.Holding{}}
}

// Add appends a lot. It reports false, and leaves the store untouched, when the
// ticker is empty after normalization or shares is not positive.
func (s *Store) Add(ticker string, shares, costBasis decimal.Decimal) (models.Holding, bool) {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" || !shares.IsPositive() {
		return models.Holding{}, false
	}
	h := models.Holding{Ticker: ticker, Shares: shares, CostBasis: costBasis}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings = append(s.holdings, h)
	return h, true
}

// Remove deletes every lot whose ticker equals ticker exactly and returns how
// many were removed.
func (s *Store) Remove(ticker string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.Holding, 0, len(s.holdings))
	for _, h := range s.holdings {
		if h.Ticker != ticker {
			kept = append(kept, h)
		}
	}
	removed := len(s.holdings) - len(kept)
	s.holdings = kept
	return removed
}

// List returns a copy of the holdings in insertion order.
func (s *Store) List() []models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Holding, len(s.holdings))
	copy(out, s.holdings)
	return out
}

// Tickers returns the distinct tickers in first-seen order.
func (s *Store) Tickers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DistinctTickers(s.holdings)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.holdings)
}

func (s *Store) Empty() bool { return s.Len() == 0 }

func DistinctTickers(hs []models.Holding) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, h := range hs {
		if _, ok := seen[h.Ticker]; ok {
			continue
		}
		seen[h.Ticker] = struct{}{}
		out = append(out, h.Ticker)
	}
	return out
}
