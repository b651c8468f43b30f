package quote

import (
	"context"
	"sync"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
)

// Snapshot keeps the most recent quote per pair in memory. It backs
// the quote read API when no external cache is configured.
type Snapshot struct {
	mu     sync.RWMutex
	quotes map[string]quotev1.Quote
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		quotes: make(map[string]quotev1.Quote),
	}
}

// Update records the quote as the latest for its pair.
func (s *Snapshot) Update(q quotev1.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Pair] = q
}

// Latest returns the last quote seen for the pair.
func (s *Snapshot) Latest(ctx context.Context, pair string) (*quotev1.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[pair]
	if !ok {
		return nil, errors.NewQuoteUnavailable(pair)
	}
	return &q, nil
}
