package feed

import (
	"context"
	"math/rand/v2"
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

// duplicateTimestampChance makes the walk occasionally reuse the
// previous tick's timestamp, exercising the duplicate tolerance of
// downstream consumers.
const duplicateTimestampChance = 0.05

// pairState tracks the walk for one pair.
type pairState struct {
	spec config.PairSpec
	mid  float64
	last time.Time
}

// SyntheticSource generates a seeded random walk of quotes around each
// pair's configured mid price. The same seed reproduces the same
// bid/ask sequence.
type SyntheticSource struct {
	logger   logger.Interface
	handler  Handler
	interval time.Duration
	rng      *rand.Rand
	states   []*pairState
}

// NewSyntheticSource creates a walk over the configured pairs. A zero
// seed falls back to the clock.
func NewSyntheticSource(specs []config.PairSpec, cfg config.FeedConfig, handler Handler, logger logger.Interface) *SyntheticSource {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	states := make([]*pairState, 0, len(specs))
	for _, spec := range specs {
		states = append(states, &pairState{spec: spec, mid: spec.Mid})
	}

	return &SyntheticSource{
		logger:   logger,
		handler:  handler,
		interval: cfg.Interval,
		rng:      rand.New(rand.NewPCG(uint64(seed), uint64(seed))),
		states:   states,
	}
}

// Run emits one quote per pair per interval until the context is
// cancelled.
func (s *SyntheticSource) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Synthetic feed started",
		logger.Field{Key: "pairs", Value: len(s.states)},
		logger.Field{Key: "interval", Value: s.interval.String()},
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Synthetic feed stopped")
			return nil
		case now := <-ticker.C:
			for _, q := range s.tick(now.UTC()) {
				s.handler.Handle(ctx, q)
			}
		}
	}
}

// tick advances every pair's walk and returns the quotes for this round.
func (s *SyntheticSource) tick(now time.Time) []quotev1.Quote {
	quotes := make([]quotev1.Quote, 0, len(s.states))
	for _, state := range s.states {
		quotes = append(quotes, s.next(state, now))
	}
	return quotes
}

func (s *SyntheticSource) next(state *pairState, now time.Time) quotev1.Quote {
	step := (s.rng.Float64()*2 - 1) * state.spec.Spread
	state.mid += step
	// Keep the bid strictly positive by restarting a walk that drifted
	// too close to zero.
	if state.mid <= state.spec.Spread {
		state.mid = state.spec.Mid
	}

	ts := now
	if !state.last.IsZero() && s.rng.Float64() < duplicateTimestampChance {
		ts = state.last
	}
	state.last = ts

	half := state.spec.Spread / 2
	return quotev1.Quote{
		Pair:      state.spec.Symbol,
		Bid:       state.mid - half,
		Ask:       state.mid + half,
		Timestamp: ts,
	}
}
