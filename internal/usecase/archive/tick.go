package archive

import (
	"context"
	"sync"
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/internal/infrastructure/questdb/tick"
	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = time.Second
	finalFlushTimeout    = 5 * time.Second
)

// TickArchiver buffers accepted quotes and writes them to QuestDB in
// batches, flushing on size or age. Enqueue never blocks: when the
// buffer is full the tick is dropped and counted against the archive,
// not the feed.
type TickArchiver struct {
	repo     tick.TickRepository
	logger   logger.Interface
	interval time.Duration

	ticks chan quotev1.Quote
	batch []*tick.Tick

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewTickArchiver creates an archiver over the given repository.
func NewTickArchiver(repo tick.TickRepository, cfg config.QuestDBConfig, logger logger.Interface) *TickArchiver {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = defaultFlushInterval
	}

	return &TickArchiver{
		repo:     repo,
		logger:   logger,
		interval: interval,
		ticks:    make(chan quotev1.Quote, 4*batchSize),
		batch:    make([]*tick.Tick, 0, batchSize),
		quit:     make(chan struct{}),
	}
}

// Start begins the flush loop.
func (a *TickArchiver) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.run(ctx)

	a.logger.InfoContext(ctx, "Tick archiver started", logger.Field{
		Key:   "action",
		Value: "tick_archiver_start",
	})
}

// Stop drains the buffer, flushes the remainder and waits for the loop.
func (a *TickArchiver) Stop() {
	close(a.quit)
	a.wg.Wait()
}

// Enqueue buffers a quote for archiving without blocking the caller.
func (a *TickArchiver) Enqueue(q quotev1.Quote) {
	select {
	case a.ticks <- q:
	default:
		a.logger.Warn("Tick archive buffer full, dropping tick", logger.Field{
			Key:   "pair",
			Value: q.Pair,
		})
	}
}

func (a *TickArchiver) run(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.finalFlush()
			return
		case <-a.quit:
			a.finalFlush()
			return
		case q := <-a.ticks:
			a.append(q)
			if len(a.batch) == cap(a.batch) {
				a.flush(ctx)
			}
		case <-ticker.C:
			a.flush(ctx)
		}
	}
}

func (a *TickArchiver) append(q quotev1.Quote) {
	row := &tick.Tick{}
	row.FromQuote(&q)
	a.batch = append(a.batch, row)
}

func (a *TickArchiver) flush(ctx context.Context) {
	if len(a.batch) == 0 {
		return
	}

	if err := a.repo.StoreBatch(ctx, a.batch); err != nil {
		a.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "archive_ticks"},
			logger.Field{Key: "count", Value: len(a.batch)},
		)
	}
	a.batch = a.batch[:0]
}

// finalFlush empties the intake channel and writes whatever is left,
// with its own deadline so shutdown cannot hang on a dead database.
func (a *TickArchiver) finalFlush() {
	for {
		select {
		case q := <-a.ticks:
			a.append(q)
		default:
			ctx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
			defer cancel()
			a.flush(ctx)
			return
		}
	}
}
