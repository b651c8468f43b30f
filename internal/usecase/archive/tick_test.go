package archive

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/internal/infrastructure/questdb/tick"
	tickMock "github.com/matyusmilan/xm-forex/internal/infrastructure/questdb/tick/mock"
	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type batchRecorder struct {
	mu      sync.Mutex
	batches [][]*tick.Tick
	err     error
}

func (r *batchRecorder) record(_ context.Context, ticks []*tick.Tick) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// The archiver reuses the batch slice after the call returns.
	r.batches = append(r.batches, append([]*tick.Tick(nil), ticks...))
	return r.err
}

func (r *batchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func (r *batchRecorder) batch(i int) []*tick.Tick {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[i]
}

func archiveQuote(pair string, bid, ask float64) quotev1.Quote {
	return quotev1.Quote{
		Pair:      pair,
		Bid:       bid,
		Ask:       ask,
		Timestamp: time.Now().UTC(),
	}
}

func TestTickArchiver_FlushesOnBatchSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tickMock.NewMockTickRepository(ctrl)
	recorder := &batchRecorder{}
	repo.EXPECT().StoreBatch(gomock.Any(), gomock.Any()).DoAndReturn(recorder.record)

	cfg := config.QuestDBConfig{BatchSize: 2, FlushInterval: time.Hour}
	archiver := NewTickArchiver(repo, cfg, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	archiver.Start(ctx)

	archiver.Enqueue(archiveQuote("EURUSD", 1.0998, 1.1002))
	archiver.Enqueue(archiveQuote("GBPUSD", 1.2697, 1.2703))

	assert.Eventually(t, func() bool {
		return recorder.count() == 1
	}, time.Second, 5*time.Millisecond)

	batch := recorder.batch(0)
	require.Len(t, batch, 2)
	assert.Equal(t, "EURUSD", batch[0].Pair)
	assert.Equal(t, 1.0998, batch[0].Bid)
	assert.Equal(t, 1.1002, batch[0].Ask)
	assert.Equal(t, "GBPUSD", batch[1].Pair)

	archiver.Stop()
}

func TestTickArchiver_FlushesOnInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tickMock.NewMockTickRepository(ctrl)
	recorder := &batchRecorder{}
	repo.EXPECT().StoreBatch(gomock.Any(), gomock.Any()).DoAndReturn(recorder.record).MinTimes(1)

	cfg := config.QuestDBConfig{BatchSize: 100, FlushInterval: 20 * time.Millisecond}
	archiver := NewTickArchiver(repo, cfg, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	archiver.Start(ctx)

	archiver.Enqueue(archiveQuote("EURUSD", 1.0998, 1.1002))

	assert.Eventually(t, func() bool {
		return recorder.count() >= 1
	}, time.Second, 5*time.Millisecond)

	require.Len(t, recorder.batch(0), 1)
	assert.Equal(t, "EURUSD", recorder.batch(0)[0].Pair)

	archiver.Stop()
}

func TestTickArchiver_StopFlushesRemainder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tickMock.NewMockTickRepository(ctrl)
	recorder := &batchRecorder{}
	repo.EXPECT().StoreBatch(gomock.Any(), gomock.Any()).DoAndReturn(recorder.record)

	cfg := config.QuestDBConfig{BatchSize: 100, FlushInterval: time.Hour}
	archiver := NewTickArchiver(repo, cfg, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	archiver.Start(ctx)

	archiver.Enqueue(archiveQuote("EURUSD", 1.0998, 1.1002))
	archiver.Enqueue(archiveQuote("GBPUSD", 1.2697, 1.2703))
	archiver.Enqueue(archiveQuote("USDJPY", 154.98, 155.04))

	archiver.Stop()

	require.Equal(t, 1, recorder.count())
	assert.Len(t, recorder.batch(0), 3)
}

func TestTickArchiver_StopWithEmptyBufferSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tickMock.NewMockTickRepository(ctrl)

	cfg := config.QuestDBConfig{BatchSize: 100, FlushInterval: time.Hour}
	archiver := NewTickArchiver(repo, cfg, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	archiver.Start(ctx)
	archiver.Stop()
}

func TestTickArchiver_SurvivesRepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tickMock.NewMockTickRepository(ctrl)
	recorder := &batchRecorder{err: errors.New("connection refused")}
	repo.EXPECT().StoreBatch(gomock.Any(), gomock.Any()).DoAndReturn(recorder.record).Times(2)

	cfg := config.QuestDBConfig{BatchSize: 1, FlushInterval: time.Hour}
	archiver := NewTickArchiver(repo, cfg, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	archiver.Start(ctx)

	archiver.Enqueue(archiveQuote("EURUSD", 1.0998, 1.1002))
	archiver.Enqueue(archiveQuote("GBPUSD", 1.2697, 1.2703))

	assert.Eventually(t, func() bool {
		return recorder.count() == 2
	}, time.Second, 5*time.Millisecond)

	archiver.Stop()
}
