package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipebite/backend/internal/logger"
)

type fakeFetcher struct {
	mu      sync.Mutex
	fetched []uuid.UUID
	missing []uuid.UUID
}

func (f *fakeFetcher) FetchAndStore(ctx context.Context, dishID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, dishID)
	return nil
}

func (f *fakeFetcher) MissingImageDishIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit < len(f.missing) {
		return f.missing[:limit], nil
	}
	return f.missing, nil
}

func (f *fakeFetcher) fetchedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPoolProcessesQueuedDishes(t *testing.T) {
	fetcher := &fakeFetcher{}
	pool := NewPool(fetcher, 2, 8, logger.NewNop())

	pool.Start(context.Background())
	defer pool.Shutdown()

	for i := 0; i < 5; i++ {
		require.True(t, pool.Enqueue(uuid.New()))
	}

	waitFor(t, func() bool { return fetcher.fetchedCount() == 5 })
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	fetcher := &fakeFetcher{}
	pool := NewPool(fetcher, 1, 2, logger.NewNop())

	// Workers not started, so the buffer is the only capacity.
	assert.True(t, pool.Enqueue(uuid.New()))
	assert.True(t, pool.Enqueue(uuid.New()))
	assert.False(t, pool.Enqueue(uuid.New()))
	assert.Equal(t, 2, pool.Pending())
}

func TestSweepQueuesMissingImages(t *testing.T) {
	fetcher := &fakeFetcher{missing: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}}
	pool := NewPool(fetcher, 1, 8, logger.NewNop())

	queued, err := pool.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, queued)
	assert.Equal(t, 3, pool.Pending())
}

func TestSweepStopsAtCapacity(t *testing.T) {
	fetcher := &fakeFetcher{missing: []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}}
	pool := NewPool(fetcher, 1, 2, logger.NewNop())

	queued, err := pool.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, queued)
}

func TestStartTwiceIsNoop(t *testing.T) {
	fetcher := &fakeFetcher{}
	pool := NewPool(fetcher, 1, 4, logger.NewNop())

	pool.Start(context.Background())
	pool.Start(context.Background())
	pool.Shutdown()

	// Shutdown after a double start must not hang or panic, and a
	// second shutdown is harmless.
	pool.Shutdown()
}
