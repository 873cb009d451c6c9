// Package worker runs the background image pipeline: dish ids go in, a
// pool of workers fetches and stores photos for them.
package worker

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/swipebite/backend/internal/logger"
)

// ImageFetcher resolves and stores a photo for one dish.
type ImageFetcher interface {
	FetchAndStore(ctx context.Context, dishID uuid.UUID) error
	MissingImageDishIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// Pool is a fixed-size worker pool over a buffered dish-id queue. Enqueue
// never blocks; a full queue drops the id and the sweep picks the dish up
// later.
type Pool struct {
	fetcher ImageFetcher
	log     *logger.Logger
	queue   chan uuid.UUID
	workers int

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(fetcher ImageFetcher, workers, queueSize int, log *logger.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		fetcher: fetcher,
		log:     log,
		queue:   make(chan uuid.UUID, queueSize),
		workers: workers,
	}
}

// Start launches the workers. Calling Start twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
	p.log.Infow("image worker pool started", "workers", p.workers, "queue_size", cap(p.queue))
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case dishID := <-p.queue:
			if err := p.fetcher.FetchAndStore(ctx, dishID); err != nil {
				p.log.Warnw("dish image fetch failed", "dish_id", dishID, "error", err)
			}
		}
	}
}

// Enqueue submits a dish id for image fetching. Reports whether the
// queue accepted it.
func (p *Pool) Enqueue(dishID uuid.UUID) bool {
	select {
	case p.queue <- dishID:
		return true
	default:
		return false
	}
}

// Sweep queues every active dish still missing an image, up to the free
// queue capacity. Returns how many were queued.
func (p *Pool) Sweep(ctx context.Context) (int, error) {
	ids, err := p.fetcher.MissingImageDishIDs(ctx, cap(p.queue))
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, id := range ids {
		if !p.Enqueue(id) {
			break
		}
		queued++
	}
	if queued > 0 {
		p.log.Infow("image sweep queued dishes", "count", queued)
	}
	return queued, nil
}

// Pending returns how many dish ids are waiting in the queue.
func (p *Pool) Pending() int {
	return len(p.queue)
}

// Shutdown stops the workers and waits for in-flight fetches to finish.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}
