package core

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/divitngoc/order-handler/internal/domain"
)

// Dispatch decouples order ingestion from matching: accepted orders are
// queued and a pool of workers drains the queue, each running the matcher
// for one order at a time.
type Dispatch struct {
	matcher *Matcher
	queue   chan *domain.Order
	workers int
	log     *zap.Logger

	start sync.Once
	stop  sync.Once
	wg    sync.WaitGroup
}

func NewDispatch(matcher *Matcher, workers, queueSize int, log *zap.Logger) *Dispatch {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 500
	}
	return &Dispatch{
		matcher: matcher,
		queue:   make(chan *domain.Order, queueSize),
		workers: workers,
		log:     log,
	}
}

// Start launches the matching workers. Workers exit when the context is
// cancelled or the queue is closed via Stop.
func (d *Dispatch) Start(ctx context.Context) {
	d.start.Do(func() {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.worker(ctx, i)
		}
	})
}

func (d *Dispatch) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	d.log.Debug("matching worker started", zap.Int("worker", id))
	for {
		select {
		case <-ctx.Done():
			return
		case o, ok := <-d.queue:
			if !ok {
				return
			}
			d.matcher.Execute(ctx, o)
		}
	}
}

// Submit hands an order to the matching pool, blocking while the queue is
// full unless the context ends first.
func (d *Dispatch) Submit(ctx context.Context, o *domain.Order) error {
	select {
	case d.queue <- o:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the intake queue and waits for the workers to drain it.
func (d *Dispatch) Stop() {
	d.stop.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
