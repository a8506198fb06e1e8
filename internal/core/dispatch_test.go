package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/divitngoc/order-handler/internal/book"
	"github.com/divitngoc/order-handler/internal/domain"
	"github.com/divitngoc/order-handler/internal/locks"
)

func TestDispatchDrainsConcurrentSubmissions(t *testing.T) {
	books := book.NewRegistry()
	lockReg := locks.NewRegistry()
	matcher := NewMatcher(books, lockReg, nil, nil, zap.NewNop())

	var traded atomic.Int64
	matcher.OnTrade(func(tr *domain.Trade) { traded.Add(tr.Quantity) })

	dispatch := NewDispatch(matcher, 4, 64, zap.NewNop())
	handler := NewHandler(books, lockReg, dispatch, nil, nil, nil, zap.NewNop())

	ctx := context.Background()
	dispatch.Start(ctx)

	// makers first: an incoming order only consumes resting orders that
	// arrived before it, so the sells must all be in the book before the
	// buys start acting.
	const pairs = 50
	var wg sync.WaitGroup
	for i := 0; i < pairs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, handler.Add(ctx, newOrder(domain.Sell, 51, 1)))
		}()
	}
	wg.Wait()
	for i := 0; i < pairs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, handler.Add(ctx, newOrder(domain.Buy, 51, 1)))
		}()
	}
	wg.Wait()
	dispatch.Stop()

	// every unit of sell interest meets a unit of buy interest
	require.EqualValues(t, pairs, traded.Load())

	snap := books.GetOrCreate("IGG").Snapshot()
	require.Empty(t, snap.Bids)
	require.Empty(t, snap.Asks)
}

func TestDispatchSubmitHonoursContext(t *testing.T) {
	matcher := NewMatcher(book.NewRegistry(), locks.NewRegistry(), nil, nil, zap.NewNop())
	dispatch := NewDispatch(matcher, 1, 1, zap.NewNop())
	// never started: the queue fills and the second submit must block
	ctx := context.Background()
	require.NoError(t, dispatch.Submit(ctx, newOrder(domain.Buy, 10, 1)))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := dispatch.Submit(cancelled, newOrder(domain.Buy, 10, 1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDispatchStopIsIdempotent(t *testing.T) {
	matcher := NewMatcher(book.NewRegistry(), locks.NewRegistry(), nil, nil, zap.NewNop())
	dispatch := NewDispatch(matcher, 2, 8, zap.NewNop())
	dispatch.Start(context.Background())

	done := make(chan struct{})
	go func() {
		dispatch.Stop()
		dispatch.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
