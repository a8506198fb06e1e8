package in_memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/divitngoc/order-handler/internal/domain"
)

func TestRepoIndexesTradesByBothSides(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	tr := &domain.Trade{
		ID:        "t-1",
		Symbol:    "IGG",
		BuyOrder:  1,
		SellOrder: 2,
		Price:     decimal.NewFromInt(50),
		Quantity:  10,
		Timestamp: time.Now(),
	}
	require.NoError(t, repo.SaveTrade(ctx, tr))

	for _, id := range []uint64{1, 2} {
		trades, err := repo.LoadTradesForOrder(ctx, id)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		require.Equal(t, "t-1", trades[0].ID)
	}

	trades, err := repo.LoadTradesForOrder(ctx, 99)
	require.NoError(t, err)
	require.Empty(t, trades)
}

func TestRepoSaveOrderOverwrites(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	o := domain.NewOrder(7, "IGG", domain.Buy, decimal.NewFromInt(10), 5)
	require.NoError(t, repo.SaveOrder(ctx, o))
	require.NoError(t, repo.SaveOrder(ctx, o))
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	snap, err := cache.GetBook(ctx, "IGG")
	require.NoError(t, err)
	require.Nil(t, snap)

	in := &domain.BookSnapshot{
		Symbol: "IGG",
		Bids:   []domain.LevelSummary{{Price: decimal.NewFromInt(50), Quantity: 10, OrderCount: 1}},
	}
	require.NoError(t, cache.SetBook(ctx, "IGG", in))

	out, err := cache.GetBook(ctx, "IGG")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.NotSame(t, in, out)
	require.Equal(t, "IGG", out.Symbol)
	require.Len(t, out.Bids, 1)
}
