package in_memory

import (
	"context"
	"sync"

	"github.com/divitngoc/order-handler/internal/domain"
	"github.com/divitngoc/order-handler/internal/port"
)

var _ port.Repository = (*Repo)(nil)

// Repo keeps the order/trade journal in process memory. Used in tests and
// when no postgres DSN is configured.
type Repo struct {
	mu     sync.Mutex
	orders map[uint64]*domain.Order
	trades map[uint64][]*domain.Trade
}

func NewRepo() *Repo {
	return &Repo{
		orders: make(map[uint64]*domain.Order),
		trades: make(map[uint64][]*domain.Trade),
	}
}

func (r *Repo) SaveOrder(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
	return nil
}

func (r *Repo) SaveTrade(ctx context.Context, t *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades[t.BuyOrder] = append(r.trades[t.BuyOrder], t)
	r.trades[t.SellOrder] = append(r.trades[t.SellOrder], t)
	return nil
}

func (r *Repo) LoadTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trades := make([]*domain.Trade, len(r.trades[orderID]))
	copy(trades, r.trades[orderID])
	return trades, nil
}
