package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divitngoc/order-handler/internal/domain"
	"github.com/divitngoc/order-handler/internal/port"
)

var _ port.Repository = (*Repo)(nil)

// Repo journals orders and trades to postgres. The book is never rebuilt
// from these tables; they exist for downstream consumers.
type Repo struct {
	pool *pgxpool.Pool
}

// call Close when finished working with the database.
func NewRepo(ctx context.Context, dsn string) (*Repo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func (r *Repo) SaveOrder(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return errors.New("nil order")
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO orders(id, symbol, side, price, quantity, arrival_time, modifications)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  price = EXCLUDED.price,
  quantity = EXCLUDED.quantity,
  arrival_time = EXCLUDED.arrival_time,
  modifications = EXCLUDED.modifications
`, int64(o.ID), o.Symbol, string(o.Side), o.Price(), o.Quantity(), o.ArrivalTime(), o.Modifications())
	return err
}

func (r *Repo) SaveTrade(ctx context.Context, t *domain.Trade) error {
	if t == nil {
		return errors.New("nil trade")
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO trades(id, symbol, buy_order, sell_order, price, quantity, executed_at)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO NOTHING
`, t.ID, t.Symbol, int64(t.BuyOrder), int64(t.SellOrder), t.Price, t.Quantity, t.Timestamp)
	return err
}

func (r *Repo) LoadTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, symbol, buy_order, sell_order, price, quantity, executed_at
FROM trades
WHERE buy_order = $1 OR sell_order = $1
ORDER BY executed_at ASC
`, int64(orderID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		var buy, sell int64
		if err := rows.Scan(&t.ID, &t.Symbol, &buy, &sell, &t.Price, &t.Quantity, &t.Timestamp); err != nil {
			return nil, err
		}
		t.BuyOrder, t.SellOrder = uint64(buy), uint64(sell)
		res = append(res, &t)
	}
	return res, rows.Err()
}
