package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/divitngoc/order-handler/internal/book"
	"github.com/divitngoc/order-handler/internal/domain"
	"github.com/divitngoc/order-handler/internal/locks"
	"github.com/divitngoc/order-handler/internal/metrics"
	"github.com/divitngoc/order-handler/internal/port"
)

// RemovedFunc is invoked whenever matching excises an order from its book,
// so an owning subsystem can react without the engine depending on it.
type RemovedFunc func(*domain.Order)

// TradeFunc receives every fill the engine produces.
type TradeFunc func(*domain.Trade)

// Matcher runs the price-time-priority crossing algorithm for one incoming
// order at a time. A crossing pair fills in exactly one direction: the
// incoming order only consumes resting orders that arrived before it, and
// the later arrival of any pair is the one that acts. It holds at most one
// resting order's lock at any moment, releasing it before moving to the
// next resting order, so no lock-ordering cycle can form between
// concurrent workers.
type Matcher struct {
	books   *book.Registry
	locks   *locks.Registry
	repo    port.Repository
	metrics *metrics.Metrics
	log     *zap.Logger

	onRemoved RemovedFunc
	onTrade   TradeFunc
}

func NewMatcher(books *book.Registry, lockReg *locks.Registry, repo port.Repository, m *metrics.Metrics, log *zap.Logger) *Matcher {
	return &Matcher{
		books:   books,
		locks:   lockReg,
		repo:    repo,
		metrics: m,
		log:     log,
	}
}

// OnRemoved registers the removed-order callback. Must be set before the
// matcher starts receiving orders.
func (m *Matcher) OnRemoved(fn RemovedFunc) { m.onRemoved = fn }

// OnTrade registers the fill callback. Must be set before the matcher
// starts receiving orders.
func (m *Matcher) OnTrade(fn TradeFunc) { m.onTrade = fn }

// Execute crosses the incoming order against the opposite ladder. Any
// unfilled remainder stays resting at the order's own price and arrival
// slot. Stale incoming orders (already cancelled or filled elsewhere) are
// skipped silently.
func (m *Matcher) Execute(ctx context.Context, o *domain.Order) {
	b, ok := m.books.Get(o.Symbol)
	if !ok {
		return
	}
	if !b.Exists(o) {
		m.log.Debug("incoming order no longer in book, skipping match", zap.Uint64("order_id", o.ID))
		return
	}

	opposite, err := o.Side.Opposite()
	if err != nil {
		m.log.Error("order with unknown side reached matcher", zap.Uint64("order_id", o.ID), zap.Error(err))
		return
	}
	levels, err := b.LevelsFor(opposite)
	if err != nil {
		m.log.Error("cannot walk opposite ladder", zap.Uint64("order_id", o.ID), zap.Error(err))
		return
	}

	for _, level := range levels {
		if !priceMatch(level.Price, o) {
			// Levels arrive best-first, so nothing further can match.
			return
		}
		if !m.fillAtLevel(ctx, b, o, level) {
			return
		}
	}
}

// fillAtLevel consumes resting orders at one matching level in strict
// (arrivalTime, id) order. It reports whether the incoming order still has
// quantity left for worse levels.
//
// The incoming order's lock is never held here, so its quantity is only
// touched through bounded atomic takes: no interleaving with the workers
// that treat it as a resting order can overdraw either side.
func (m *Matcher) fillAtLevel(ctx context.Context, b *book.OrderBook, o *domain.Order, level book.Level) bool {
	for _, resting := range level.Orders {
		if !resting.Before(o) {
			// The younger order of a crossing pair is the one that acts;
			// this pair belongs to the resting order's own matching run.
			continue
		}
		mu := m.locks.Acquire(resting.ID)
		mu.Lock()
		if !b.Exists(resting) {
			// Cancelled or filled by a concurrent worker after our
			// level snapshot; expected, not an error.
			mu.Unlock()
			continue
		}

		restingQty := resting.Quantity()
		if restingQty <= 0 {
			if b.Remove(resting) {
				m.removed(resting)
			}
			mu.Unlock()
			continue
		}
		fill := o.TakeUpTo(restingQty)
		if fill == 0 {
			mu.Unlock()
			if b.Remove(o) {
				m.removed(o)
			}
			return false
		}
		got := resting.TakeUpTo(fill)
		if got < fill {
			// The resting order shrank between the reads; hand the
			// difference back to the incoming order.
			o.Refund(fill - got)
		}
		if got > 0 {
			m.emitTrade(ctx, o, resting, level.Price, got)
		}

		if resting.Quantity() == 0 {
			if b.Remove(resting) {
				m.removed(resting)
			}
		}
		if o.Quantity() == 0 {
			mu.Unlock()
			if b.Remove(o) {
				m.removed(o)
			}
			return false
		}
		mu.Unlock()
	}
	return true
}

func (m *Matcher) emitTrade(ctx context.Context, incoming, resting *domain.Order, price decimal.Decimal, qty int64) {
	t := &domain.Trade{
		ID:        uuid.NewString(),
		Symbol:    incoming.Symbol,
		Price:     price,
		Quantity:  qty,
		Timestamp: time.Now(),
	}
	if incoming.Side == domain.Buy {
		t.BuyOrder, t.SellOrder = incoming.ID, resting.ID
	} else {
		t.BuyOrder, t.SellOrder = resting.ID, incoming.ID
	}

	m.log.Info("trade executed",
		zap.Uint64("taker_id", incoming.ID),
		zap.Uint64("maker_id", resting.ID),
		zap.String("symbol", t.Symbol),
		zap.String("price", price.String()),
		zap.Int64("quantity", qty),
	)
	m.metrics.TradeExecuted(qty)

	if m.repo != nil {
		_ = m.repo.SaveTrade(ctx, t)
	}
	if m.onTrade != nil {
		m.onTrade(t)
	}
}

func (m *Matcher) removed(o *domain.Order) {
	m.metrics.OrderRemoved()
	if m.onRemoved != nil {
		m.onRemoved(o)
	}
}

// priceMatch reports whether a level can trade against the incoming order:
// for a BUY the level must be at or below the bid, for a SELL at or above
// the ask.
func priceMatch(levelPrice decimal.Decimal, o *domain.Order) bool {
	if o.Side == domain.Buy {
		return levelPrice.LessThanOrEqual(o.Price())
	}
	return levelPrice.GreaterThanOrEqual(o.Price())
}
