package book

import (
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/divitngoc/order-handler/internal/domain"
)

const ladderDegree = 16

// ladder is one price-ordered side of a book. The mutex guards both the
// tree structure and every level's membership, so level creation and
// removal are atomic with the insert or remove that triggers them. Order
// quantities and prices are read through their atomic cells and are never
// torn mid-iteration.
type ladder struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[*PriceLevel]
}

func newLadder(less func(a, b *PriceLevel) bool) *ladder {
	return &ladder{tree: btree.NewG(ladderDegree, less)}
}

// Level is a coherent view of one price level, taken under the side lock.
// The order slice is a copy; entries may have been filled or removed by the
// time a caller acts on them and must be re-validated with Exists.
type Level struct {
	Price  decimal.Decimal
	Orders []*domain.Order
}

// OrderBook holds the two ladders for one symbol: bids best (highest) price
// first, asks best (lowest) price first.
type OrderBook struct {
	symbol string
	bids   *ladder
	asks   *ladder
}

func New(symbol string) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		bids: newLadder(func(a, b *PriceLevel) bool {
			return a.price.GreaterThan(b.price)
		}),
		asks: newLadder(func(a, b *PriceLevel) bool {
			return a.price.LessThan(b.price)
		}),
	}
}

func (b *OrderBook) Symbol() string { return b.symbol }

func (b *OrderBook) side(s domain.Side) (*ladder, error) {
	switch s {
	case domain.Buy:
		return b.bids, nil
	case domain.Sell:
		return b.asks, nil
	default:
		return nil, domain.ErrUnknownSide
	}
}

// Insert places the order into the level for its current price, creating
// the level when absent.
func (b *OrderBook) Insert(o *domain.Order) error {
	ld, err := b.side(o.Side)
	if err != nil {
		return err
	}
	ld.mu.Lock()
	defer ld.mu.Unlock()

	key := &PriceLevel{price: o.Price()}
	level, ok := ld.tree.Get(key)
	if !ok {
		level = newPriceLevel(o.Price())
		ld.tree.ReplaceOrInsert(level)
	}
	level.add(o)
	return nil
}

// Remove excises the order from the level keyed by its current price,
// dropping the level together with its last order. Removing an order that
// is no longer present is a no-op; concurrent matchers may have beaten us
// to it.
func (b *OrderBook) Remove(o *domain.Order) bool {
	ld, err := b.side(o.Side)
	if err != nil {
		return false
	}
	ld.mu.Lock()
	defer ld.mu.Unlock()

	key := &PriceLevel{price: o.Price()}
	level, ok := ld.tree.Get(key)
	if !ok {
		return false
	}
	if !level.remove(o.ID) {
		return false
	}
	if level.empty() {
		ld.tree.Delete(key)
	}
	return true
}

// Exists reports whether the order is still resting in the level keyed by
// its current price. Used to re-validate references fetched before a
// concurrency boundary.
func (b *OrderBook) Exists(o *domain.Order) bool {
	ld, err := b.side(o.Side)
	if err != nil {
		return false
	}
	ld.mu.RLock()
	defer ld.mu.RUnlock()

	level, ok := ld.tree.Get(&PriceLevel{price: o.Price()})
	return ok && level.contains(o.ID)
}

// LevelsFor yields the side's levels in matching priority order, best price
// first. Each Level is coherent at the moment it was read; the set as a
// whole is not a consistent snapshot.
func (b *OrderBook) LevelsFor(s domain.Side) ([]Level, error) {
	ld, err := b.side(s)
	if err != nil {
		return nil, err
	}
	ld.mu.RLock()
	defer ld.mu.RUnlock()

	levels := make([]Level, 0, ld.tree.Len())
	ld.tree.Ascend(func(l *PriceLevel) bool {
		levels = append(levels, Level{Price: l.price, Orders: l.snapshot()})
		return true
	})
	return levels, nil
}

// Summaries returns per-level depth for one side, best price first.
func (b *OrderBook) Summaries(s domain.Side) ([]domain.LevelSummary, error) {
	ld, err := b.side(s)
	if err != nil {
		return nil, err
	}
	ld.mu.RLock()
	defer ld.mu.RUnlock()

	out := make([]domain.LevelSummary, 0, ld.tree.Len())
	ld.tree.Ascend(func(l *PriceLevel) bool {
		out = append(out, l.summary())
		return true
	})
	return out, nil
}

// Snapshot summarises both sides for renderers and the HTTP API.
func (b *OrderBook) Snapshot() domain.BookSnapshot {
	bids, _ := b.Summaries(domain.Buy)
	asks, _ := b.Summaries(domain.Sell)
	return domain.BookSnapshot{
		Symbol:    b.symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: time.Now(),
	}
}
