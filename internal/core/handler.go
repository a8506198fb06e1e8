package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/divitngoc/order-handler/internal/book"
	"github.com/divitngoc/order-handler/internal/domain"
	"github.com/divitngoc/order-handler/internal/locks"
	"github.com/divitngoc/order-handler/internal/metrics"
	"github.com/divitngoc/order-handler/internal/port"
)

// maxModifications caps how often a resting order may be amended; an order
// already carrying more than this many modifications is rejected.
const maxModifications = 4

// Submitter hands an accepted order to the matching pool.
type Submitter interface {
	Submit(ctx context.Context, o *domain.Order) error
}

// Handler is the public entry point for order flow: add, modify, remove
// and price quotes. It owns no goroutines; matching runs wherever the
// injected Submitter delivers orders.
type Handler struct {
	books   *book.Registry
	locks   *locks.Registry
	submit  Submitter
	repo    port.Repository
	cache   port.Cache
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewHandler(books *book.Registry, lockReg *locks.Registry, submit Submitter, repo port.Repository, cache port.Cache, m *metrics.Metrics, log *zap.Logger) *Handler {
	return &Handler{
		books:   books,
		locks:   lockReg,
		submit:  submit,
		repo:    repo,
		cache:   cache,
		metrics: m,
		log:     log,
	}
}

// Add inserts the order into its symbol's book and submits it for
// matching. The order rests at its price until crossed or cancelled.
func (h *Handler) Add(ctx context.Context, o *domain.Order) error {
	if !o.Side.Valid() {
		return domain.ErrUnknownSide
	}
	if o.Quantity() <= 0 {
		return fmt.Errorf("order %d: quantity must be positive", o.ID)
	}

	b := h.books.GetOrCreate(o.Symbol)
	if err := b.Insert(o); err != nil {
		return err
	}
	h.log.Debug("order added",
		zap.Uint64("order_id", o.ID),
		zap.String("symbol", o.Symbol),
		zap.String("side", string(o.Side)),
		zap.String("price", o.Price().String()),
		zap.Int64("quantity", o.Quantity()),
	)
	h.metrics.OrderSubmitted()

	if h.repo != nil {
		_ = h.repo.SaveOrder(ctx, o)
	}
	h.refreshCache(ctx, b)

	return h.submit.Submit(ctx, o)
}

// Modify amends an order's quantity in place, keeping its time priority.
// A price change re-inserts the order at a fresh arrival position and
// re-enters matching as if newly added. Modifying an order that has left
// the book is a benign no-op; exceeding the modification budget returns
// ErrModificationLimit with the book untouched.
func (h *Handler) Modify(ctx context.Context, existing, replacement *domain.Order) error {
	mu := h.locks.Acquire(existing.ID)
	mu.Lock()

	b := h.books.GetOrCreate(existing.Symbol)
	if !b.Exists(existing) {
		mu.Unlock()
		h.log.Debug("order no longer in book, modify skipped", zap.Uint64("order_id", existing.ID))
		return nil
	}
	if existing.Modifications() > maxModifications {
		mu.Unlock()
		return domain.ErrModificationLimit
	}

	existing.RecordModification()
	existing.SetQuantity(replacement.Quantity())

	priceChanged := !existing.Price().Equal(replacement.Price())
	if priceChanged {
		b.Remove(existing)
		existing.SetPrice(replacement.Price())
		existing.Restamp()
		if err := b.Insert(existing); err != nil {
			mu.Unlock()
			return err
		}
	}
	h.log.Debug("order modified",
		zap.Uint64("order_id", existing.ID),
		zap.String("price", existing.Price().String()),
		zap.Int64("quantity", existing.Quantity()),
		zap.Bool("price_changed", priceChanged),
	)
	h.metrics.OrderModified()
	mu.Unlock()

	if h.repo != nil {
		_ = h.repo.SaveOrder(ctx, existing)
	}
	h.refreshCache(ctx, b)

	if priceChanged {
		// Priority was forfeited; the order matches again as a fresh add.
		return h.submit.Submit(ctx, existing)
	}
	return nil
}

// Remove excises the order from its book. Removing an order already gone
// is a no-op.
func (h *Handler) Remove(ctx context.Context, o *domain.Order) {
	mu := h.locks.Acquire(o.ID)
	mu.Lock()
	defer mu.Unlock()

	b, ok := h.books.Get(o.Symbol)
	if !ok {
		return
	}
	if !b.Remove(o) {
		h.log.Debug("order already removed", zap.Uint64("order_id", o.ID))
		return
	}
	h.log.Debug("order removed", zap.Uint64("order_id", o.ID))
	h.metrics.OrderCancelled()
	h.refreshCache(ctx, b)
}

// Quote walks the same-side ladder best price first and returns the
// volume-weighted average price for the requested quantity, rounded to 4
// decimal places half-up. When the ladder cannot supply the full quantity
// the sum is still divided by the requested quantity, understating the
// price on a thin book; callers depend on that historical behaviour.
func (h *Handler) Quote(symbol string, quantity int64, side domain.Side) (decimal.Decimal, error) {
	if !side.Valid() {
		return decimal.Zero, domain.ErrUnknownSide
	}
	if quantity <= 0 {
		return decimal.Zero, fmt.Errorf("quote quantity must be positive, got %d", quantity)
	}

	levels, err := h.books.GetOrCreate(symbol).Summaries(side)
	if err != nil {
		return decimal.Zero, err
	}

	remaining := quantity
	total := decimal.Zero
	for _, level := range levels {
		take := min(level.Quantity, remaining)
		if take <= 0 {
			continue
		}
		total = total.Add(level.Price.Mul(decimal.NewFromInt(take)))
		remaining -= take
		if remaining == 0 {
			break
		}
	}
	return total.DivRound(decimal.NewFromInt(quantity), 4), nil
}

// Snapshot exposes per-level depth for one symbol, best price first on
// both sides. The cached copy is served when present; a miss or cache
// error falls back to the live ladders.
func (h *Handler) Snapshot(ctx context.Context, symbol string) (domain.BookSnapshot, bool) {
	if h.cache != nil {
		if snap, err := h.cache.GetBook(ctx, symbol); err == nil && snap != nil {
			return *snap, true
		}
	}
	b, ok := h.books.Get(symbol)
	if !ok {
		return domain.BookSnapshot{}, false
	}
	return b.Snapshot(), true
}

func (h *Handler) refreshCache(ctx context.Context, b *book.OrderBook) {
	if h.cache == nil {
		return
	}
	snap := b.Snapshot()
	_ = h.cache.SetBook(ctx, b.Symbol(), &snap)
}
