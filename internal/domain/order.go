package domain

import (
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// Opposite returns the side an incoming order crosses against.
// ErrUnknownSide is a programmer error and should be unreachable with
// validated input.
func (s Side) Opposite() (Side, error) {
	switch s {
	case Buy:
		return Sell, nil
	case Sell:
		return Buy, nil
	default:
		return "", ErrUnknownSide
	}
}

// Order is a single resting or incoming order. Identity is the id alone;
// id, symbol and side never change after creation. Price and quantity are
// mutated concurrently by matchers and by modify, so they live in atomic
// cells. Compound mutations (fill step, modify, remove) must additionally
// hold the order's lock from locks.Registry.
type Order struct {
	ID     uint64
	Symbol string
	Side   Side

	price    AtomicDecimal
	quantity atomic.Int64

	// arrival is unix nanos; rewritten only by a price-changing modify,
	// which forfeits the order's time priority.
	arrival atomic.Int64

	modifications atomic.Int32
}

func NewOrder(id uint64, symbol string, side Side, price decimal.Decimal, quantity int64) *Order {
	o := &Order{
		ID:     id,
		Symbol: symbol,
		Side:   side,
	}
	o.price.Store(price)
	o.quantity.Store(quantity)
	o.arrival.Store(time.Now().UnixNano())
	return o
}

func (o *Order) Price() decimal.Decimal { return o.price.Load() }

func (o *Order) SetPrice(p decimal.Decimal) { o.price.Store(p) }

func (o *Order) Quantity() int64 { return o.quantity.Load() }

func (o *Order) SetQuantity(q int64) { o.quantity.Store(q) }

// TakeUpTo atomically consumes at most qty from the remaining quantity and
// returns the amount actually taken. The remainder never drops below zero,
// regardless of concurrent takers.
func (o *Order) TakeUpTo(qty int64) int64 {
	for {
		cur := o.quantity.Load()
		if cur <= 0 || qty <= 0 {
			return 0
		}
		take := min(cur, qty)
		if o.quantity.CompareAndSwap(cur, cur-take) {
			return take
		}
	}
}

// Refund hands back quantity taken by TakeUpTo when the counterparty could
// not supply the full amount.
func (o *Order) Refund(qty int64) { o.quantity.Add(qty) }

func (o *Order) ArrivalTime() time.Time { return time.Unix(0, o.arrival.Load()) }

// Restamp moves the order to a fresh arrival position. Called only on a
// price-changing modify, under the order's lock.
func (o *Order) Restamp() { o.arrival.Store(time.Now().UnixNano()) }

func (o *Order) Modifications() int32 { return o.modifications.Load() }

func (o *Order) RecordModification() { o.modifications.Add(1) }

// Before reports whether o has time priority over other within a price
// level: earlier arrival first, id breaking exact-timestamp ties.
func (o *Order) Before(other *Order) bool {
	a, b := o.arrival.Load(), other.arrival.Load()
	if a != b {
		return a < b
	}
	return o.ID < other.ID
}
