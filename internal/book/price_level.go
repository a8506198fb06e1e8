package book

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/divitngoc/order-handler/internal/domain"
)

// PriceLevel is the FIFO set of orders resting at one exact price, kept in
// (arrivalTime, id) order. All methods are called with the owning ladder's
// lock held; the level itself carries no synchronisation.
type PriceLevel struct {
	price  decimal.Decimal
	orders []*domain.Order
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{price: price}
}

func (l *PriceLevel) Price() decimal.Decimal { return l.price }

func (l *PriceLevel) add(o *domain.Order) {
	i := sort.Search(len(l.orders), func(i int) bool {
		return o.Before(l.orders[i])
	})
	l.orders = append(l.orders, nil)
	copy(l.orders[i+1:], l.orders[i:])
	l.orders[i] = o
}

func (l *PriceLevel) remove(id uint64) bool {
	for i, o := range l.orders {
		if o.ID == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}

func (l *PriceLevel) contains(id uint64) bool {
	for _, o := range l.orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (l *PriceLevel) empty() bool { return len(l.orders) == 0 }

func (l *PriceLevel) snapshot() []*domain.Order {
	out := make([]*domain.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

func (l *PriceLevel) summary() domain.LevelSummary {
	var total int64
	for _, o := range l.orders {
		total += o.Quantity()
	}
	return domain.LevelSummary{
		Price:      l.price,
		Quantity:   total,
		OrderCount: len(l.orders),
	}
}
