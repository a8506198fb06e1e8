package domain

import (
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// AtomicDecimal is a decimal value with atomic load/store semantics, so a
// reader never observes a torn price while another goroutine rewrites it.
type AtomicDecimal struct {
	p atomic.Pointer[decimal.Decimal]
}

func (a *AtomicDecimal) Load() decimal.Decimal {
	d := a.p.Load()
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func (a *AtomicDecimal) Store(d decimal.Decimal) {
	a.p.Store(&d)
}
