package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one fill between an incoming and a resting order. The price is
// always the resting level's price.
type Trade struct {
	ID        string
	Symbol    string
	BuyOrder  uint64
	SellOrder uint64
	Price     decimal.Decimal
	Quantity  int64
	Timestamp time.Time
}
