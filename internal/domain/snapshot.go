package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LevelSummary is the read-only view of one price level: enough for a
// renderer or downstream consumer to show depth without touching orders.
type LevelSummary struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	OrderCount int             `json:"order_count"`
}

// BookSnapshot summarises both ladders best-price-first.
type BookSnapshot struct {
	Symbol    string         `json:"symbol"`
	Bids      []LevelSummary `json:"bids"`
	Asks      []LevelSummary `json:"asks"`
	Timestamp time.Time      `json:"timestamp"`
}
