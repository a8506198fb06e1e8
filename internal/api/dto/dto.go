package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/divitngoc/order-handler/internal/domain"
)

type SubmitOrderRequest struct {
	Symbol   string          `json:"symbol" binding:"required"`
	Side     domain.Side     `json:"side" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity" binding:"required"`
}

type SubmitOrderResponse struct {
	OrderID  uint64          `json:"order_id"`
	Symbol   string          `json:"symbol"`
	Side     domain.Side     `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

type ModifyOrderRequest struct {
	OrderID  uint64          `json:"order_id" binding:"required"`
	NewPrice decimal.Decimal `json:"new_price"`
	NewQty   int64           `json:"new_qty" binding:"required"`
}

type ModifyOrderResponse struct {
	OrderID  uint64 `json:"order_id"`
	Modified bool   `json:"modified"`
	Message  string `json:"message,omitempty"`
}

type CancelOrderRequest struct {
	OrderID uint64 `json:"order_id" binding:"required"`
}

type CancelOrderResponse struct {
	OrderID   uint64 `json:"order_id"`
	Cancelled bool   `json:"cancelled"`
}

type QuoteResponse struct {
	Symbol   string          `json:"symbol"`
	Side     domain.Side     `json:"side"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Level struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	OrderCount int             `json:"order_count"`
}

type GetOrderbookResponse struct {
	Symbol    string    `json:"symbol"`
	Bids      []Level   `json:"bids"`
	Asks      []Level   `json:"asks"`
	Timestamp time.Time `json:"timestamp"`
}

type GetTradesResponse struct {
	Trades []Trade `json:"trades"`
}

type Trade struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	BuyOrder  uint64          `json:"buy_order"`
	SellOrder uint64          `json:"sell_order"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Timestamp time.Time       `json:"timestamp"`
}
