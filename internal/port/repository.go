package port

import (
	"context"

	"github.com/divitngoc/order-handler/internal/domain"
)

// Repository journals accepted orders and executed trades for downstream
// consumers. The book itself is never rebuilt from storage.
type Repository interface {
	SaveOrder(ctx context.Context, o *domain.Order) error
	SaveTrade(ctx context.Context, t *domain.Trade) error
	LoadTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error)
}
