package port

import (
	"context"

	"github.com/divitngoc/order-handler/internal/domain"
)

type Cache interface {
	SetBook(ctx context.Context, symbol string, snap *domain.BookSnapshot) error
	GetBook(ctx context.Context, symbol string) (*domain.BookSnapshot, error)
}
