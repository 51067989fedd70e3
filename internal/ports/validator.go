package ports

import (
	"context"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

// OrderValidator — проверка качества данных заказа, пришедшего от сервера.
type OrderValidator interface {
	Validate(ctx context.Context, order *domain.Order) error
}
