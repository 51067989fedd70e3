package ports

import (
	"context"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

// OrderGateway — доступ к данным заказов (удалённый API или БД).
// Таймауты — ответственность реализации; движок считает их обычной ошибкой.
type OrderGateway interface {
	// ListOrders — все заказы, видимые роли в рамках арендатора (и фильтра статусов, если задан).
	// Ошибки: domain.ErrTransport, domain.ErrUnauthorized.
	ListOrders(ctx context.Context, scope domain.Scope) ([]domain.Order, error)

	// UpdateOrderStatus — запросить смену статуса. Отказ сервера — *domain.RejectedError.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status, extra *domain.StatusExtra) error
}
