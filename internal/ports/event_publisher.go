package ports

import (
	"context"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

// EventPublisher — внешний приёмник событий движка (переходы, уведомления).
type EventPublisher interface {
	Publish(ctx context.Context, update domain.Update) error
	Close() error
}
