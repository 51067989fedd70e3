package ports

import (
	"context"
	"time"

	"github.com/Gunvolt24/order-sync/internal/countdown"
	"github.com/Gunvolt24/order-sync/internal/domain"
)

// SyncEngine — то, что движок синхронизации отдаёт хосту (UI, HTTP).
type SyncEngine interface {
	Start(interval time.Duration)
	Stop()
	RefreshNow(ctx context.Context) error
	LastSyncFailed() (bool, error)

	Snapshot() []domain.Order
	Order(id string) (domain.Order, bool)
	Countdown(id string) (countdown.Value, bool)

	RequestTransition(ctx context.Context, orderID string, status domain.Status, extra *domain.StatusExtra) (<-chan error, error)

	Banner() *domain.Banner
	DismissBanner()
	Notifications() []domain.Notification
	UnreadCount() int
	MarkAsRead(id string) bool
	Clear(id string) bool
	Push(kind domain.NotificationKind, orderID, title, body string) domain.Notification

	Subscribe(fn func(domain.Update)) (unsubscribe func())
}
