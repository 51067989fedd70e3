// Package mutator — оптимистичная смена статуса заказа администратором.
package mutator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/internal/snapshot"
	"github.com/Gunvolt24/order-sync/pkg/metrics"
	"github.com/Gunvolt24/order-sync/pkg/telemetry"
	"github.com/Gunvolt24/order-sync/pkg/validate"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout — таймаут запроса смены статуса по умолчанию.
const DefaultTimeout = 10 * time.Second

// Hooks — связь мутатора с остальным движком.
type Hooks struct {
	Resync  func(ctx context.Context) error                      // внеочередной опрос после отказа
	Failed  func(ctx context.Context, orderID string, err error) // уведомление подписчиков
	Stopped func() bool                                          // движок остановлен, результат не нужен
	Applied func()                                               // снимок изменился
}

// Mutator — применяет статус сразу, отправляет запрос асинхронно и сводит результат.
type Mutator struct {
	gateway ports.OrderGateway
	store   *snapshot.Store
	role    domain.Role
	log     ports.Logger
	timeout time.Duration
	hooks   Hooks

	wg sync.WaitGroup
}

// New — конструктор; timeout <= 0 означает DefaultTimeout.
func New(gateway ports.OrderGateway, store *snapshot.Store, role domain.Role, log ports.Logger, timeout time.Duration, hooks Hooks) *Mutator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Mutator{
		gateway: gateway,
		store:   store,
		role:    role,
		log:     log,
		timeout: timeout,
		hooks:   hooks,
	}
}

// RequestTransition — проверяет запрос, сразу показывает новый статус в снимке
// и отправляет его на сервер. Ошибка возвращается синхронно, если до снимка дело не дошло;
// итог сетевого запроса приходит в канал (ровно одно значение).
func (m *Mutator) RequestTransition(ctx context.Context, orderID string, status domain.Status, extra *domain.StatusExtra) (<-chan error, error) {
	if err := m.check(status, extra); err != nil {
		metrics.Mutations.WithLabelValues("rejected_local").Inc()
		return nil, err
	}
	if m.hooks.Stopped != nil && m.hooks.Stopped() {
		return nil, domain.ErrStopped
	}

	pm, err := m.store.Apply(domain.PendingMutation{OrderID: orderID, Requested: status, Extra: extra})
	if err != nil {
		metrics.Mutations.WithLabelValues("rejected_local").Inc()
		return nil, err
	}
	if m.hooks.Applied != nil {
		m.hooks.Applied()
	}

	result := make(chan error, 1)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		result <- m.issue(context.WithoutCancel(ctx), pm)
	}()
	return result, nil
}

// Wait — дожидается всех запросов, отправленных к этому моменту.
func (m *Mutator) Wait() { m.wg.Wait() }

func (m *Mutator) check(status domain.Status, extra *domain.StatusExtra) error {
	if m.role != domain.RoleAdmin {
		return fmt.Errorf("request transition: %w: role %q", domain.ErrForbidden, m.role)
	}
	if !domain.ClientRequestable(status) {
		return fmt.Errorf("request transition: %w: status %q is not requestable", domain.ErrInvalidInput, status)
	}
	if err := validate.StatusExtra(extra); err != nil {
		return fmt.Errorf("request transition: %w", err)
	}
	return nil
}

// issue — запрос на сервер и сведение результата:
// успех — мутация фиксируется; отказ — снимается, заказ показывает данные сервера,
// подписчики узнают об отказе, запускается внеочередной опрос.
// Если движок уже остановлен, результат отбрасывается без побочных эффектов.
func (m *Mutator) issue(ctx context.Context, pm domain.PendingMutation) error {
	ctx, span := telemetry.Tracer().Start(ctx, "order.update_status", trace.WithAttributes(
		attribute.String("order_sync.order_id", pm.OrderID),
		attribute.String("order_sync.status", string(pm.Requested)),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.gateway.UpdateOrderStatus(callCtx, pm.OrderID, pm.Requested, pm.Extra)
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update order status")
	}

	if m.hooks.Stopped != nil && m.hooks.Stopped() {
		metrics.Mutations.WithLabelValues("discarded").Inc()
		return domain.ErrStopped
	}

	if err == nil {
		m.store.Confirm(pm.OrderID, pm.Seq)
		metrics.Mutations.WithLabelValues("ok").Inc()
		m.log.Infof(ctx, "status updated order_id=%s status=%s", pm.OrderID, pm.Requested)
		return nil
	}

	metrics.Mutations.WithLabelValues("failed").Inc()
	if !m.store.Drop(pm.OrderID, pm.Seq) {
		// Мутацию уже заменила более новая; откатывать нечего.
		m.log.Infof(ctx, "stale status update result order_id=%s seq=%d: %v", pm.OrderID, pm.Seq, err)
		return fmt.Errorf("update order %s status: %w", pm.OrderID, err)
	}
	if m.hooks.Applied != nil {
		m.hooks.Applied()
	}

	if reason, ok := domain.RejectReason(err); ok {
		m.log.Warnf(ctx, "status update rejected order_id=%s status=%s reason=%s", pm.OrderID, pm.Requested, reason)
	} else {
		m.log.Warnf(ctx, "status update failed order_id=%s status=%s: %v", pm.OrderID, pm.Requested, err)
	}
	if m.hooks.Failed != nil {
		m.hooks.Failed(ctx, pm.OrderID, err)
	}
	if m.hooks.Resync != nil {
		if rerr := m.hooks.Resync(ctx); rerr != nil && !errors.Is(rerr, domain.ErrInFlight) {
			m.log.Warnf(ctx, "resync after failed update: %v", rerr)
		}
	}
	return fmt.Errorf("update order %s status: %w", pm.OrderID, err)
}
