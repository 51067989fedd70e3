package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/order-sync/internal/countdown"
	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/mutator"
	"github.com/Gunvolt24/order-sync/internal/notify"
	"github.com/Gunvolt24/order-sync/internal/poller"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/internal/snapshot"
)

// Проверка, что Engine удовлетворяет порту движка.
var _ ports.SyncEngine = (*Engine)(nil)

// Options — параметры одного экземпляра движка (одна активная сессия просмотра).
type Options struct {
	Scope           domain.Scope
	FetchTimeout    time.Duration
	MutationTimeout time.Duration
	PendingTTL      time.Duration
	CountdownTick   time.Duration
	Now             func() time.Time
}

// Engine — движок синхронизации статусов заказов: опрос, оптимистичные мутации,
// баннер и уведомления, обратный отсчёт.
type Engine struct {
	log     ports.Logger
	now     func() time.Time
	store   *snapshot.Store
	poller  *poller.Poller
	mutator *mutator.Mutator
	notify  *notify.Emitter
	clock   *countdown.Driver

	stopped atomic.Bool
}

// NewSyncEngine — DI-конструктор. validator может быть nil.
func NewSyncEngine(
	gateway ports.OrderGateway,
	validator ports.OrderValidator,
	log ports.Logger,
	opts Options,
) (*Engine, error) {
	if gateway == nil {
		return nil, fmt.Errorf("new sync engine: %w: gateway is required", domain.ErrInvalidInput)
	}
	if !opts.Scope.Role.Valid() {
		return nil, fmt.Errorf("new sync engine: %w: role %q", domain.ErrInvalidInput, opts.Scope.Role)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := &Engine{log: log, now: opts.Now}
	e.store = snapshot.New(opts.PendingTTL, opts.Now)
	e.notify = notify.New(opts.Scope.Role, log, opts.Now)
	e.poller = poller.New(gateway, validator, e.store, e, log, poller.Config{
		Scope:        opts.Scope,
		FetchTimeout: opts.FetchTimeout,
		Now:          opts.Now,
	})
	e.mutator = mutator.New(gateway, e.store, opts.Scope.Role, log, opts.MutationTimeout, mutator.Hooks{
		Resync:  e.poller.RefreshNow,
		Failed:  e.notify.MutationFailed,
		Stopped: e.stopped.Load,
		Applied: e.wakeClock,
	})
	e.clock = countdown.NewDriver(opts.CountdownTick, e.store.Snapshot, e.onTick, opts.Now)
	return e, nil
}

// Start — запускает опрос с периодом interval и обратный отсчёт. Идемпотентен.
func (e *Engine) Start(interval time.Duration) {
	e.stopped.Store(false)
	e.poller.Start(interval)
	e.clock.Start()
}

// Stop — останавливает таймеры опроса и отсчёта. Мутации в полёте завершаются,
// их результат отбрасывается.
func (e *Engine) Stop() {
	e.stopped.Store(true)
	e.poller.Stop()
	e.clock.Stop()
}

// Wait — дожидается мутаций в полёте (для корректного завершения процесса).
func (e *Engine) Wait() { e.mutator.Wait() }

// RefreshNow — внеочередной опрос.
func (e *Engine) RefreshNow(ctx context.Context) error { return e.poller.RefreshNow(ctx) }

// LastSyncFailed — флаг «последняя синхронизация не удалась».
func (e *Engine) LastSyncFailed() (bool, error) { return e.poller.LastSyncFailed() }

// Snapshot — текущий снимок заказов.
func (e *Engine) Snapshot() []domain.Order { return e.store.Snapshot() }

// Order — заказ из снимка.
func (e *Engine) Order(id string) (domain.Order, bool) { return e.store.Get(id) }

// Countdown — остаток до готовности заказа; false, если отсчёт к нему не применим.
func (e *Engine) Countdown(id string) (countdown.Value, bool) {
	o, ok := e.store.Get(id)
	if !ok {
		return countdown.Value{}, false
	}
	return countdown.ForOrder(&o, e.now())
}

// RequestTransition — оптимистичная смена статуса (только администратор).
func (e *Engine) RequestTransition(ctx context.Context, orderID string, status domain.Status, extra *domain.StatusExtra) (<-chan error, error) {
	return e.mutator.RequestTransition(ctx, orderID, status, extra)
}

// Banner — текущий баннер или nil.
func (e *Engine) Banner() *domain.Banner { return e.notify.Banner() }

// DismissBanner — скрывает баннер.
func (e *Engine) DismissBanner() { e.notify.DismissBanner() }

// Notifications — записи уведомлений, новые первыми.
func (e *Engine) Notifications() []domain.Notification { return e.notify.List() }

// UnreadCount — число непрочитанных записей.
func (e *Engine) UnreadCount() int { return e.notify.UnreadCount() }

// MarkAsRead — отмечает запись прочитанной; false, если записи нет.
func (e *Engine) MarkAsRead(id string) bool { return e.notify.MarkAsRead(id) }

// Clear — удаляет запись; false, если записи нет.
func (e *Engine) Clear(id string) bool { return e.notify.Clear(id) }

// Subscribe — подписка на обновления; возвращает функцию отписки.
func (e *Engine) Subscribe(fn func(domain.Update)) func() { return e.notify.Subscribe(fn) }

// Push — уведомление от хоста (сообщение, отзыв).
func (e *Engine) Push(kind domain.NotificationKind, orderID, title, body string) domain.Notification {
	return e.notify.Push(kind, orderID, title, body)
}

// HandleCycle — результат цикла опроса: уведомления и пересмотр отсчёта.
func (e *Engine) HandleCycle(ctx context.Context, res domain.CycleResult) {
	e.notify.HandleCycle(ctx, res)
	e.wakeClock()
}

// HandleSyncFailure — сбой цикла опроса.
func (e *Engine) HandleSyncFailure(ctx context.Context, err error) {
	e.log.Warnf(ctx, "sync failed: %v", err)
	e.notify.HandleSyncFailure(ctx, err)
}

func (e *Engine) wakeClock() { e.clock.Wake() }

func (e *Engine) onTick(now time.Time, values map[string]countdown.Value) {
	rendered := make(map[string]string, len(values))
	for id, v := range values {
		rendered[id] = v.String()
	}
	e.notify.Publish(domain.Update{Kind: domain.UpdateCountdown, Countdown: rendered, At: now})
}
