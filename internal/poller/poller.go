// Package poller — периодический опрос API заказов, сверка снимков и события смены статуса.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/internal/snapshot"
	"github.com/Gunvolt24/order-sync/pkg/ctxmeta"
	"github.com/Gunvolt24/order-sync/pkg/metrics"
	"github.com/Gunvolt24/order-sync/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Sink — получатель результатов циклов (уведомления, счётчик обратного отсчёта).
type Sink interface {
	HandleCycle(ctx context.Context, res domain.CycleResult)
	HandleSyncFailure(ctx context.Context, err error)
}

// Config — параметры опроса.
type Config struct {
	Scope        domain.Scope
	FetchTimeout time.Duration // 0 — полагаемся на таймаут самого шлюза
	Now          func() time.Time
}

// Poller — цикл fetch-and-diff одной сессии.
type Poller struct {
	gateway   ports.OrderGateway
	validator ports.OrderValidator
	store     *snapshot.Store
	sink      Sink
	log       ports.Logger
	cfg       Config

	inFlight atomic.Bool

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	failMu   sync.Mutex
	lastErr  error
	lastFail bool
}

// New — конструктор. validator и sink могут быть nil.
func New(gateway ports.OrderGateway, validator ports.OrderValidator, store *snapshot.Store, sink Sink, log ports.Logger, cfg Config) *Poller {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Poller{
		gateway:   gateway,
		validator: validator,
		store:     store,
		sink:      sink,
		log:       log,
		cfg:       cfg,
	}
}

// Start — запускает цикл с периодом interval. Первый цикл выполняется сразу
// и, по правилу первого появления, не порождает событий.
// Повторный вызов на запущенном опросе ничего не делает.
func (p *Poller) Start(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	p.store.Reset()
	// Каждый запуск опроса — отдельная сессия просмотра в логах.
	base := ctxmeta.WithSessionID(context.Background(), uuid.NewString())
	ctx, cancel := context.WithCancel(base)
	p.running, p.cancel, p.done = true, cancel, make(chan struct{})
	go p.loop(ctx, interval, p.done)
}

// Stop — останавливает таймер и дожидается выхода цикла. Безопасен при повторном вызове.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.cancel()
	done := p.done
	p.mu.Unlock()
	<-done
}

// Running — опрос запущен.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// RefreshNow — внеочередной цикл. Делит защиту от наложения с таймером:
// если цикл уже идёт, возвращает ErrInFlight и ничего не ставит в очередь.
func (p *Poller) RefreshNow(ctx context.Context) error {
	return p.runCycle(ctx)
}

// LastSyncFailed — упал ли последний цикл и с какой ошибкой.
func (p *Poller) LastSyncFailed() (bool, error) {
	p.failMu.Lock()
	defer p.failMu.Unlock()
	return p.lastFail, p.lastErr
}

func (p *Poller) loop(ctx context.Context, interval time.Duration, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick — цикл по таймеру; ошибки уже учтены в runCycle, здесь их только гасим.
func (p *Poller) tick(ctx context.Context) {
	if err := p.runCycle(ctx); err != nil && !errors.Is(err, domain.ErrInFlight) && ctx.Err() == nil {
		p.log.Warnf(ctx, "poll cycle failed: %v (will retry next tick)", err)
	}
}

// runCycle — один цикл:
// 1) занят — пропускаем;
// 2) забираем заказы в области роли и арендатора;
// 3) отбрасываем чужого арендатора и мусор;
// 4) заменяем снимок, накладывая ожидающие мутации;
// 5) сравниваем с прошлым снимком (кроме первого цикла);
// 6) отдаём результат получателю.
// Ошибка выборки оставляет снимок как есть.
func (p *Poller) runCycle(ctx context.Context) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		metrics.PollCycles.WithLabelValues("skipped").Inc()
		return domain.ErrInFlight
	}
	defer p.inFlight.Store(false)

	ctx, span := telemetry.Tracer().Start(ctx, "poll.cycle", trace.WithAttributes(
		attribute.String("order_sync.role", string(p.cfg.Scope.Role)),
		attribute.String("order_sync.tenant", p.cfg.Scope.TenantID),
	))
	defer span.End()

	started := time.Now()
	defer func() { metrics.PollDuration.Observe(time.Since(started).Seconds()) }()

	fetchCtx, cancel := ctx, context.CancelFunc(func() {})
	if p.cfg.FetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, p.cfg.FetchTimeout)
	}
	orders, err := p.gateway.ListOrders(fetchCtx, p.cfg.Scope)
	cancel()

	if err != nil {
		// Остановка — не сбой синхронизации.
		if ctx.Err() != nil {
			metrics.PollCycles.WithLabelValues("skipped").Inc()
			return ctx.Err()
		}
		metrics.PollCycles.WithLabelValues("failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list orders")
		p.setFailure(err)
		if p.sink != nil {
			p.sink.HandleSyncFailure(ctx, err)
		}
		return fmt.Errorf("list orders: %w", err)
	}

	kept := p.admit(ctx, orders)
	commit := p.store.Replace(kept)
	at := p.cfg.Now()

	for _, m := range commit.Expired {
		p.log.Warnf(ctx, "pending mutation expired order_id=%s requested=%s seq=%d", m.OrderID, m.Requested, m.Seq)
	}

	res := domain.CycleResult{
		First:   commit.First,
		Orders:  sortedOrders(commit.Current),
		Expired: commit.Expired,
		At:      at,
	}
	if !commit.First {
		res.Events = Diff(commit.Previous, commit.Current, at)
		for i := range res.Events {
			metrics.Transitions.WithLabelValues(string(res.Events[i].To)).Inc()
		}
	}

	span.SetAttributes(
		attribute.Int("order_sync.orders", len(res.Orders)),
		attribute.Int("order_sync.transitions", len(res.Events)),
		attribute.Bool("order_sync.first", res.First),
	)
	metrics.PollCycles.WithLabelValues("ok").Inc()
	p.setFailure(nil)
	if p.sink != nil {
		p.sink.HandleCycle(ctx, res)
	}
	return nil
}

// admit — фильтр на стороне клиента: чужой арендатор отбрасывается с debug-записью,
// невалидная запись с предупреждением, неизвестный статус сохраняется как есть.
func (p *Poller) admit(ctx context.Context, orders []domain.Order) []domain.Order {
	tenant := p.cfg.Scope.TenantID
	kept := make([]domain.Order, 0, len(orders))
	seen := make(map[string]struct{}, len(orders))

	for i := range orders {
		o := &orders[i]
		if tenant != "" && o.RestaurantID != tenant {
			metrics.DroppedOrders.WithLabelValues("tenant").Inc()
			p.log.Debugf(ctx, "order dropped: foreign tenant order_id=%s restaurant_id=%s", o.ID, o.RestaurantID)
			continue
		}
		if p.validator != nil {
			if err := p.validator.Validate(ctx, o); err != nil {
				metrics.DroppedOrders.WithLabelValues("invalid").Inc()
				p.log.Warnf(ctx, "order dropped: %v", err)
				continue
			}
		}
		if _, dup := seen[o.ID]; dup {
			metrics.DroppedOrders.WithLabelValues("duplicate").Inc()
			continue
		}
		seen[o.ID] = struct{}{}
		if !o.Status.IsKnown() {
			metrics.UnknownStatus.Inc()
			p.log.Warnf(ctx, "unknown order status order_id=%s status=%q", o.ID, o.Status)
		}
		kept = append(kept, *o)
	}
	return kept
}

func (p *Poller) setFailure(err error) {
	p.failMu.Lock()
	defer p.failMu.Unlock()
	p.lastFail, p.lastErr = err != nil, err
}

// Diff — события смены статуса для заказов, присутствующих в обоих снимках.
// Новые id событием не считаются. Порядок — по id заказа.
func Diff(prev, next map[string]domain.Order, at time.Time) []domain.TransitionEvent {
	var events []domain.TransitionEvent
	for id, cur := range next {
		old, ok := prev[id]
		if !ok || old.Status == cur.Status {
			continue
		}
		events = append(events, domain.TransitionEvent{
			OrderID:     id,
			OrderNumber: cur.OrderNumber,
			From:        old.Status,
			To:          cur.Status,
			ObservedAt:  at,
			Legal:       domain.CanDisplayTransition(old.Status, cur.Status),
		})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].OrderID < events[j].OrderID })
	return events
}

func sortedOrders(m map[string]domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
