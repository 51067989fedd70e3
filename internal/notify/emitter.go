// Package notify превращает события смены статуса в баннер и уведомления с учётом роли.
package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/pkg/metrics"
	"github.com/google/uuid"
)

// Policy — что роль получает.
type Policy struct {
	TransitionBanners bool
	NewOrderBanners   bool
	Notifications     bool
}

// policies — таблица политик по ролям.
var policies = map[domain.Role]Policy{
	domain.RoleCustomer: {TransitionBanners: true},
	domain.RoleAdmin:    {TransitionBanners: true, NewOrderBanners: true, Notifications: true},
}

// PolicyFor — политика роли; неизвестная роль не получает ничего.
func PolicyFor(r domain.Role) Policy { return policies[r] }

// Emitter — баннер, уведомления, множество увиденных заказов и подписчики.
type Emitter struct {
	policy Policy
	log    ports.Logger
	now    func() time.Time
	newID  func() string

	mu            sync.Mutex
	banner        *domain.Banner
	notifications []domain.Notification // в порядке появления
	seen          map[string]struct{}   // id заказов, уже виденных в pending

	subMu  sync.Mutex
	nextID uint64
	subs   map[uint64]func(domain.Update)
}

// New — конструктор эмиттера для роли.
func New(role domain.Role, log ports.Logger, now func() time.Time) *Emitter {
	if now == nil {
		now = time.Now
	}
	return &Emitter{
		policy: PolicyFor(role),
		log:    log,
		now:    now,
		newID:  func() string { return uuid.NewString() },
		seen:   make(map[string]struct{}),
		subs:   make(map[uint64]func(domain.Update)),
	}
}

// HandleCycle — обработка результата цикла опроса:
// события смены статуса идут в баннер, новые pending-заказы ищутся по множеству увиденных.
func (e *Emitter) HandleCycle(ctx context.Context, res domain.CycleResult) {
	var out []domain.Update

	e.mu.Lock()
	for i := range res.Events {
		ev := res.Events[i]
		out = append(out, domain.Update{Kind: domain.UpdateTransition, OrderID: ev.OrderID, Transition: &ev, At: res.At})
		if !e.policy.TransitionBanners {
			continue
		}
		if b, ok := e.showLocked(domain.BannerTransition, ev, res.At); ok {
			out = append(out, b)
		}
	}
	if e.policy.NewOrderBanners || e.policy.Notifications {
		out = append(out, e.detectNewLocked(res.Orders, res.At)...)
	}
	e.mu.Unlock()

	if n := countKind(out, domain.UpdateNotification); n > 0 {
		e.log.Infof(ctx, "new orders detected count=%d", n)
	}
	e.publish(out...)
}

// HandleSyncFailure — передаёт подписчикам сбой цикла.
func (e *Emitter) HandleSyncFailure(_ context.Context, err error) {
	e.publish(domain.Update{Kind: domain.UpdateSyncFailed, Err: err, Error: err.Error(), At: e.now()})
}

// MutationFailed — передаёт подписчикам отклонённую мутацию.
func (e *Emitter) MutationFailed(_ context.Context, orderID string, err error) {
	e.publish(domain.Update{Kind: domain.UpdateMutationFailed, OrderID: orderID, Err: err, Error: err.Error(), At: e.now()})
}

// Publish — произвольная запись подписчикам (например, тик обратного отсчёта).
func (e *Emitter) Publish(u domain.Update) { e.publish(u) }

// Banner — текущий баннер или nil.
func (e *Emitter) Banner() *domain.Banner {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.banner == nil {
		return nil
	}
	b := *e.banner
	return &b
}

// DismissBanner — освобождает слот баннера.
func (e *Emitter) DismissBanner() {
	e.mu.Lock()
	e.banner = nil
	e.mu.Unlock()
	e.publish(domain.Update{Kind: domain.UpdateBanner, At: e.now()})
}

// Push — уведомление, пришедшее от хоста (сообщение, отзыв).
func (e *Emitter) Push(kind domain.NotificationKind, orderID, title, body string) domain.Notification {
	e.mu.Lock()
	n := e.addLocked(kind, orderID, title, body, e.now())
	e.mu.Unlock()

	e.publish(domain.Update{Kind: domain.UpdateNotification, OrderID: orderID, Notification: &n, At: n.CreatedAt})
	return n
}

// List — уведомления, новые первыми.
func (e *Emitter) List() []domain.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Notification, len(e.notifications))
	for i := range e.notifications {
		out[len(out)-1-i] = e.notifications[i]
	}
	return out
}

// UnreadCount — число непрочитанных уведомлений; считается по записям, отдельного счётчика нет.
func (e *Emitter) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unreadLocked()
}

// MarkAsRead — отмечает уведомление прочитанным; повторный вызов ничего не меняет.
// false — такого уведомления нет.
func (e *Emitter) MarkAsRead(id string) bool {
	e.mu.Lock()
	idx := e.indexLocked(id)
	if idx < 0 {
		e.mu.Unlock()
		return false
	}
	changed := !e.notifications[idx].Read
	e.notifications[idx].Read = true
	n := e.notifications[idx]
	e.syncGaugeLocked()
	e.mu.Unlock()

	if changed {
		e.publish(domain.Update{Kind: domain.UpdateNotification, OrderID: n.OrderID, Notification: &n, At: e.now()})
	}
	return true
}

// Clear — удаляет уведомление. false — его уже нет.
func (e *Emitter) Clear(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexLocked(id)
	if idx < 0 {
		return false
	}
	e.notifications = append(e.notifications[:idx], e.notifications[idx+1:]...)
	e.syncGaugeLocked()
	return true
}

// Seen — заказ уже встречался в pending.
func (e *Emitter) Seen(orderID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.seen[orderID]
	return ok
}

// Subscribe — подписка на записи. Вызов возвращённой функции отписывает.
func (e *Emitter) Subscribe(fn func(domain.Update)) func() {
	e.subMu.Lock()
	e.nextID++
	id := e.nextID
	e.subs[id] = fn
	e.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs, id)
			e.subMu.Unlock()
		})
	}
}

// ------вспомогательные функции------

// showLocked — ставит событие в слот баннера. Событие, совпадающее по содержимому
// с уже показанным баннером, отбрасывается.
func (e *Emitter) showLocked(kind domain.BannerKind, ev domain.TransitionEvent, at time.Time) (domain.Update, bool) {
	if b := e.banner; b != nil && b.Kind == kind &&
		b.Event.OrderID == ev.OrderID && b.Event.From == ev.From && b.Event.To == ev.To {
		return domain.Update{}, false
	}
	e.banner = &domain.Banner{Kind: kind, Event: ev, ShownAt: at}
	b := *e.banner
	return domain.Update{Kind: domain.UpdateBanner, OrderID: ev.OrderID, Banner: &b, At: at}, true
}

// detectNewLocked — каждый pending-id отмечается увиденным; каждый ранее не виденный
// даёт баннер и уведомление о новом заказе.
func (e *Emitter) detectNewLocked(orders []domain.Order, at time.Time) []domain.Update {
	var out []domain.Update
	for i := range orders {
		o := &orders[i]
		if o.Status != domain.StatusPending {
			continue
		}
		if _, ok := e.seen[o.ID]; ok {
			continue
		}
		e.seen[o.ID] = struct{}{}

		ev := domain.TransitionEvent{OrderID: o.ID, OrderNumber: o.OrderNumber, To: domain.StatusPending, ObservedAt: at}
		if e.policy.NewOrderBanners {
			if b, ok := e.showLocked(domain.BannerNewOrder, ev, at); ok {
				out = append(out, b)
			}
		}
		if e.policy.Notifications {
			n := e.addLocked(domain.NotificationNewOrder, o.ID, newOrderTitle(o), "", at)
			out = append(out, domain.Update{Kind: domain.UpdateNotification, OrderID: o.ID, Notification: &n, At: at})
		}
	}
	return out
}

func (e *Emitter) addLocked(kind domain.NotificationKind, orderID, title, body string, at time.Time) domain.Notification {
	n := domain.Notification{
		ID:        e.newID(),
		Kind:      kind,
		OrderID:   orderID,
		Title:     title,
		Body:      body,
		CreatedAt: at,
	}
	e.notifications = append(e.notifications, n)
	metrics.Notifications.WithLabelValues(string(kind)).Inc()
	e.syncGaugeLocked()
	return n
}

func (e *Emitter) indexLocked(id string) int {
	for i := range e.notifications {
		if e.notifications[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Emitter) unreadLocked() int {
	n := 0
	for i := range e.notifications {
		if !e.notifications[i].Read {
			n++
		}
	}
	return n
}

func (e *Emitter) syncGaugeLocked() {
	metrics.UnreadNotifications.Set(float64(e.unreadLocked()))
}

// publish — рассылка вне блокировок: подписчик может вызывать методы эмиттера.
func (e *Emitter) publish(updates ...domain.Update) {
	if len(updates) == 0 {
		return
	}
	e.subMu.Lock()
	ids := make([]uint64, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(domain.Update), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.subs[id])
	}
	e.subMu.Unlock()

	for _, u := range updates {
		for _, fn := range fns {
			fn(u)
		}
	}
}

func newOrderTitle(o *domain.Order) string {
	if o.OrderNumber != "" {
		return fmt.Sprintf("New order %s", o.OrderNumber)
	}
	return fmt.Sprintf("New order %s", o.ID)
}

func countKind(updates []domain.Update, kind domain.UpdateKind) int {
	n := 0
	for i := range updates {
		if updates[i].Kind == kind {
			n++
		}
	}
	return n
}
