// Package snapshot хранит живой снимок заказов: последние данные сервера
// плюс наложенные поверх них ожидающие оптимистичные мутации.
package snapshot

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/pkg/metrics"
)

// DefaultPendingTTL — сколько живёт мутация без ответа сервера.
const DefaultPendingTTL = 30 * time.Second

// Commit — результат замены снимка свежими данными.
type Commit struct {
	First    bool
	Previous map[string]domain.Order
	Current  map[string]domain.Order
	Expired  []domain.PendingMutation
}

// Store — единственный живой снимок сессии.
// base — то, что сервер вернул последним; view = base с наложенными pending.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	primed  bool
	seq     uint64
	base    map[string]domain.Order
	pending map[string]domain.PendingMutation
	view    map[string]domain.Order
}

// New — конструктор; ttl <= 0 отключает истечение мутаций.
func New(ttl time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		ttl:     ttl,
		now:     now,
		base:    make(map[string]domain.Order),
		pending: make(map[string]domain.PendingMutation),
		view:    make(map[string]domain.Order),
	}
}

// Reset — следующая фиксация считается первой после (пере)запуска.
// Данные и ожидающие мутации сохраняются.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primed = false
}

// Replace — заменяет снимок целиком свежими данными сервера и накладывает живые мутации.
// Просроченные мутации удаляются и возвращаются в Commit.Expired.
func (s *Store) Replace(fetched []domain.Order) Commit {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	commit := Commit{First: !s.primed, Previous: cloneMap(s.view)}

	base := make(map[string]domain.Order, len(fetched))
	for i := range fetched {
		base[fetched[i].ID] = fetched[i].Clone()
	}

	// Истёкшая мутация сравнивается с прежними данными сервера, а не с оптимистичным видом:
	// откат к серверному значению не является сменой статуса.
	commit.Expired = s.pruneExpired(now)
	for _, m := range commit.Expired {
		if b, ok := s.base[m.OrderID]; ok {
			commit.Previous[m.OrderID] = b.Clone()
		}
	}

	view := make(map[string]domain.Order, len(base))
	for id, o := range base {
		if m, ok := s.pending[id]; ok {
			o = overlay(o, m)
		}
		view[id] = o
	}

	s.base, s.view, s.primed = base, view, true
	commit.Current = cloneMap(view)

	metrics.SnapshotSize.Set(float64(len(view)))
	metrics.PendingMutations.Set(float64(len(s.pending)))
	return commit
}

// Apply — регистрирует мутацию и сразу показывает её в снимке.
// Prior, IssuedAt и Seq заполняет хранилище.
func (s *Store) Apply(m domain.PendingMutation) (domain.PendingMutation, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.view[m.OrderID]
	if !ok {
		return domain.PendingMutation{}, fmt.Errorf("apply mutation: %w: %s", domain.ErrUnknownOrder, m.OrderID)
	}
	s.seq++
	m.Seq = s.seq
	m.Prior = cur.Status
	m.IssuedAt = now
	if m.Extra != nil {
		extra := *m.Extra
		m.Extra = &extra
	}

	s.pending[m.OrderID] = m
	if b, ok := s.base[m.OrderID]; ok {
		s.view[m.OrderID] = overlay(b, m)
	}
	metrics.PendingMutations.Set(float64(len(s.pending)))
	return m, nil
}

// Confirm — сервер принял мутацию: её значение становится базой до следующего опроса.
// false, если мутация уже снята или заменена более новой (не совпал Seq).
func (s *Store) Confirm(orderID string, seq uint64) bool {
	return s.resolve(orderID, seq, true)
}

// Drop — мутация не прошла: вид заказа возвращается к последним данным сервера.
func (s *Store) Drop(orderID string, seq uint64) bool {
	return s.resolve(orderID, seq, false)
}

// Pending — ожидающая мутация заказа.
func (s *Store) Pending(orderID string) (domain.PendingMutation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.pending[orderID]
	return m, ok
}

// Get — копия заказа из снимка.
func (s *Store) Get(orderID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.view[orderID]
	if !ok {
		return domain.Order{}, false
	}
	return o.Clone(), true
}

// Snapshot — копия снимка, упорядоченная по id.
func (s *Store) Snapshot() []domain.Order {
	s.mu.Lock()
	out := make([]domain.Order, 0, len(s.view))
	for _, o := range s.view {
		out = append(out, o.Clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len — число заказов в снимке.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.view)
}

// ------вспомогательные функции------

func (s *Store) resolve(orderID string, seq uint64, keep bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.pending[orderID]
	if !ok || m.Seq != seq {
		return false
	}
	delete(s.pending, orderID)
	if b, ok := s.base[orderID]; ok {
		if keep {
			b = overlay(b, m)
			s.base[orderID] = b
		}
		s.view[orderID] = b
	}
	metrics.PendingMutations.Set(float64(len(s.pending)))
	return true
}

func (s *Store) pruneExpired(now time.Time) []domain.PendingMutation {
	if s.ttl <= 0 {
		return nil
	}
	var expired []domain.PendingMutation
	for id, m := range s.pending {
		if now.Sub(m.IssuedAt) > s.ttl {
			delete(s.pending, id)
			expired = append(expired, m)
			metrics.Mutations.WithLabelValues("expired").Inc()
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].OrderID < expired[j].OrderID })
	return expired
}

// overlay — заказ сервера с наложенной мутацией: статус берётся из мутации.
// При переходе в preparing с минутами время готовности считается от момента запроса,
// пока сервер не пришлёт своё. Если заказ уже готовился (повторный запрос preparing),
// прежнее серверное время устарело: до ответа сервера показывается новое локальное.
func overlay(o domain.Order, m domain.PendingMutation) domain.Order {
	serverHasETA := o.Status == m.Requested && o.EstimatedReadyTime != nil && m.Prior != m.Requested
	o.Status = m.Requested
	if m.Requested == domain.StatusPreparing && !serverHasETA && m.Extra != nil && m.Extra.PreparationMinutes > 0 {
		eta := m.IssuedAt.Add(time.Duration(m.Extra.PreparationMinutes) * time.Minute)
		o.EstimatedReadyTime = &eta
	}
	return o
}

func cloneMap(in map[string]domain.Order) map[string]domain.Order {
	out := make(map[string]domain.Order, len(in))
	for id, o := range in {
		out[id] = o.Clone()
	}
	return out
}
