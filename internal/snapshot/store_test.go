package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock { return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)} }

func order(id string, st domain.Status) domain.Order {
	return domain.Order{ID: id, OrderNumber: "#" + id, Status: st, RestaurantID: "r1"}
}

func TestReplace_FirstThenPrimed(t *testing.T) {
	s := New(0, newClock().now)

	c1 := s.Replace([]domain.Order{order("1", domain.StatusPending)})
	if !c1.First || len(c1.Previous) != 0 || len(c1.Current) != 1 {
		t.Fatalf("first commit: %+v", c1)
	}

	c2 := s.Replace([]domain.Order{order("1", domain.StatusConfirmed)})
	if c2.First {
		t.Fatalf("second commit must not be first")
	}
	if c2.Previous["1"].Status != domain.StatusPending || c2.Current["1"].Status != domain.StatusConfirmed {
		t.Fatalf("unexpected commit %+v", c2)
	}

	s.Reset()
	if c3 := s.Replace(nil); !c3.First {
		t.Fatalf("commit after Reset must be first")
	}
}

func TestReplace_WholesaleDropsMissing(t *testing.T) {
	s := New(0, nil)
	s.Replace([]domain.Order{order("1", domain.StatusPending), order("2", domain.StatusPending)})
	s.Replace([]domain.Order{order("2", domain.StatusPending)})

	if _, ok := s.Get("1"); ok {
		t.Fatalf("order 1 should be gone after wholesale replace")
	}
	if s.Len() != 1 {
		t.Fatalf("want 1 order, got %d", s.Len())
	}
}

func TestApply_OverlayWinsOverFetch(t *testing.T) {
	clk := newClock()
	s := New(time.Minute, clk.now)
	s.Replace([]domain.Order{order("1", domain.StatusPending)})

	m, err := s.Apply(domain.PendingMutation{OrderID: "1", Requested: domain.StatusConfirmed})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if m.Prior != domain.StatusPending || m.Seq == 0 || !m.IssuedAt.Equal(clk.t) {
		t.Fatalf("unexpected mutation %+v", m)
	}
	if got, _ := s.Get("1"); got.Status != domain.StatusConfirmed {
		t.Fatalf("optimistic status not visible: %s", got.Status)
	}

	// сервер ещё отдаёт старый статус — оверлей держит запрошенный
	c := s.Replace([]domain.Order{order("1", domain.StatusPending)})
	if c.Current["1"].Status != domain.StatusConfirmed || c.Previous["1"].Status != domain.StatusConfirmed {
		t.Fatalf("overlay did not hold: %+v", c)
	}
}

func TestApply_UnknownOrder(t *testing.T) {
	s := New(0, nil)
	_, err := s.Apply(domain.PendingMutation{OrderID: "nope", Requested: domain.StatusConfirmed})
	if !errors.Is(err, domain.ErrUnknownOrder) {
		t.Fatalf("want ErrUnknownOrder, got %v", err)
	}
}

func TestApply_PreparingDerivesETA(t *testing.T) {
	clk := newClock()
	s := New(0, clk.now)
	s.Replace([]domain.Order{order("1", domain.StatusConfirmed)})

	_, err := s.Apply(domain.PendingMutation{
		OrderID: "1", Requested: domain.StatusPreparing,
		Extra: &domain.StatusExtra{PreparationMinutes: 15},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, _ := s.Get("1")
	if got.EstimatedReadyTime == nil || !got.EstimatedReadyTime.Equal(clk.t.Add(15*time.Minute)) {
		t.Fatalf("want derived eta, got %v", got.EstimatedReadyTime)
	}

	// сервер прислал своё время — оно важнее
	serverETA := clk.t.Add(20 * time.Minute)
	o := order("1", domain.StatusPreparing)
	o.EstimatedReadyTime = &serverETA
	c := s.Replace([]domain.Order{o})
	if !c.Current["1"].EstimatedReadyTime.Equal(serverETA) {
		t.Fatalf("want server eta, got %v", c.Current["1"].EstimatedReadyTime)
	}
}

func TestConfirmAndDrop(t *testing.T) {
	s := New(0, nil)
	s.Replace([]domain.Order{order("1", domain.StatusPending), order("2", domain.StatusPending)})

	m1, _ := s.Apply(domain.PendingMutation{OrderID: "1", Requested: domain.StatusConfirmed})
	m2, _ := s.Apply(domain.PendingMutation{OrderID: "2", Requested: domain.StatusRejected})

	if !s.Confirm("1", m1.Seq) {
		t.Fatalf("confirm should resolve the live mutation")
	}
	if got, _ := s.Get("1"); got.Status != domain.StatusConfirmed {
		t.Fatalf("confirmed status must stay until next poll, got %s", got.Status)
	}

	if !s.Drop("2", m2.Seq) {
		t.Fatalf("drop should resolve the live mutation")
	}
	if got, _ := s.Get("2"); got.Status != domain.StatusPending {
		t.Fatalf("dropped mutation must revert to server value, got %s", got.Status)
	}

	if s.Confirm("1", m1.Seq) || s.Drop("2", m2.Seq) {
		t.Fatalf("resolving twice must be a no-op")
	}
}

func TestResolve_StaleSeqIgnored(t *testing.T) {
	s := New(0, nil)
	s.Replace([]domain.Order{order("1", domain.StatusPending)})

	old, _ := s.Apply(domain.PendingMutation{OrderID: "1", Requested: domain.StatusConfirmed})
	cur, _ := s.Apply(domain.PendingMutation{OrderID: "1", Requested: domain.StatusCancelled})

	if s.Drop("1", old.Seq) {
		t.Fatalf("stale response must not resolve a newer mutation")
	}
	if p, ok := s.Pending("1"); !ok || p.Seq != cur.Seq {
		t.Fatalf("newer mutation must stay pending, got %+v", p)
	}
	if got, _ := s.Get("1"); got.Status != domain.StatusCancelled {
		t.Fatalf("want cancelled, got %s", got.Status)
	}
}

func TestReplace_ExpiresLostMutations(t *testing.T) {
	clk := newClock()
	s := New(30*time.Second, clk.now)
	s.Replace([]domain.Order{order("1", domain.StatusPending)})
	_, _ = s.Apply(domain.PendingMutation{OrderID: "1", Requested: domain.StatusConfirmed})

	clk.advance(10 * time.Second)
	if c := s.Replace([]domain.Order{order("1", domain.StatusPending)}); len(c.Expired) != 0 {
		t.Fatalf("mutation expired too early")
	}

	clk.advance(25 * time.Second)
	c := s.Replace([]domain.Order{order("1", domain.StatusPending)})
	if len(c.Expired) != 1 || c.Expired[0].OrderID != "1" {
		t.Fatalf("want expired mutation, got %+v", c.Expired)
	}
	if c.Current["1"].Status != domain.StatusPending {
		t.Fatalf("after expiry the server value must show, got %s", c.Current["1"].Status)
	}
	if _, ok := s.Pending("1"); ok {
		t.Fatalf("expired mutation must be removed")
	}
	if c.Previous["1"].Status != domain.StatusPending {
		t.Fatalf("expired mutation must be diffed against the server value, previous=%s", c.Previous["1"].Status)
	}
}

func TestReplace_ExpiryAgainstChangedServerValue(t *testing.T) {
	clk := newClock()
	s := New(30*time.Second, clk.now)
	s.Replace([]domain.Order{order("1", domain.StatusPending)})
	_, _ = s.Apply(domain.PendingMutation{OrderID: "1", Requested: domain.StatusConfirmed})

	clk.advance(time.Minute)
	c := s.Replace([]domain.Order{order("1", domain.StatusCancelled)})
	if c.Previous["1"].Status != domain.StatusPending || c.Current["1"].Status != domain.StatusCancelled {
		t.Fatalf("want pending -> cancelled from server data, got %s -> %s",
			c.Previous["1"].Status, c.Current["1"].Status)
	}
}

func TestApply_RepeatedPreparingPrefersFreshMinutes(t *testing.T) {
	clk := newClock()
	s := New(time.Minute, clk.now)
	serverETA := clk.t.Add(5 * time.Minute)
	o := order("1", domain.StatusPreparing)
	o.EstimatedReadyTime = &serverETA
	s.Replace([]domain.Order{o})

	_, err := s.Apply(domain.PendingMutation{
		OrderID: "1", Requested: domain.StatusPreparing,
		Extra: &domain.StatusExtra{PreparationMinutes: 25},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := clk.t.Add(25 * time.Minute)
	if got, _ := s.Get("1"); got.EstimatedReadyTime == nil || !got.EstimatedReadyTime.Equal(want) {
		t.Fatalf("want fresh local eta %v, got %v", want, got.EstimatedReadyTime)
	}

	// свежий опрос ещё со старым временем не затирает запрошенное
	c := s.Replace([]domain.Order{o})
	if !c.Current["1"].EstimatedReadyTime.Equal(want) {
		t.Fatalf("pending re-request must keep the local eta, got %v", c.Current["1"].EstimatedReadyTime)
	}
}

func TestCloneImmutability(t *testing.T) {
	s := New(0, nil)
	eta := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	o := order("1", domain.StatusPreparing)
	src := eta
	o.EstimatedReadyTime = &src
	s.Replace([]domain.Order{o})

	// меняем исходные данные и то, что вернул Get — снимок не должен меняться
	*o.EstimatedReadyTime = eta.Add(time.Hour)
	got, _ := s.Get("1")
	*got.EstimatedReadyTime = eta.Add(2 * time.Hour)
	got.Status = domain.StatusReady

	again := s.Snapshot()
	if len(again) != 1 || again[0].Status != domain.StatusPreparing || !again[0].EstimatedReadyTime.Equal(eta) {
		t.Fatalf("snapshot leaked a mutable reference: %+v", again)
	}
}

func TestSnapshot_SortedByID(t *testing.T) {
	s := New(0, nil)
	s.Replace([]domain.Order{order("3", domain.StatusPending), order("1", domain.StatusPending), order("2", domain.StatusPending)})

	got := s.Snapshot()
	if len(got) != 3 || got[0].ID != "1" || got[1].ID != "2" || got[2].ID != "3" {
		t.Fatalf("unexpected order %+v", got)
	}
}
