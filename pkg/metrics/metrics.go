package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PollCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_poll_cycles_total",
			Help: "Polling cycles by result",
		},
		[]string{"result"}, // ok|failed|skipped
	)
	PollDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_poll_duration_seconds",
			Help:    "Duration of a fetch-and-diff cycle",
			Buckets: prometheus.DefBuckets,
		},
	)
	SnapshotSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_snapshot_orders",
			Help: "Number of orders in the live snapshot",
		},
	)
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_transitions_total",
			Help: "Detected status transitions",
		},
		[]string{"to"},
	)
	DroppedOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_dropped_orders_total",
			Help: "Orders dropped from a fetch",
		},
		[]string{"reason"}, // tenant|invalid|duplicate
	)
	UnknownStatus = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_status_unknown_total",
			Help: "Orders observed with a status outside the canonical set",
		},
	)
)

var (
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_mutations_total",
			Help: "Optimistic status mutations by result",
		},
		[]string{"result"}, // ok|failed|rejected_local|discarded|expired
	)
	PendingMutations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_pending_mutations",
			Help: "Mutations awaiting a server response",
		},
	)
)

var (
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_notifications_total",
			Help: "Notification records created",
		},
		[]string{"kind"},
	)
	UnreadNotifications = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_notifications_unread",
			Help: "Unread notification records",
		},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_events_published_total",
			Help: "Updates published to the external sink",
		},
		[]string{"result"}, // ok|failed|dropped
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует коллекторы в глобальном реестре; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		register(prometheus.DefaultRegisterer)
	})
}

func register(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{
		PollCycles, PollDuration, SnapshotSize, Transitions, DroppedOrders, UnknownStatus,
		Mutations, PendingMutations, Notifications, UnreadNotifications, EventsPublished,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
}
