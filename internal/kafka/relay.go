package kafka

import (
	"context"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/pkg/metrics"
)

// relayed — какие обновления уходят во внешний приёмник. Тики отсчёта и баннеры локальны.
var relayed = map[domain.UpdateKind]bool{
	domain.UpdateTransition:     true,
	domain.UpdateNotification:   true,
	domain.UpdateSyncFailed:     true,
	domain.UpdateMutationFailed: true,
}

// Relay — развязывает подписчика движка и публикацию: Handle не блокирует,
// Run отправляет накопленное в фоне. При переполнении буфера обновление теряется.
type Relay struct {
	pub ports.EventPublisher
	log ports.Logger
	ch  chan domain.Update
}

// NewRelay — конструктор; buffer <= 0 означает 256.
func NewRelay(pub ports.EventPublisher, log ports.Logger, buffer int) *Relay {
	if buffer <= 0 {
		buffer = 256
	}
	return &Relay{pub: pub, log: log, ch: make(chan domain.Update, buffer)}
}

// Handle — подписчик движка.
func (r *Relay) Handle(u domain.Update) {
	if !relayed[u.Kind] {
		return
	}
	select {
	case r.ch <- u:
	default:
		metrics.EventsPublished.WithLabelValues("dropped").Inc()
	}
}

// Run — цикл публикации до отмены контекста; остаток буфера дописывается с коротким таймаутом.
func (r *Relay) Run(ctx context.Context) error {
	r.log.Infof(ctx, "event relay started")
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return ctx.Err()
		case u := <-r.ch:
			if err := r.pub.Publish(ctx, u); err != nil && ctx.Err() == nil {
				r.log.Errorf(ctx, "relay publish failed kind=%s order_id=%s: %v", u.Kind, u.OrderID, err)
			}
		}
	}
}

func (r *Relay) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		select {
		case u := <-r.ch:
			if err := r.pub.Publish(ctx, u); err != nil {
				r.log.Warnf(ctx, "relay drain publish failed kind=%s: %v", u.Kind, err)
				return
			}
		default:
			return
		}
	}
}
