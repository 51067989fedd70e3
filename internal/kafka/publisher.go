package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/pkg/ctxmeta"
	"github.com/Gunvolt24/order-sync/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// Проверка, что Publisher удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.EventPublisher = (*Publisher)(nil)

// writer — минимальный контракт над приёмником (kafka.Writer),
// чтобы легко подменять его моками в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher — обёртка над kafka.Writer: JSON-сериализация обновлений и повторы с backoff.
type Publisher struct {
	writer       writer
	topic        string
	log          ports.Logger
	retryInitial time.Duration
	retryMax     time.Duration
	maxAttempts  int

	randMu     sync.Mutex
	jitterRand *rand.Rand
	closeOnce  sync.Once
}

// NewPublisher — конструктор.
func NewPublisher(cfg *PublisherConfig, log ports.Logger) *Publisher {
	return newPublisher(cfg.Writer(), cfg, log)
}

func newPublisher(w writer, cfg *PublisherConfig, log ports.Logger) *Publisher {
	// Параметры по умолчанию (если не заданы в конфиге)
	rInit := cfg.RetryInitial
	if rInit <= 0 {
		rInit = 200 * time.Millisecond
	}
	rMax := cfg.RetryMax
	if rMax <= 0 {
		rMax = 5 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}

	return &Publisher{
		writer:       w,
		topic:        cfg.Topic,
		log:          log,
		retryInitial: rInit,
		retryMax:     rMax,
		maxAttempts:  attempts,
		// jitterRand — источник случайности, чтобы рассинхронизировать экспоненциальный backoff.
		jitterRand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Publish — отправляет обновление с ключом = id заказа.
// Временные ошибки брокера повторяются с экспоненциальным backoff и equal-jitter,
// не больше maxAttempts попыток; отмена контекста прерывает ожидание.
func (p *Publisher) Publish(ctx context.Context, u domain.Update) error {
	msg, err := encode(ctx, u)
	if err != nil {
		metrics.EventsPublished.WithLabelValues("failed").Inc()
		return err
	}

	retry := p.retryInitial
	for attempt := 1; ; attempt++ {
		err = p.writer.WriteMessages(ctx, msg)
		if err == nil {
			metrics.EventsPublished.WithLabelValues("ok").Inc()
			return nil
		}
		if ctx.Err() != nil || attempt >= p.maxAttempts {
			break
		}

		sleep := p.withJitterEqual(retry)
		p.log.Warnf(ctx, "publish failed topic=%s kind=%s attempt=%d: %v (will retry in %s)", p.topic, u.Kind, attempt, err, sleep)
		if !sleepWithBackoff(ctx, sleep) {
			break
		}
		retry = p.nextBackoff(retry)
	}

	metrics.EventsPublished.WithLabelValues("failed").Inc()
	return fmt.Errorf("publish %s to %s: %w", u.Kind, p.topic, err)
}

// Close - закрывает writer. Вызывается при остановке приложения.
func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}

// encode — сообщение Kafka: JSON-тело, ключ заказа, тип и request id в заголовках.
func encode(ctx context.Context, u domain.Update) (kafka.Message, error) {
	if u.Err != nil && u.Error == "" {
		u.Error = u.Err.Error()
	}
	value, err := json.Marshal(u)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode update: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(u.OrderID),
		Value:   value,
		Time:    u.At,
		Headers: []kafka.Header{{Key: "kind", Value: []byte(u.Kind)}},
	}
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "request_id", Value: []byte(rid)})
	}
	return msg, nil
}
