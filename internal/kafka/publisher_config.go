package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// PublisherConfig — параметры публикации обновлений в Kafka.
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	RequiredAcks string // all|one|none
	WriteTimeout time.Duration
	RetryInitial time.Duration
	RetryMax     time.Duration
	MaxAttempts  int
}

// Writer — kafka.Writer по конфигу. Ключ сообщения — id заказа, поэтому Hash-балансировщик
// держит обновления одного заказа в одной партиции (порядок по заказу сохраняется).
func (c *PublisherConfig) Writer() *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           c.acks(),
		WriteTimeout:           c.WriteTimeout,
		MaxAttempts:            1, // повторы делает Publisher, с backoff
		AllowAutoTopicCreation: true,
	}
}

func (c *PublisherConfig) acks() kafka.RequiredAcks {
	switch strings.ToLower(strings.TrimSpace(c.RequiredAcks)) {
	case "one", "1":
		return kafka.RequireOne
	case "none", "0":
		return kafka.RequireNone
	default:
		return kafka.RequireAll
	}
}
