//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

var topicUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// UniqueTopic — имя топика из префикса и имени теста, уникальное между прогонами.
func UniqueTopic(base, testName string) string {
	return fmt.Sprintf("%s-%s-%s", base, topicUnsafe.ReplaceAllString(testName, "-"), UniqSuffix())
}

// CreateTopic — создаёт топик через контроллер кластера и ждёт, пока у него появятся партиции.
func CreateTopic(ctx context.Context, broker, topic string) error {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return fmt.Errorf("dial %s: %w", broker, err)
	}
	controller, err := conn.Controller()
	_ = conn.Close()
	if err != nil {
		return fmt.Errorf("find controller: %w", err)
	}

	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		if partitions, perr := admin.ReadPartitions(topic); perr == nil && len(partitions) > 0 {
			return nil
		}
		select {
		case <-waitCtx.Done():
			return fmt.Errorf("topic %s has no partitions: %w", topic, waitCtx.Err())
		case <-tick.C:
		}
	}
}
