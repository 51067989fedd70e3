//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"

	pgrepo "github.com/Gunvolt24/order-sync/internal/repo/postgres"
)

// Образы закреплены, чтобы интеграционные прогоны были воспроизводимыми.
const (
	postgresImage = "postgres:16-alpine"
	redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v23.3.8"
)

var tcLog = log.New(os.Stdout, "[tc] ", log.LstdFlags)

// Postgres — контейнер с применёнными миграциями и пулом к нему.
type Postgres struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

// StartPostgres — поднимает Postgres, создаёт пул через pgrepo.NewPool и накатывает схему заказов.
func StartPostgres(ctx context.Context) (*Postgres, func(context.Context) error, error) {
	c, err := tcpostgres.Run(ctx, postgresImage,
		tc.WithLifecycleHooks(tc.DefaultLoggingHook(tcLog)),
		tcpostgres.WithDatabase("orders"),
		tcpostgres.WithUsername("app"),
		tcpostgres.WithPassword("app"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = tc.TerminateContainer(c)
		return nil, nil, fmt.Errorf("postgres dsn: %w", err)
	}

	pool, err := pgrepo.NewPool(ctx, dsn, 5)
	if err != nil {
		_ = tc.TerminateContainer(c)
		return nil, nil, err
	}
	if err := pgrepo.Migrate(ctx, pool); err != nil {
		pool.Close()
		_ = tc.TerminateContainer(c)
		return nil, nil, err
	}

	stop := func(context.Context) error {
		pool.Close()
		return tc.TerminateContainer(c)
	}
	return &Postgres{Container: c, DSN: dsn, Pool: pool}, stop, nil
}

// Redpanda — Kafka-совместимый брокер для проверки публикации.
type Redpanda struct {
	Container *redpanda.Container
	Brokers   []string
}

// StartRedpanda — поднимает одиночный брокер redpanda.
func StartRedpanda(ctx context.Context) (*Redpanda, func(context.Context) error, error) {
	c, err := redpanda.Run(ctx, redpandaImage,
		tc.WithLifecycleHooks(tc.DefaultLoggingHook(tcLog)),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := c.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(c)
		return nil, nil, fmt.Errorf("redpanda seed broker: %w", err)
	}

	stop := func(context.Context) error { return tc.TerminateContainer(c) }
	return &Redpanda{Container: c, Brokers: []string{seed}}, stop, nil
}
