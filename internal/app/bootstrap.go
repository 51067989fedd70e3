package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/order-sync/config"
	"github.com/Gunvolt24/order-sync/internal/domain"
	restgw "github.com/Gunvolt24/order-sync/internal/gateway/rest"
	"github.com/Gunvolt24/order-sync/internal/kafka"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/internal/repo/postgres"
	rest "github.com/Gunvolt24/order-sync/internal/transport/http"
	"github.com/Gunvolt24/order-sync/internal/usecase"
	"github.com/Gunvolt24/order-sync/pkg/logger"
	"github.com/Gunvolt24/order-sync/pkg/metrics"
	"github.com/Gunvolt24/order-sync/pkg/telemetry"
	"github.com/Gunvolt24/order-sync/pkg/validate"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Runner — фоновый компонент, работающий до отмены контекста (ретранслятор событий).
type Runner interface {
	Run(ctx context.Context) error
}

// App — собранное приложение и его внешние интерфейсы (HTTP, движок, ретранслятор).
type App struct {
	Logger          ports.Logger     // логгер
	HTTPServer      *http.Server     // HTTP-сервер
	Engine          ports.SyncEngine // движок синхронизации
	Relay           Runner           // ретранслятор в Kafka; nil — выключен
	PollInterval    time.Duration    // период опроса
	gracefulTimeout time.Duration    // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// scopeFromConfig — область выборки сессии; метка фильтра сужает запрос к шлюзу.
func scopeFromConfig(s config.Sync) (domain.Scope, error) {
	filter, err := domain.ParseFilter(s.Filter)
	if err != nil {
		return domain.Scope{}, err
	}
	return domain.Scope{
		Role:         domain.Role(s.Role),
		TenantID:     s.TenantID,
		CustomerID:   s.CustomerID,
		StatusFilter: filter.Statuses(),
	}, nil
}

// newGateway — шлюз заказов по конфигурации; closeFn освобождает его ресурсы.
func newGateway(ctx context.Context, cfg *config.Config, log ports.Logger) (ports.OrderGateway, func(), error) {
	switch cfg.Gateway.Kind {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			log.Infof(ctx, "postgres migrations applied")
		}
		return postgres.NewOrderGateway(pool, cfg.Postgres.ListLimit), pool.Close, nil
	default:
		client, err := restgw.New(restgw.Config{
			BaseURL: cfg.REST.BaseURL,
			Token:   cfg.REST.Token,
			Timeout: cfg.REST.Timeout,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	closeLogger := func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	scope, err := scopeFromConfig(cfg.Sync)
	if err != nil {
		closeLogger()
		return nil, func() {}, fmt.Errorf("sync scope: %w", err)
	}

	// Шлюз заказов: REST API или Postgres.
	gateway, closeGateway, err := newGateway(ctx, cfg, logg)
	if err != nil {
		closeLogger()
		return nil, func() {}, fmt.Errorf("order gateway %s: %w", cfg.Gateway.Kind, err)
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.Setup(ctx, telemetry.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Role:        cfg.Sync.Role,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Движок синхронизации.
	engine, err := usecase.NewSyncEngine(gateway, validate.NewOrderValidator(), logg, usecase.Options{
		Scope:           scope,
		FetchTimeout:    cfg.Sync.FetchTimeout,
		MutationTimeout: cfg.Sync.MutationTimeout,
		PendingTTL:      cfg.Sync.PendingTTL,
		CountdownTick:   cfg.Sync.CountdownTick,
	})
	if err != nil {
		closeGateway()
		closeLogger()
		return nil, func() {}, err
	}

	// Публикация обновлений в Kafka (опционально).
	var (
		relay     Runner
		publisher *kafka.Publisher
		unsub     = func() {}
	)
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(&kafka.PublisherConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			RequiredAcks: cfg.Kafka.Acks,
			WriteTimeout: cfg.Kafka.WriteTimeout,
			RetryInitial: cfg.Kafka.RetryInitial,
			RetryMax:     cfg.Kafka.RetryMax,
			MaxAttempts:  cfg.Kafka.MaxAttempts,
		}, logg)
		r := kafka.NewRelay(publisher, logg, cfg.Kafka.Buffer)
		unsub = engine.Subscribe(r.Handle)
		relay = r
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	router := rest.NewRouter(rest.NewHandler(engine, logg, cfg.HTTP.WaitTimeout), otelServiceName)
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Engine:          engine,
		Relay:           relay,
		PollInterval:    cfg.Sync.PollInterval,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		unsub()
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logg.Warnf(ctx, "kafka publisher close error: %v", err)
			}
		}
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		closeGateway()
		closeLogger()
	}

	return app, cleanup, nil
}

// Run — запускает движок, HTTP-сервер и ретранслятор; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	// Движок: первый опрос сразу, дальше по PollInterval.
	interval := a.PollInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	a.Logger.Infof(ctx, "sync engine starting (poll=%s)", interval)
	a.Engine.Start(interval)

	// Ретранслятор обновлений.
	if a.Relay != nil {
		g.Go(func() error {
			err := a.Relay.Run(gctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		})
	}

	// HTTP-сервер.
	g.Go(func() error {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Остановка по сигналу или по ошибке соседней горутины.
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")

		gt := a.gracefulTimeout
		if gt <= 0 {
			gt = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
		defer cancel()

		if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
		} else {
			a.Logger.Infof(ctx, "http server stopped gracefully")
		}

		a.Engine.Stop()
		return nil
	})

	err := g.Wait()
	if err != nil {
		a.Logger.Warnf(ctx, "background error: %v", err)
	}
	a.Logger.Infof(ctx, "service stopped")
	return err
}
