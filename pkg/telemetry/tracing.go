// Package telemetry — трассировка OTLP/HTTP и общий tracer движка.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// instrumentation — имя библиотеки в спанах движка.
const instrumentation = "github.com/Gunvolt24/order-sync"

// Config — параметры экспорта.
type Config struct {
	ServiceName string
	Endpoint    string  // host:port коллектора; пусто => localhost:4318
	SampleRatio float64 // доля корневых трасс, [0..1]
	Role        string  // роль сессии, пишется в ресурс
}

// Setup — OTLP/HTTP экспорт без TLS, ParentBased-семплинг, глобальные провайдер и пропагаторы.
// Возвращает Shutdown провайдера для корректной остановки.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4318"
	}
	ratio := min(max(cfg.SampleRatio, 0), 1)

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.Role != "" {
		attrs = append(attrs, attribute.String("order_sync.role", cfg.Role))
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return provider.Shutdown, nil
}

// Tracer — tracer движка поверх глобального провайдера (no-op, пока Setup не вызван).
func Tracer() trace.Tracer { return otel.Tracer(instrumentation) }
