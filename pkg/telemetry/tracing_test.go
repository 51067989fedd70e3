package telemetry_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Gunvolt24/order-sync/pkg/telemetry"
)

func TestTracer_UsesGlobalProvider(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := telemetry.Tracer().Start(context.Background(), "poll.cycle")
	span.End()

	ended := rec.Ended()
	if len(ended) != 1 || ended[0].Name() != "poll.cycle" {
		t.Fatalf("unexpected spans: %+v", ended)
	}
	if ended[0].InstrumentationScope().Name != "github.com/Gunvolt24/order-sync" {
		t.Fatalf("unexpected scope %q", ended[0].InstrumentationScope().Name)
	}
}

func TestSetup_ReturnsShutdown(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	// экспортёр не подключается при создании, поэтому коллектор не нужен
	shutdown, err := telemetry.Setup(context.Background(), telemetry.Config{ServiceName: "order-sync-test", SampleRatio: 5})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
