package metrics_test

import (
	"testing"

	"github.com/Gunvolt24/order-sync/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Должно выполняться без паники даже при повторном вызове.
	t.Helper()
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestPollCycles_CountersByLabel(t *testing.T) {
	metrics.MustRegister()

	okBefore := testutil.ToFloat64(metrics.PollCycles.WithLabelValues("ok"))
	skippedBefore := testutil.ToFloat64(metrics.PollCycles.WithLabelValues("skipped"))

	metrics.PollCycles.WithLabelValues("ok").Inc()
	metrics.PollCycles.WithLabelValues("ok").Inc()

	if got := testutil.ToFloat64(metrics.PollCycles.WithLabelValues("ok")); got != okBefore+2 {
		t.Fatalf("PollCycles(ok): got=%v want=%v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(metrics.PollCycles.WithLabelValues("skipped")); got != skippedBefore {
		t.Fatalf("PollCycles(skipped): got=%v want=%v", got, skippedBefore)
	}
}

func TestMutations_Inc(t *testing.T) {
	metrics.MustRegister()

	before := testutil.ToFloat64(metrics.Mutations.WithLabelValues("failed"))
	metrics.Mutations.WithLabelValues("failed").Inc()
	if got := testutil.ToFloat64(metrics.Mutations.WithLabelValues("failed")); got != before+1 {
		t.Fatalf("Mutations(failed): got=%v want=%v", got, before+1)
	}
}

func TestSnapshotSize_GaugeSet(t *testing.T) {
	metrics.MustRegister()

	cur := testutil.ToFloat64(metrics.SnapshotSize)

	metrics.SnapshotSize.Set(cur + 5)
	if got := testutil.ToFloat64(metrics.SnapshotSize); got != cur+5 {
		t.Fatalf("SnapshotSize after +5: got=%v want=%v", got, cur+5)
	}

	metrics.SnapshotSize.Set(cur) // вернуть как было
	if got := testutil.ToFloat64(metrics.SnapshotSize); got != cur {
		t.Fatalf("SnapshotSize restore: got=%v want=%v", got, cur)
	}
}
