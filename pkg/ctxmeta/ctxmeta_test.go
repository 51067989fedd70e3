package ctxmeta_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/order-sync/pkg/ctxmeta"
)

type accessor struct {
	name string
	with func(context.Context, string) context.Context
	from func(context.Context) (string, bool)
}

var accessors = []accessor{
	{"request_id", ctxmeta.WithRequestID, ctxmeta.RequestIDFromContext},
	{"session_id", ctxmeta.WithSessionID, ctxmeta.SessionIDFromContext},
}

func TestAccessors_RoundTrip(t *testing.T) {
	for _, a := range accessors {
		t.Run(a.name, func(t *testing.T) {
			parent := context.Background()
			ctx := a.with(parent, "v-1")

			got, ok := a.from(ctx)
			if !ok || got != "v-1" {
				t.Fatalf("want v-1, got %q ok=%v", got, ok)
			}
			if _, ok := a.from(parent); ok {
				t.Fatalf("parent ctx must stay untouched")
			}
		})
	}
}

func TestAccessors_EmptyAndNil(t *testing.T) {
	for _, a := range accessors {
		t.Run(a.name, func(t *testing.T) {
			parent := context.Background()
			if ctx := a.with(parent, ""); ctx != parent {
				t.Fatalf("empty value must return the same ctx")
			}

			var nilCtx context.Context
			if ctx := a.with(nilCtx, "v"); ctx != nil {
				t.Fatalf("nil ctx must stay nil")
			}
			if v, ok := a.from(nilCtx); ok || v != "" {
				t.Fatalf("nil ctx: got %q ok=%v", v, ok)
			}
			if v, ok := a.from(parent); ok || v != "" {
				t.Fatalf("bare ctx: got %q ok=%v", v, ok)
			}
		})
	}
}

func TestFromContext_IgnoresForeignAndEmptyValues(t *testing.T) {
	type foreignKey struct{}

	cases := []struct {
		name string
		ctx  context.Context
	}{
		{"foreign key type", context.WithValue(context.Background(), foreignKey{}, "x")},
		{"plain string key", context.WithValue(context.Background(), "request_id", "x")}, //nolint:staticcheck // проверяем, что строковый ключ не совпадает
		{"empty stored value", context.WithValue(context.Background(), ctxmeta.KeyRequestID, "")},
		{"wrong value type", context.WithValue(context.Background(), ctxmeta.KeyRequestID, 42)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if v, ok := ctxmeta.RequestIDFromContext(tc.ctx); ok || v != "" {
				t.Fatalf("got %q ok=%v", v, ok)
			}
		})
	}
}

func TestKeys_DoNotLeakIntoEachOther(t *testing.T) {
	ctx := ctxmeta.WithSessionID(context.Background(), "sess-1")
	ctx = ctxmeta.WithRequestID(ctx, "req-1")

	if sid, _ := ctxmeta.SessionIDFromContext(ctx); sid != "sess-1" {
		t.Fatalf("session id = %q", sid)
	}
	if rid, _ := ctxmeta.RequestIDFromContext(ctx); rid != "req-1" {
		t.Fatalf("request id = %q", rid)
	}
	if _, ok := ctxmeta.SessionIDFromContext(ctxmeta.WithRequestID(context.Background(), "r")); ok {
		t.Fatalf("request id must not be visible as session id")
	}
}
