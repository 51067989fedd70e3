package app

import (
	"context"
	"slices"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/order-sync/config"
	"github.com/Gunvolt24/order-sync/internal/domain"
)

type nopLog struct{}

func (nopLog) Debugf(context.Context, string, ...any) {}
func (nopLog) Infof(context.Context, string, ...any)  {}
func (nopLog) Warnf(context.Context, string, ...any)  {}
func (nopLog) Errorf(context.Context, string, ...any) {}

func TestScopeFromConfig(t *testing.T) {
	s, err := scopeFromConfig(config.Sync{Role: "admin", TenantID: "r1", Filter: "en_cours"})
	if err != nil {
		t.Fatalf("scopeFromConfig: %v", err)
	}
	want := []domain.Status{domain.StatusConfirmed, domain.StatusPreparing, domain.StatusReady}
	if s.Role != domain.RoleAdmin || s.TenantID != "r1" || !slices.Equal(s.StatusFilter, want) {
		t.Fatalf("unexpected scope %+v", s)
	}

	all, err := scopeFromConfig(config.Sync{Role: "customer", CustomerID: "c1", Filter: "all"})
	if err != nil || all.StatusFilter != nil || all.CustomerID != "c1" {
		t.Fatalf("want unfiltered customer scope, got %+v err=%v", all, err)
	}
}

func TestApplyGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	cases := map[string]string{
		"release": gin.ReleaseMode,
		" TEST ":  gin.TestMode,
		"":        gin.DebugMode,
		"weird":   gin.DebugMode,
	}
	for in, want := range cases {
		applyGinMode(context.Background(), in, nopLog{})
		if gin.Mode() != want {
			t.Fatalf("applyGinMode(%q): want %s, got %s", in, want, gin.Mode())
		}
	}
}
