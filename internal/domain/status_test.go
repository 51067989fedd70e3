package domain_test

import (
	"testing"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

func TestStatus_TerminalAndKnown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   domain.Status
		known    bool
		terminal bool
	}{
		{domain.StatusPending, true, false},
		{domain.StatusConfirmed, true, false},
		{domain.StatusPreparing, true, false},
		{domain.StatusReady, true, false},
		{domain.StatusOnDelivery, true, false},
		{domain.StatusCompleted, true, true},
		{domain.StatusCancelled, true, true},
		{domain.StatusRejected, true, true},
		{"in_kitchen", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsKnown(); got != tt.known {
				t.Fatalf("IsKnown(%q) = %v, want %v", tt.status, got, tt.known)
			}
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Fatalf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.terminal)
			}
		})
	}
}

func TestCanDisplayTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to domain.Status
		want     bool
	}{
		{"accept", domain.StatusPending, domain.StatusConfirmed, true},
		{"skip_to_preparing", domain.StatusPending, domain.StatusPreparing, true},
		{"ready_pickup", domain.StatusReady, domain.StatusCompleted, true},
		{"deliver", domain.StatusOnDelivery, domain.StatusCompleted, true},
		{"cancel_while_preparing", domain.StatusPreparing, domain.StatusCancelled, true},
		{"reject_pending", domain.StatusPending, domain.StatusRejected, true},
		{"reject_preparing", domain.StatusPreparing, domain.StatusRejected, false},
		{"backwards", domain.StatusReady, domain.StatusPreparing, false},
		{"same", domain.StatusReady, domain.StatusReady, false},
		{"from_terminal", domain.StatusCompleted, domain.StatusCancelled, false},
		{"unknown_origin", "in_kitchen", domain.StatusReady, false},
		{"unknown_target", domain.StatusPending, "in_kitchen", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := domain.CanDisplayTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanDisplayTransition(%q,%q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestClientRequestable(t *testing.T) {
	if domain.ClientRequestable(domain.StatusPending) {
		t.Fatalf("pending must not be requestable")
	}
	if domain.ClientRequestable("in_kitchen") {
		t.Fatalf("unknown status must not be requestable")
	}
	for _, s := range domain.AllStatuses()[1:] {
		if !domain.ClientRequestable(s) {
			t.Fatalf("%q must be requestable", s)
		}
	}
}

func TestCountdownApplies_StaleGuard(t *testing.T) {
	eta := mustTime(t, "2026-01-01T12:00:00Z")

	if !domain.CountdownApplies(&domain.Order{Status: domain.StatusPreparing, EstimatedReadyTime: &eta}) {
		t.Fatalf("preparing with eta must apply")
	}
	if domain.CountdownApplies(&domain.Order{Status: domain.StatusReady, EstimatedReadyTime: &eta}) {
		t.Fatalf("ready with stale eta must not apply")
	}
	if domain.CountdownApplies(&domain.Order{Status: domain.StatusPreparing}) {
		t.Fatalf("preparing without eta must not apply")
	}
	if domain.CountdownApplies(nil) {
		t.Fatalf("nil order must not apply")
	}
}
