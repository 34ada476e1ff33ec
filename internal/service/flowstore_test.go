package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/service"
)

func TestFlowStore_UnknownFlowIsIdle(t *testing.T) {
	flows := service.NewFlowStore()
	if got := flows.State("missing"); got != domain.OTPIdle {
		t.Fatalf("expected idle, got %v", got)
	}
	if _, ok := flows.Email("missing"); ok {
		t.Fatal("expected no email for an unknown flow")
	}
}

func TestFlowStore_PurgeRemovesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	flows := service.NewFlowStore()
	signup := service.NewSignupService(newTestDB(t).Users(), flows, &captureNotifier{}, 4).WithClock(clock.Now)
	ctx := context.Background()

	if _, err := signup.RequestOTP(ctx, "old", validForm()); err != nil {
		t.Fatalf("RequestOTP old: %v", err)
	}
	clock.Advance(4 * time.Minute)
	if _, err := signup.RequestOTP(ctx, "new", validForm()); err != nil {
		t.Fatalf("RequestOTP new: %v", err)
	}
	clock.Advance(2 * time.Minute)

	if n := flows.Purge(); n != 1 {
		t.Fatalf("expected 1 purged flow, got %d", n)
	}
	if flows.Len() != 1 {
		t.Fatalf("expected 1 remaining flow, got %d", flows.Len())
	}
	if email, ok := flows.Email("new"); !ok || email != "grace@college.edu" {
		t.Fatalf("expected the newer flow to survive, got %q %v", email, ok)
	}
}

func TestFlowStore_Discard(t *testing.T) {
	flows := service.NewFlowStore()
	signup := service.NewSignupService(newTestDB(t).Users(), flows, &captureNotifier{}, 4)

	if _, err := signup.RequestOTP(context.Background(), "flow", validForm()); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	flows.Discard("flow")
	if flows.Len() != 0 {
		t.Fatal("expected discarded flow to be gone")
	}
}

func TestFlowStore_RunStopsOnCancel(t *testing.T) {
	flows := service.NewFlowStore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- flows.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestFlowStore_StateReportsExpiryBeforePurge(t *testing.T) {
	clock := newFakeClock()
	flows := service.NewFlowStore()
	signup := service.NewSignupService(newTestDB(t).Users(), flows, &captureNotifier{}, 4).WithClock(clock.Now)

	if _, err := signup.RequestOTP(context.Background(), "flow", validForm()); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	if got := flows.State("flow"); got != domain.OTPIssued {
		t.Fatalf("expected issued, got %v", got)
	}

	clock.Advance(5*time.Minute + time.Second)
	if got := flows.State("flow"); got != domain.OTPExpired {
		t.Fatalf("expected expired, got %v", got)
	}
	if flows.Len() != 1 {
		t.Fatal("expected State not to remove the flow")
	}
}
