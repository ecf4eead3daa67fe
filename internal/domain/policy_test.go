package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glossworks/booking-engine/pkg/types"
)

func apptStartingIn(d time.Duration, now time.Time, status AppointmentStatus) *Appointment {
	start := now.Add(d)
	date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	return &Appointment{
		ID:        1,
		Date:      date,
		StartTime: types.NewTimeString(start),
		EndTime:   types.NewTimeString(start.Add(time.Hour)),
		Status:    status,
	}
}

func TestEvaluateDefaultThresholds(t *testing.T) {
	policy := DefaultCancellationPolicy()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		remaining   time.Duration
		wantAllowed bool
		wantRefund  int
		wantReason  string
	}{
		{"far out gets full refund", 72 * time.Hour, true, 100, ReasonFullRefund},
		{"between bands gets partial refund", 30 * time.Hour, true, 50, ReasonPartialRefund},
		{"under notice window disallowed", 20 * time.Hour, false, 0, ReasonTooLate},
		{"exactly at boundary disallowed", 24 * time.Hour, false, 0, ReasonTooLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := policy.Evaluate(apptStartingIn(tt.remaining, now, StatusScheduled), now)
			assert.Equal(t, tt.wantAllowed, outcome.Allowed)
			assert.Equal(t, tt.wantRefund, outcome.RefundPercent)
			assert.Equal(t, tt.wantReason, outcome.ReasonCode)
		})
	}
}

func TestEvaluateTenantOverrides(t *testing.T) {
	// A tenant that refunds fully for any permitted cancellation: the
	// "30 hours out -> 100%" configuration.
	policy := CancellationPolicy{MinNoticeHours: 24, FullRefundHours: 24, PartialRefundPercent: 50}
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	outcome := policy.Evaluate(apptStartingIn(30*time.Hour, now, StatusScheduled), now)
	assert.True(t, outcome.Allowed)
	assert.Equal(t, 100, outcome.RefundPercent)

	outcome = policy.Evaluate(apptStartingIn(20*time.Hour, now, StatusScheduled), now)
	assert.False(t, outcome.Allowed)
	assert.Equal(t, 0, outcome.RefundPercent)
}

func TestEvaluateStatusGate(t *testing.T) {
	policy := DefaultCancellationPolicy()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	for _, status := range []AppointmentStatus{StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		outcome := policy.Evaluate(apptStartingIn(100*time.Hour, now, status), now)
		assert.False(t, outcome.Allowed, "status %s must not be cancellable", status)
		assert.Equal(t, ReasonNotCancellable, outcome.ReasonCode)
	}

	outcome := policy.Evaluate(apptStartingIn(100*time.Hour, now, StatusConfirmed), now)
	assert.True(t, outcome.Allowed)
}

func TestRefundMonotonicity(t *testing.T) {
	// The refund must never increase as the appointment approaches.
	policy := DefaultCancellationPolicy()
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	appt := apptStartingIn(96*time.Hour, base, StatusScheduled)

	prev := 101
	for offset := time.Duration(0); offset <= 96*time.Hour; offset += 3 * time.Hour {
		outcome := policy.Evaluate(appt, base.Add(offset))
		assert.LessOrEqual(t, outcome.RefundPercent, prev,
			"refund increased as appointment approached (offset %s)", offset)
		prev = outcome.RefundPercent
	}
}

func TestCanReschedule(t *testing.T) {
	policy := DefaultCancellationPolicy()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, policy.CanReschedule(apptStartingIn(30*time.Hour, now, StatusScheduled), now))
	assert.True(t, policy.CanReschedule(apptStartingIn(30*time.Hour, now, StatusConfirmed), now))
	assert.False(t, policy.CanReschedule(apptStartingIn(20*time.Hour, now, StatusScheduled), now))
	assert.False(t, policy.CanReschedule(apptStartingIn(30*time.Hour, now, StatusInProgress), now))
}

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to AppointmentStatus }{
		{StatusScheduled, StatusConfirmed},
		{StatusScheduled, StatusCancelled},
		{StatusScheduled, StatusNoShow},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusNoShow},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to AppointmentStatus }{
		{StatusScheduled, StatusInProgress},
		{StatusScheduled, StatusCompleted},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusScheduled},
		{StatusNoShow, StatusConfirmed},
		{StatusInProgress, StatusNoShow},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}
