package domain

import "time"

// Cancellation outcome reason codes
const (
	ReasonFullRefund     = "full_refund"
	ReasonPartialRefund  = "partial_refund"
	ReasonTooLate        = "too_late"
	ReasonNotCancellable = "not_cancellable"
)

// CancellationPolicy holds the tenant-configurable thresholds governing
// cancellation and reschedule. Thresholds are parameters, never hard-coded:
// businesses override them per tenant.
type CancellationPolicy struct {
	// MinNoticeHours is the minimum remaining time before the appointment
	// for any cancel/reschedule action to be permitted.
	MinNoticeHours int

	// FullRefundHours is the remaining time above which a cancellation
	// refunds 100%. Between MinNoticeHours and FullRefundHours the refund
	// is PartialRefundPercent.
	FullRefundHours int

	// PartialRefundPercent is the refund in the partial band, 0-100.
	PartialRefundPercent int
}

// DefaultCancellationPolicy returns the platform defaults: actions need more
// than 24h notice, full refund above 48h, 50% in between.
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{
		MinNoticeHours:       DefaultMinNoticeHours,
		FullRefundHours:      DefaultFullRefundHours,
		PartialRefundPercent: DefaultPartialRefundPercent,
	}
}

// CancellationOutcome is the derived result of evaluating the policy for an
// appointment at a point in time. It is computed on demand, never persisted.
type CancellationOutcome struct {
	Allowed       bool
	RefundPercent int
	ReasonCode    string
}

// Evaluate computes the cancellation outcome for an appointment at time now.
// The appointment must be in a cancellable status and more than
// MinNoticeHours from its start for the action to be permitted.
func (p CancellationPolicy) Evaluate(appt *Appointment, now time.Time) CancellationOutcome {
	if !appt.CanBeCancelled() {
		return CancellationOutcome{Allowed: false, RefundPercent: 0, ReasonCode: ReasonNotCancellable}
	}

	remaining := appt.StartsAt().Sub(now)
	if remaining <= time.Duration(p.MinNoticeHours)*time.Hour {
		return CancellationOutcome{Allowed: false, RefundPercent: 0, ReasonCode: ReasonTooLate}
	}

	if remaining > time.Duration(p.FullRefundHours)*time.Hour {
		return CancellationOutcome{Allowed: true, RefundPercent: 100, ReasonCode: ReasonFullRefund}
	}

	return CancellationOutcome{Allowed: true, RefundPercent: p.PartialRefundPercent, ReasonCode: ReasonPartialRefund}
}

// CanReschedule reports whether the appointment may be moved at time now.
// Rescheduling shares the notice window with cancellation but carries no
// refund computation.
func (p CancellationPolicy) CanReschedule(appt *Appointment, now time.Time) bool {
	if !appt.CanBeRescheduled() {
		return false
	}
	return appt.StartsAt().Sub(now) > time.Duration(p.MinNoticeHours)*time.Hour
}
