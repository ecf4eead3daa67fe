package domain

import "github.com/glossworks/booking-engine/pkg/types"

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Ranges that merely touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}

// ConflictCheck describes a proposed time range to validate against existing
// state. StaffID nil means only business-wide blocks are considered; callers
// on staff-assignment flows must always set it. ExcludeAppointmentID skips
// one appointment, used by reschedule to avoid self-conflict.
type ConflictCheck struct {
	StaffID              *int64
	Start                types.TimeString
	End                  types.TimeString
	ExcludeAppointmentID *int64
}

// HasConflict decides whether the proposed range collides with a blocked
// interval or an active appointment for the same staff member. Only
// appointments in a blocking status (scheduled, confirmed, in_progress) count.
func HasConflict(check ConflictCheck, appointments []*Appointment, blocked []*BlockedInterval) bool {
	for _, b := range blocked {
		if Overlaps(check.Start, check.End, b.StartTime, b.EndTime) {
			return true
		}
	}

	if check.StaffID == nil {
		return false
	}

	for _, a := range appointments {
		if a.StaffID != *check.StaffID {
			continue
		}
		if !a.IsBlocking() {
			continue
		}
		if check.ExcludeAppointmentID != nil && a.ID == *check.ExcludeAppointmentID {
			continue
		}
		if Overlaps(check.Start, check.End, a.StartTime, a.EndTime) {
			return true
		}
	}

	return false
}
