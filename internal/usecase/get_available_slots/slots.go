package get_available_slots

import (
	"sort"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/pkg/types"
)

// generateStaffSlots produces one staff member's bookable slots on a date.
// Candidate starts step through the staff member's effective window at the
// configured granularity; the granularity is a step size only, the slot
// length is always the requested duration. A candidate survives if the full
// [start, start+duration) interval fits the window and conflicts with
// neither the staff member's blocking appointments nor the business-wide
// blocked intervals.
func generateStaffSlots(
	staffID int64,
	window *domain.ShiftWindow,
	dayWindow domain.DayWindow,
	durationMinutes int,
	granularityMinutes int,
	appointments []*domain.Appointment,
	blocked []*domain.BlockedInterval,
) ([]Slot, error) {
	if window == nil {
		return []Slot{}, nil
	}

	effective := domain.IntersectWindows(*window, dayWindow)
	if effective == nil {
		return []Slot{}, nil
	}

	slots := make([]Slot, 0)
	current := effective.Start

	for current.IsBefore(effective.End) {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			// The remaining candidates would cross midnight.
			break
		}
		if slotEnd.IsAfter(effective.End) {
			break
		}

		check := domain.ConflictCheck{
			StaffID: &staffID,
			Start:   current,
			End:     slotEnd,
		}
		if !domain.HasConflict(check, appointments, blocked) {
			slots = append(slots, Slot{
				StartTime: current,
				EndTime:   slotEnd,
				StaffID:   staffID,
			})
		}

		current, err = current.AddMinutes(granularityMinutes)
		if err != nil {
			break
		}
	}

	return slots, nil
}

// filterPastSlots drops same-day slots whose start has already passed.
// Other dates are returned untouched.
func filterPastSlots(slots []Slot, date time.Time, now time.Time) []Slot {
	if !isSameDay(date, now) {
		return slots
	}

	cutoff := types.NewTimeString(now)
	remaining := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if !slot.StartTime.IsBefore(cutoff) {
			remaining = append(remaining, slot)
		}
	}
	return remaining
}

// sortSlots orders slots by start time, then staff id, for a stable and
// repeatable response.
func sortSlots(slots []Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime.IsBefore(slots[j].StartTime)
		}
		return slots[i].StaffID < slots[j].StaffID
	})
}

// groupByStaff splits a business day's appointments per staff member.
func groupByStaff(appointments []*domain.Appointment) map[int64][]*domain.Appointment {
	grouped := make(map[int64][]*domain.Appointment)
	for _, appt := range appointments {
		grouped[appt.StaffID] = append(grouped[appt.StaffID], appt)
	}
	return grouped
}
