package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glossworks/booking-engine/pkg/ptr"
	"github.com/glossworks/booking-engine/pkg/types"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     types.TimeString
		want                           bool
	}{
		{"full overlap", "10:00", "11:00", "10:00", "11:00", true},
		{"partial overlap", "10:30", "11:30", "10:00", "11:00", true},
		{"containment", "10:15", "10:45", "10:00", "11:00", true},
		{"touching end-to-start", "09:00", "10:00", "10:00", "11:00", false},
		{"touching start-to-end", "11:00", "12:00", "10:00", "11:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestHasConflictStatuses(t *testing.T) {
	appts := func(status AppointmentStatus) []*Appointment {
		return []*Appointment{{
			ID:        1,
			StaffID:   7,
			StartTime: "10:00",
			EndTime:   "11:00",
			Status:    status,
		}}
	}
	check := ConflictCheck{StaffID: ptr.Ptr(int64(7)), Start: "10:30", End: "11:30"}

	assert.True(t, HasConflict(check, appts(StatusScheduled), nil))
	assert.True(t, HasConflict(check, appts(StatusConfirmed), nil))
	assert.True(t, HasConflict(check, appts(StatusInProgress), nil))

	assert.False(t, HasConflict(check, appts(StatusCancelled), nil))
	assert.False(t, HasConflict(check, appts(StatusCompleted), nil))
	assert.False(t, HasConflict(check, appts(StatusNoShow), nil))
}

func TestHasConflictStaffScoping(t *testing.T) {
	appts := []*Appointment{{
		ID:        1,
		StaffID:   7,
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    StatusScheduled,
	}}

	otherStaff := ConflictCheck{StaffID: ptr.Ptr(int64(8)), Start: "10:00", End: "11:00"}
	assert.False(t, HasConflict(otherStaff, appts, nil))

	// Without a staff id only blocked intervals apply
	noStaff := ConflictCheck{Start: "10:00", End: "11:00"}
	assert.False(t, HasConflict(noStaff, appts, nil))

	blocked := []*BlockedInterval{{
		BusinessID: 1,
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		EndTime:    "12:00",
	}}
	assert.True(t, HasConflict(noStaff, appts, blocked))
}

func TestHasConflictExcludesSelf(t *testing.T) {
	appts := []*Appointment{{
		ID:        42,
		StaffID:   7,
		StartTime: "14:00",
		EndTime:   "15:00",
		Status:    StatusConfirmed,
	}}

	// Rescheduling appointment 42 into a range that only conflicts with
	// itself must be allowed.
	check := ConflictCheck{
		StaffID:              ptr.Ptr(int64(7)),
		Start:                "14:30",
		End:                  "15:30",
		ExcludeAppointmentID: ptr.Ptr(int64(42)),
	}
	assert.False(t, HasConflict(check, appts, nil))

	check.ExcludeAppointmentID = nil
	assert.True(t, HasConflict(check, appts, nil))
}
