package domain

import (
	"time"

	"github.com/glossworks/booking-engine/pkg/types"
)

// ShiftWindow is the working interval of a staff member's day, [Start, End).
type ShiftWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// IsValid reports whether the window is well-formed.
func (w ShiftWindow) IsValid() bool {
	return w.Start.Validate() == nil && w.End.Validate() == nil && w.Start.IsBefore(w.End)
}

// StaffShift is a staff member's default weekly schedule. A missing weekday
// means a day off.
type StaffShift struct {
	StaffID    int64
	BusinessID int64
	Days       map[time.Weekday]ShiftWindow
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WindowFor returns the default shift window for a weekday, if any.
func (s *StaffShift) WindowFor(day time.Weekday) (ShiftWindow, bool) {
	w, ok := s.Days[day]
	return w, ok
}

// ShiftOverride is a date-specific exception to a staff member's weekly
// schedule. An override always wins over the weekly default for its date.
type ShiftOverride struct {
	ID          int64
	StaffID     int64
	Date        time.Time
	IsAvailable bool
	Window      *ShiftWindow // optional custom window when available
	CreatedAt   time.Time
}

// EffectiveShift resolves a staff member's working window on a date:
// a date override wins over the weekly default, and absence of both means
// the staff member is unavailable (nil result).
func EffectiveShift(shift *StaffShift, override *ShiftOverride, date time.Time) *ShiftWindow {
	if override != nil {
		if !override.IsAvailable {
			return nil
		}
		if override.Window != nil {
			w := *override.Window
			return &w
		}
		// Available with no custom window: fall through to the weekly default.
	}
	if shift == nil {
		return nil
	}
	w, ok := shift.WindowFor(date.Weekday())
	if !ok {
		return nil
	}
	return &w
}

// IntersectWindows returns the overlap of a shift window with a business day
// window, or nil when they do not overlap.
func IntersectWindows(shift ShiftWindow, day DayWindow) *ShiftWindow {
	start := shift.Start
	if start.IsBefore(day.Open) {
		start = day.Open
	}
	end := shift.End
	if end.IsAfter(day.Close) {
		end = day.Close
	}
	if !start.IsBefore(end) {
		return nil
	}
	return &ShiftWindow{Start: start, End: end}
}
