package domain

import (
	"time"

	"github.com/glossworks/booking-engine/pkg/types"
)

// DayWindow is an open interval of a business day, [Open, Close).
type DayWindow struct {
	Open  types.TimeString
	Close types.TimeString
}

// IsValid reports whether the window is well-formed (open strictly before close).
func (w DayWindow) IsValid() bool {
	return w.Open.Validate() == nil && w.Close.Validate() == nil && w.Open.IsBefore(w.Close)
}

// Contains reports whether [start, end) lies fully inside the window.
func (w DayWindow) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(w.Open) && !end.IsAfter(w.Close)
}

// BusinessCalendar holds a business's weekly opening hours. A missing weekday
// means the business is closed that day.
type BusinessCalendar struct {
	BusinessID int64
	Days       map[time.Weekday]DayWindow
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WindowFor returns the open window for a weekday, if any.
func (c *BusinessCalendar) WindowFor(day time.Weekday) (DayWindow, bool) {
	w, ok := c.Days[day]
	return w, ok
}

// IsOpenOn reports whether the business opens at all on the given date.
func (c *BusinessCalendar) IsOpenOn(date time.Time) bool {
	_, ok := c.Days[date.Weekday()]
	return ok
}

// IsOpenAt reports whether the business is open on date at clock time t.
func (c *BusinessCalendar) IsOpenAt(date time.Time, t types.TimeString) bool {
	w, ok := c.Days[date.Weekday()]
	if !ok {
		return false
	}
	return !t.IsBefore(w.Open) && t.IsBefore(w.Close)
}
