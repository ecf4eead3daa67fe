package get_available_slots

import (
	"time"

	"github.com/glossworks/booking-engine/pkg/types"
)

// Request asks for the bookable slots of one business day. Exactly one of
// ServiceID and BundleID must be set; StaffID narrows the result to a single
// staff member.
type Request struct {
	BusinessID int64
	ServiceID  *int64
	BundleID   *int64
	StaffID    *int64
	Date       time.Time
}

// Slot is one bookable interval for one staff member.
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	StaffID   int64
}

// Response lists the available slots, ordered by start time then staff id.
// Generating slots never mutates state: repeating the same request against
// unchanged data yields the identical response.
type Response struct {
	BusinessID      int64
	Date            time.Time
	DurationMinutes int
	Slots           []Slot
}
