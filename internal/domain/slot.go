package domain

import "github.com/glossworks/booking-engine/pkg/types"

// TimeSlot is a bookable (start, end, staff) tuple offered to a customer.
// Ties among staff for the same time are distinct slots; presentation may
// collapse duplicates per time.
type TimeSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	StaffID   int64
}
