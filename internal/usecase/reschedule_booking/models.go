package reschedule_booking

import (
	"time"

	"github.com/glossworks/booking-engine/pkg/types"
)

// Request moves an appointment to a new date and start time. The staff
// member, service, duration and price stay as booked.
type Request struct {
	AppointmentID int64
	CustomerID    int64
	NewDate       time.Time
	NewStartTime  types.TimeString
	Reason        *string
}

// Response is the moved appointment. The identity and creation timestamp are
// unchanged; only the time coordinates move.
type Response struct {
	ID              int64
	CustomerID      int64
	BusinessID      int64
	StaffID         int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string

	OriginalDate  time.Time
	OriginalStart types.TimeString
}
