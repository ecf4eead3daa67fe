package create_booking

import (
	"time"

	"github.com/glossworks/booking-engine/pkg/types"
)

// Request creates an appointment. Exactly one of ServiceID and BundleID must
// be set. StaffID nil asks the engine to assign the first staff member free
// for the whole range.
type Request struct {
	CustomerID int64
	BusinessID int64
	StaffID    *int64
	VehicleID  *int64
	ServiceID  *int64
	BundleID   *int64
	Date       time.Time
	StartTime  types.TimeString
	Notes      *string
}

// Response is the committed appointment.
type Response struct {
	ID              int64
	CustomerID      int64
	BusinessID      int64
	StaffID         int64
	VehicleID       *int64
	ServiceID       int64
	BundleID        *int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string

	ServiceName string
	Price       float64
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
