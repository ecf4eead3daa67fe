package domain

import (
	"time"

	"github.com/glossworks/booking-engine/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// Appointment represents a booked service visit. Appointments are never
// physically deleted; cancellation is a status change so history survives.
type Appointment struct {
	ID         int64
	CustomerID int64
	BusinessID int64
	StaffID    int64
	VehicleID  *int64
	ServiceID  int64
	BundleID   *int64

	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized catalog data captured at booking time
	ServiceName string
	Price       float64

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the appointment occupies its staff member's time
func (a *Appointment) IsBlocking() bool {
	return a.Status == StatusScheduled ||
		a.Status == StatusConfirmed ||
		a.Status == StatusInProgress
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsTerminal returns true if no further status transition is possible
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted ||
		a.Status == StatusCancelled ||
		a.Status == StatusNoShow
}

// CanBeCancelled returns true if the appointment may still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment may still be rescheduled
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// StartsAt combines Date and StartTime into an instant in Date's location.
func (a *Appointment) StartsAt() time.Time {
	mins := a.StartTime.Minutes()
	return time.Date(
		a.Date.Year(), a.Date.Month(), a.Date.Day(),
		mins/60, mins%60, 0, 0,
		a.Date.Location(),
	)
}

// statusTransitions is the appointment state machine. Status changes outside
// this table are rejected; there is no direct field overwrite path.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s AppointmentStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// AppointmentFilter is the closed set of query parameters for business
// appointment listings. Deliberately a struct, not an open predicate bag.
type AppointmentFilter struct {
	BusinessID      int64
	StaffID         *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Statuses        []AppointmentStatus
	IncludeInactive bool // include cancelled/no-show rows
}

// RescheduleRecord is an immutable audit entry appended when an appointment
// is moved. Records are never mutated once written.
type RescheduleRecord struct {
	ID            int64
	AppointmentID int64
	OriginalDate  time.Time
	OriginalStart types.TimeString
	NewDate       time.Time
	NewStart      types.TimeString
	Reason        *string
	CreatedAt     time.Time
}
