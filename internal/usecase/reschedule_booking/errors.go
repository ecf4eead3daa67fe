package reschedule_booking

import "errors"

var (
	// ErrInvalidInput is returned on malformed request data
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrAppointmentNotFound is returned when the appointment does not exist
	ErrAppointmentNotFound = errors.New("reschedule_booking: appointment not found")

	// ErrNotOwner is returned when the caller does not own the appointment
	ErrNotOwner = errors.New("reschedule_booking: appointment belongs to another customer")

	// ErrPolicyViolation is returned when the notice window forbids moving
	// the appointment
	ErrPolicyViolation = errors.New("reschedule_booking: reschedule policy violation")

	// ErrInvalidDate is returned for past target dates
	ErrInvalidDate = errors.New("reschedule_booking: invalid target date")

	// ErrDateTooFarInFuture is returned for target dates beyond the horizon
	ErrDateTooFarInFuture = errors.New("reschedule_booking: target date is too far in the future")

	// ErrBusinessClosed is returned when the business is closed on the target date
	ErrBusinessClosed = errors.New("reschedule_booking: business is closed on this date")

	// ErrSlotUnavailable is returned when the target range conflicts with an
	// existing appointment or blocked interval
	ErrSlotUnavailable = errors.New("reschedule_booking: target slot is not available")

	// ErrInternal is returned on internal usecase errors
	ErrInternal = errors.New("reschedule_booking: internal error")
)
