package cancel_booking

import "errors"

var (
	// ErrInvalidInput is returned on malformed request data
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrAppointmentNotFound is returned when the appointment does not exist
	ErrAppointmentNotFound = errors.New("cancel_booking: appointment not found")

	// ErrNotOwner is returned when the caller does not own the appointment
	ErrNotOwner = errors.New("cancel_booking: appointment belongs to another customer")

	// ErrPolicyViolation is returned when the cancellation policy forbids the
	// action: too little notice, or the appointment is past the point of
	// cancellation
	ErrPolicyViolation = errors.New("cancel_booking: cancellation policy violation")

	// ErrInternal is returned on internal usecase errors
	ErrInternal = errors.New("cancel_booking: internal error")
)
