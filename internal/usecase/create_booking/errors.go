package create_booking

import "errors"

var (
	// ErrInvalidInput is returned on malformed request data
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrServiceNotFound is returned when the requested service does not exist
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrBundleNotFound is returned when the requested bundle does not exist
	ErrBundleNotFound = errors.New("create_booking: bundle not found")

	// ErrBusinessClosed is returned when the business is closed on the date
	ErrBusinessClosed = errors.New("create_booking: business is closed on this date")

	// ErrInvalidDate is returned for past dates
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture is returned for dates beyond the booking horizon
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSlotUnavailable is returned when the requested range conflicts with
	// an existing appointment, a blocked interval, or falls outside the staff
	// member's working window
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrNoStaffAvailable is returned when auto-assignment finds no free staff
	ErrNoStaffAvailable = errors.New("create_booking: no staff member is available for this slot")

	// ErrInternal is returned on internal usecase errors
	ErrInternal = errors.New("create_booking: internal error")
)
