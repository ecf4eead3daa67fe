package schedule

import "errors"

var (
	// ErrCalendarNotFound is returned when the business has no calendar
	ErrCalendarNotFound = errors.New("business calendar not found")

	// ErrBlockedIntervalNotFound is returned when the blocked interval does not exist
	ErrBlockedIntervalNotFound = errors.New("blocked interval not found")

	// ErrShiftNotFound is returned when the staff member has no shift
	ErrShiftNotFound = errors.New("staff shift not found")

	// ErrInvalidInput is returned on malformed input data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on internal service errors
	ErrInternal = errors.New("service: internal error")
)
