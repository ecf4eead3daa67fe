package get_available_slots

import "errors"

var (
	// ErrInvalidInput is returned on malformed request data
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrServiceNotFound is returned when the requested service does not exist
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrBundleNotFound is returned when the requested bundle does not exist
	ErrBundleNotFound = errors.New("get_available_slots: bundle not found")

	// ErrInternal is returned on internal usecase errors
	ErrInternal = errors.New("get_available_slots: internal error")
)
