package catalogservice

import "errors"

var (
	// ErrServiceNotFound is returned when the catalog has no such service
	ErrServiceNotFound = errors.New("catalog has no such service")

	// ErrBundleNotFound is returned when the catalog has no such bundle
	ErrBundleNotFound = errors.New("catalog has no such bundle")

	// ErrInternal is returned on internal client errors
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse is returned on a malformed catalog response
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
