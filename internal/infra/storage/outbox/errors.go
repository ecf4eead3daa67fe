package outbox

import "errors"

var (
	// ErrEventNotFound is returned when the outbox event does not exist
	ErrEventNotFound = errors.New("outbox.repository: event not found")

	// ErrBuildQuery is returned when the SQL statement could not be built
	ErrBuildQuery = errors.New("outbox.repository: failed to build query")

	// ErrExecQuery is returned when the SQL statement could not be executed
	ErrExecQuery = errors.New("outbox.repository: failed to execute query")

	// ErrScanRow is returned when a result row could not be scanned
	ErrScanRow = errors.New("outbox.repository: failed to scan row")
)
