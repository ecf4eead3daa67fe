package schedule

import "errors"

var (
	// ErrCalendarNotFound is returned when the business has no stored calendar
	ErrCalendarNotFound = errors.New("schedule.repository: business calendar not found")

	// ErrConfigNotFound is returned when the business has no stored booking config
	ErrConfigNotFound = errors.New("schedule.repository: booking config not found")

	// ErrShiftNotFound is returned when the staff member has no stored shift
	ErrShiftNotFound = errors.New("schedule.repository: staff shift not found")

	// ErrBlockedIntervalNotFound is returned when the blocked interval does not exist
	ErrBlockedIntervalNotFound = errors.New("schedule.repository: blocked interval not found")

	// ErrBuildQuery is returned when the SQL statement could not be built
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery is returned when the SQL statement could not be executed
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow is returned when a result row could not be scanned
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
