package domain

// Default booking configuration values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultHorizonDays            = 90

	DefaultMinNoticeHours       = 24
	DefaultFullRefundHours      = 48
	DefaultPartialRefundPercent = 50
)

// Business validation constants
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 hours

	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 240

	MinHorizonDays = 1
	MaxHorizonDays = 365

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBlockReasonLength        = 200
)

// ValidDurationMinutes reports whether a service duration falls inside the
// bookable range.
func ValidDurationMinutes(minutes int) bool {
	return minutes >= MinDurationMinutes && minutes <= MaxDurationMinutes
}

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses are the statuses that occupy a staff member's time and
// therefore participate in conflict checks.
var BlockingStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses are the statuses from which no further transition exists.
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
