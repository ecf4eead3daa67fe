package get_available_slots

import (
	"fmt"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
)

// validateRequest checks the request shape. Date range checks (past, beyond
// horizon) are not errors; they yield an empty slot list instead.
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessId must be positive", ErrInvalidInput)
	}

	if req.ServiceID == nil && req.BundleID == nil {
		return fmt.Errorf("%w: either serviceId or bundleId is required", ErrInvalidInput)
	}
	if req.ServiceID != nil && req.BundleID != nil {
		return fmt.Errorf("%w: serviceId and bundleId are mutually exclusive", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if req.BundleID != nil && *req.BundleID <= 0 {
		return fmt.Errorf("%w: bundleId must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDuration rejects catalog entries that cannot produce a valid
// interval. Zero or negative durations are refused before any slot walk.
func validateDuration(durationMinutes int) error {
	if !domain.ValidDurationMinutes(durationMinutes) {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	return nil
}

// isSameDay reports whether two instants fall on the same calendar day.
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast reports whether date is before today.
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// isBeyondHorizon reports whether date is more than horizonDays ahead of today.
func isBeyondHorizon(date, now time.Time, horizonDays int) bool {
	if horizonDays <= 0 {
		return false
	}
	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, horizonDays)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return dateOnly.After(maxDate)
}
