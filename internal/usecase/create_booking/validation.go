package create_booking

import (
	"fmt"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/pkg/types"
)

// validateRequest checks the request shape before any read happens. A
// request that fails here leaves no trace anywhere.
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
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
	if req.VehicleID != nil && *req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %w", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDuration rejects catalog entries that cannot produce a valid
// interval. Zero or negative durations are refused before any state is read.
func validateDuration(durationMinutes int) error {
	if !domain.ValidDurationMinutes(durationMinutes) {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	return nil
}

// validateDate rejects past dates and dates beyond the booking horizon.
func validateDate(date time.Time, now time.Time, horizonDays int) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	if horizonDays > 0 {
		maxDate := nowOnly.AddDate(0, 0, horizonDays)
		if dateOnly.After(maxDate) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
		}
	}

	return nil
}

// validateStartNotElapsed rejects same-day bookings whose start time has
// already passed.
func validateStartNotElapsed(date time.Time, start types.TimeString, now time.Time) error {
	if !isSameDay(date, now) {
		return nil
	}
	if start.IsBefore(types.NewTimeString(now)) {
		return fmt.Errorf("%w: start time has already passed", ErrInvalidDate)
	}
	return nil
}

// isSameDay reports whether two instants fall on the same calendar day.
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
