package get_available_slots

import (
	"context"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/internal/integrations/catalogservice"
)

// AppointmentRepository is the read surface over booked appointments.
type AppointmentRepository interface {
	ListByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository is the read surface over scheduling configuration.
type ScheduleRepository interface {
	GetCalendar(ctx context.Context, businessID int64) (*domain.BusinessCalendar, error)
	GetConfig(ctx context.Context, businessID int64) (*domain.BookingConfig, error)
	ListBlocked(ctx context.Context, businessID int64, date time.Time) ([]*domain.BlockedInterval, error)
	GetShift(ctx context.Context, staffID int64) (*domain.StaffShift, error)
	ListStaffShifts(ctx context.Context, businessID int64) ([]*domain.StaffShift, error)
	ListOverridesForDate(ctx context.Context, businessID int64, date time.Time) (map[int64]*domain.ShiftOverride, error)
}

// CatalogClient resolves services and bundles to durations.
type CatalogClient interface {
	GetService(ctx context.Context, businessID, serviceID int64) (*catalogservice.Service, error)
	GetBundle(ctx context.Context, businessID, bundleID int64) (*catalogservice.Bundle, error)
}

// TimeProvider supplies the current time (swappable in tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the minimal logging surface the usecase needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production time provider.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
