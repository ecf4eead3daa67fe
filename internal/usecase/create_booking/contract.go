package create_booking

import (
	"context"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/internal/integrations/catalogservice"
)

// AppointmentRepository is the write surface over appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	ListByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository is the read surface over scheduling configuration.
type ScheduleRepository interface {
	GetCalendar(ctx context.Context, businessID int64) (*domain.BusinessCalendar, error)
	GetConfig(ctx context.Context, businessID int64) (*domain.BookingConfig, error)
	ListBlocked(ctx context.Context, businessID int64, date time.Time) ([]*domain.BlockedInterval, error)
	GetShift(ctx context.Context, staffID int64) (*domain.StaffShift, error)
	ListStaffShifts(ctx context.Context, businessID int64) ([]*domain.StaffShift, error)
	GetOverride(ctx context.Context, staffID int64, date time.Time) (*domain.ShiftOverride, error)
}

// OutboxRepository appends events inside the booking transaction.
type OutboxRepository interface {
	Append(ctx context.Context, event *domain.OutboxEvent) error
}

// CatalogClient resolves services and bundles to duration and price.
type CatalogClient interface {
	GetService(ctx context.Context, businessID, serviceID int64) (*catalogservice.Service, error)
	GetBundle(ctx context.Context, businessID, bundleID int64) (*catalogservice.Bundle, error)
}

// TransactionManager runs the commit under a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
