package cancel_booking

import (
	"context"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
)

// AppointmentRepository is the mutation surface over appointments.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason *string) error
}

// ScheduleRepository supplies the business booking config.
type ScheduleRepository interface {
	GetConfig(ctx context.Context, businessID int64) (*domain.BookingConfig, error)
}

// OutboxRepository appends events inside the cancellation transaction.
type OutboxRepository interface {
	Append(ctx context.Context, event *domain.OutboxEvent) error
}

// TransactionManager runs the mutation under a serializable transaction.
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
