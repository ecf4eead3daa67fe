package schedule

import (
	"context"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
)

// ScheduleRepository is the repository surface the service needs.
type ScheduleRepository interface {
	GetCalendar(ctx context.Context, businessID int64) (*domain.BusinessCalendar, error)
	UpsertCalendar(ctx context.Context, calendar *domain.BusinessCalendar) error
	GetConfig(ctx context.Context, businessID int64) (*domain.BookingConfig, error)
	UpsertConfig(ctx context.Context, cfg *domain.BookingConfig) error
	ListBlocked(ctx context.Context, businessID int64, date time.Time) ([]*domain.BlockedInterval, error)
	CreateBlocked(ctx context.Context, b *domain.BlockedInterval) (*domain.BlockedInterval, error)
	DeleteBlocked(ctx context.Context, businessID, id int64) error
	GetShift(ctx context.Context, staffID int64) (*domain.StaffShift, error)
	ListStaffShifts(ctx context.Context, businessID int64) ([]*domain.StaffShift, error)
	UpsertShift(ctx context.Context, shift *domain.StaffShift) error
	UpsertOverride(ctx context.Context, override *domain.ShiftOverride) error
}

// TransactionManager wraps multi-statement replacements in a transaction.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the minimal logging surface the service needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
