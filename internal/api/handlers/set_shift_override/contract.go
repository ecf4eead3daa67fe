package set_shift_override

import (
	"context"

	"github.com/glossworks/booking-engine/internal/service/schedule/models"
)

type ScheduleService interface {
	SetOverride(ctx context.Context, staffID int64, req *models.SetOverrideRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
