package create_blocked_interval

import (
	"context"

	"github.com/glossworks/booking-engine/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateBlocked(ctx context.Context, businessID int64, req *models.CreateBlockedIntervalRequest) (*models.BlockedIntervalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
