package update_booking_config

import (
	"context"

	"github.com/glossworks/booking-engine/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateConfig(ctx context.Context, businessID int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
