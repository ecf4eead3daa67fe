package update_business_hours

import (
	"context"

	"github.com/glossworks/booking-engine/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateCalendar(ctx context.Context, businessID int64, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
