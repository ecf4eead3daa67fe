package get_appointment

import (
	"context"

	"github.com/glossworks/booking-engine/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, appointmentID, userID int64) (*models.AppointmentResponse, error)
	GetRescheduleHistory(ctx context.Context, appointmentID, userID int64) ([]models.RescheduleRecordResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
