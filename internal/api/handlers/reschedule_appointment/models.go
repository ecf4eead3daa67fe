package reschedule_appointment

import (
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	rescheduleBooking "github.com/glossworks/booking-engine/internal/usecase/reschedule_booking"
	"github.com/glossworks/booking-engine/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	NewDate      string  `json:"newDate"`      // "2026-09-02"
	NewStartTime string  `json:"newStartTime"` // "14:00"
	Reason       *string `json:"reason,omitempty"`
}

// RescheduleAppointmentResponse HTTP response model
type RescheduleAppointmentResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	BusinessID      int64  `json:"businessId"`
	StaffID         int64  `json:"staffId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	OriginalDate    string `json:"originalDate"`
	OriginalStart   string `json:"originalStart"`
}

// ToUseCaseRequest parses the date and time fields into the use case model.
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID, customerID int64) (*rescheduleBooking.Request, error) {
	newDate, err := time.Parse(domain.DateFormat, r.NewDate)
	if err != nil {
		return nil, err
	}

	newStart, err := types.NewTimeStringFromString(r.NewStartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		AppointmentID: appointmentID,
		CustomerID:    customerID,
		NewDate:       newDate,
		NewStartTime:  newStart,
		Reason:        r.Reason,
	}, nil
}

// FromUseCaseResponse converts the use case result into the HTTP response.
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleAppointmentResponse {
	return &RescheduleAppointmentResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		BusinessID:      resp.BusinessID,
		StaffID:         resp.StaffID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		OriginalDate:    resp.OriginalDate.Format(domain.DateFormat),
		OriginalStart:   resp.OriginalStart.String(),
	}
}
