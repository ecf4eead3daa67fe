package cancel_appointment

import (
	"time"

	cancelBooking "github.com/glossworks/booking-engine/internal/usecase/cancel_booking"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	AppointmentID int64  `json:"appointmentId"`
	Status        string `json:"status"`
	RefundPercent int    `json:"refundPercent"`
	ReasonCode    string `json:"reasonCode"`
	CancelledAt   string `json:"cancelledAt"`
}

// FromUseCaseResponse converts the use case result into the HTTP response.
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelAppointmentResponse {
	return &CancelAppointmentResponse{
		AppointmentID: resp.AppointmentID,
		Status:        resp.Status,
		RefundPercent: resp.RefundPercent,
		ReasonCode:    resp.ReasonCode,
		CancelledAt:   resp.CancelledAt.Format(time.RFC3339),
	}
}
