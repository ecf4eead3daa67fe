package create_appointment

import (
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	createBooking "github.com/glossworks/booking-engine/internal/usecase/create_booking"
	"github.com/glossworks/booking-engine/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID int64   `json:"businessId"`
	StaffID    *int64  `json:"staffId,omitempty"`
	VehicleID  *int64  `json:"vehicleId,omitempty"`
	ServiceID  *int64  `json:"serviceId,omitempty"`
	BundleID   *int64  `json:"bundleId,omitempty"`
	Date       string  `json:"date"`      // "2026-09-01"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customerId"`
	BusinessID      int64   `json:"businessId"`
	StaffID         int64   `json:"staffId"`
	VehicleID       *int64  `json:"vehicleId,omitempty"`
	ServiceID       int64   `json:"serviceId"`
	BundleID        *int64  `json:"bundleId,omitempty"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	Price           float64 `json:"price"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest parses the date and time fields into the use case model.
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID: customerID,
		BusinessID: r.BusinessID,
		StaffID:    r.StaffID,
		VehicleID:  r.VehicleID,
		ServiceID:  r.ServiceID,
		BundleID:   r.BundleID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse converts the use case result into the HTTP response.
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		BusinessID:      resp.BusinessID,
		StaffID:         resp.StaffID,
		VehicleID:       resp.VehicleID,
		ServiceID:       resp.ServiceID,
		BundleID:        resp.BundleID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		Price:           resp.Price,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
