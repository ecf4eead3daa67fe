package models

import (
	"errors"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
)

var (
	// ErrInvalidStatus is returned for an unknown status string
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request models

// UpdateStatusRequest moves an appointment through its lifecycle.
type UpdateStatusRequest struct {
	ActorID int64  `json:"actorId"`
	Status  string `json:"status"`
}

// GetCustomerAppointmentsRequest lists one customer's appointments.
type GetCustomerAppointmentsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetBusinessAppointmentsRequest lists a business's appointments with
// optional filtering.
type GetBusinessAppointmentsRequest struct {
	BusinessID      int64      `json:"businessId"`
	StaffID         *int64     `json:"staffId,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter converts the request into the repository filter.
func (r *GetBusinessAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		BusinessID:      r.BusinessID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	return filter, nil
}

// Response models

// AppointmentResponse is the appointment DTO.
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	BusinessID      int64  `json:"businessId"`
	StaffID         int64  `json:"staffId"`
	VehicleID       *int64 `json:"vehicleId,omitempty"`
	ServiceID       int64  `json:"serviceId"`
	BundleID        *int64 `json:"bundleId,omitempty"`
	Date            string `json:"date"`      // "2026-09-01"
	StartTime       string `json:"startTime"` // "10:00"
	EndTime         string `json:"endTime"`   // "11:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse is a list of appointments.
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// RescheduleRecordResponse is one reschedule audit entry.
type RescheduleRecordResponse struct {
	ID            int64   `json:"id"`
	AppointmentID int64   `json:"appointmentId"`
	OriginalDate  string  `json:"originalDate"`
	OriginalStart string  `json:"originalStart"`
	NewDate       string  `json:"newDate"`
	NewStart      string  `json:"newStart"`
	Reason        *string `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Converters

// FromDomainAppointment converts the domain model into the DTO.
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		BusinessID:         a.BusinessID,
		StaffID:            a.StaffID,
		VehicleID:          a.VehicleID,
		ServiceID:          a.ServiceID,
		BundleID:           a.BundleID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ServiceName:        a.ServiceName,
		Price:              a.Price,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList converts a slice of domain models into the list DTO.
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	list := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		list.Appointments = append(list.Appointments, *FromDomainAppointment(a))
	}
	return list
}

// FromDomainRescheduleRecords converts reschedule audit entries.
func FromDomainRescheduleRecords(records []*domain.RescheduleRecord) []RescheduleRecordResponse {
	result := make([]RescheduleRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, RescheduleRecordResponse{
			ID:            r.ID,
			AppointmentID: r.AppointmentID,
			OriginalDate:  r.OriginalDate.Format(domain.DateFormat),
			OriginalStart: r.OriginalStart.String(),
			NewDate:       r.NewDate.Format(domain.DateFormat),
			NewStart:      r.NewStart.String(),
			Reason:        r.Reason,
			CreatedAt:     r.CreatedAt,
		})
	}
	return result
}

// ToDomainStatus parses a status string.
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	if !domain.ValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}
