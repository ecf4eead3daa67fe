package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/glossworks/booking-engine/internal/domain"
)

// NewBookingCompleted builds the outbox event for a freshly committed
// booking.
func NewBookingCompleted(appt *domain.Appointment, now time.Time) (*domain.OutboxEvent, error) {
	payload := domain.BookingCompletedEvent{
		AppointmentID: appt.ID,
		CustomerID:    appt.CustomerID,
		BusinessID:    appt.BusinessID,
		StaffID:       appt.StaffID,
		ServiceID:     appt.ServiceID,
		BundleID:      appt.BundleID,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
		EndTime:       appt.EndTime.String(),
		Price:         appt.Price,
		BookedAt:      now.UTC().Format(time.RFC3339),
	}
	return newEvent(domain.TopicBookingCompleted, appt.BusinessID, payload)
}

// NewCancellationCompleted builds the outbox event for a cancellation,
// carrying the refund percentage the policy computed.
func NewCancellationCompleted(appt *domain.Appointment, refundPercent int, reason *string, now time.Time) (*domain.OutboxEvent, error) {
	payload := domain.CancellationCompletedEvent{
		AppointmentID: appt.ID,
		CustomerID:    appt.CustomerID,
		BusinessID:    appt.BusinessID,
		RefundPercent: refundPercent,
		Price:         appt.Price,
		Reason:        reason,
		CancelledAt:   now.UTC().Format(time.RFC3339),
	}
	return newEvent(domain.TopicCancellationCompleted, appt.BusinessID, payload)
}

// NewAppointmentRescheduled builds the outbox event for a reschedule. The
// appointment passed in already carries the new date and time.
func NewAppointmentRescheduled(appt *domain.Appointment, rec *domain.RescheduleRecord, now time.Time) (*domain.OutboxEvent, error) {
	payload := domain.AppointmentRescheduledEvent{
		AppointmentID: appt.ID,
		CustomerID:    appt.CustomerID,
		BusinessID:    appt.BusinessID,
		StaffID:       appt.StaffID,
		OriginalDate:  rec.OriginalDate.Format(domain.DateFormat),
		OriginalStart: rec.OriginalStart.String(),
		NewDate:       rec.NewDate.Format(domain.DateFormat),
		NewStart:      rec.NewStart.String(),
		RescheduledAt: now.UTC().Format(time.RFC3339),
	}
	return newEvent(domain.TopicAppointmentRescheduled, appt.BusinessID, payload)
}

func newEvent(topic string, businessID int64, payload interface{}) (*domain.OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal %s payload: %w", topic, err)
	}
	return &domain.OutboxEvent{
		ID:      uuid.NewString(),
		Topic:   topic,
		Key:     strconv.FormatInt(businessID, 10),
		Payload: data,
	}, nil
}
