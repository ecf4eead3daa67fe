package domain

import "time"

// Outbox topics consumed by external collaborators (notifications, payments,
// loyalty). Events are written in the same transaction as the state change
// and relayed after commit; relay failure never rolls a booking back.
const (
	TopicBookingCompleted       = "booking.completed"
	TopicCancellationCompleted  = "booking.cancellation_completed"
	TopicAppointmentRescheduled = "booking.rescheduled"
)

// OutboxEvent is one pending or published outbound event.
type OutboxEvent struct {
	ID          string // uuid
	Topic       string
	Key         string // partition key, business id
	Payload     []byte // json
	Retries     int
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// BookingCompletedEvent is emitted after a successful booking commit.
type BookingCompletedEvent struct {
	AppointmentID int64   `json:"appointmentId"`
	CustomerID    int64   `json:"customerId"`
	BusinessID    int64   `json:"businessId"`
	StaffID       int64   `json:"staffId"`
	ServiceID     int64   `json:"serviceId"`
	BundleID      *int64  `json:"bundleId,omitempty"`
	Date          string  `json:"date"`      // YYYY-MM-DD
	StartTime     string  `json:"startTime"` // HH:MM
	EndTime       string  `json:"endTime"`   // HH:MM
	Price         float64 `json:"price"`
	BookedAt      string  `json:"bookedAt"` // RFC3339
}

// CancellationCompletedEvent carries the computed refund percentage for the
// payment-refund collaborator.
type CancellationCompletedEvent struct {
	AppointmentID int64   `json:"appointmentId"`
	CustomerID    int64   `json:"customerId"`
	BusinessID    int64   `json:"businessId"`
	RefundPercent int     `json:"refundPercent"`
	Price         float64 `json:"price"`
	Reason        *string `json:"reason,omitempty"`
	CancelledAt   string  `json:"cancelledAt"` // RFC3339
}

// AppointmentRescheduledEvent is emitted after an appointment is moved.
type AppointmentRescheduledEvent struct {
	AppointmentID int64  `json:"appointmentId"`
	CustomerID    int64  `json:"customerId"`
	BusinessID    int64  `json:"businessId"`
	StaffID       int64  `json:"staffId"`
	OriginalDate  string `json:"originalDate"`
	OriginalStart string `json:"originalStart"`
	NewDate       string `json:"newDate"`
	NewStart      string `json:"newStart"`
	RescheduledAt string `json:"rescheduledAt"` // RFC3339
}
