package cancel_booking

import "time"

// Request cancels an appointment on behalf of its customer.
type Request struct {
	AppointmentID int64
	CustomerID    int64
	Reason        *string
}

// Response reports the computed refund.
type Response struct {
	AppointmentID int64
	Status        string
	RefundPercent int
	ReasonCode    string
	CancelledAt   time.Time
}
