package get_available_slots

import (
	"github.com/glossworks/booking-engine/internal/domain"
	getAvailableSlots "github.com/glossworks/booking-engine/internal/usecase/get_available_slots"
)

// SlotResponse is one bookable interval.
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	StaffID   int64  `json:"staffId"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	BusinessID      int64          `json:"businessId"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse converts the use case result into the HTTP response.
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			StaffID:   s.StaffID,
		})
	}
	return &AvailableSlotsResponse{
		BusinessID:      resp.BusinessID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
