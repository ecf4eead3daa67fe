package domain

import "time"

// BookingConfig is a business's booking parameters. A business without a
// stored config gets the platform defaults.
type BookingConfig struct {
	BusinessID int64

	// SlotGranularityMinutes is the step between candidate slot start times.
	// Independent of service duration.
	SlotGranularityMinutes int

	// HorizonDays is how far ahead slots may be generated and booked.
	HorizonDays int

	MinNoticeHours       int
	FullRefundHours      int
	PartialRefundPercent int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultBookingConfig returns the platform defaults for a business.
func DefaultBookingConfig(businessID int64) *BookingConfig {
	return &BookingConfig{
		BusinessID:             businessID,
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		HorizonDays:            DefaultHorizonDays,
		MinNoticeHours:         DefaultMinNoticeHours,
		FullRefundHours:        DefaultFullRefundHours,
		PartialRefundPercent:   DefaultPartialRefundPercent,
	}
}

// Policy returns the cancellation policy derived from the config thresholds.
func (c *BookingConfig) Policy() CancellationPolicy {
	return CancellationPolicy{
		MinNoticeHours:       c.MinNoticeHours,
		FullRefundHours:      c.FullRefundHours,
		PartialRefundPercent: c.PartialRefundPercent,
	}
}
