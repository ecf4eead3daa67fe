package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/pkg/types"
)

var (
	// ErrInvalidWindow is returned for a malformed open/close pair
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrInvalidWeekday is returned for an unknown weekday name
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// weekdayNames maps the JSON day keys to time.Weekday.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var weekdayOrder = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Request models

// DayWindowRequest is one weekday's open window. A day absent from the map
// is a closed day.
type DayWindowRequest struct {
	Open  string `json:"open"`  // "09:00"
	Close string `json:"close"` // "17:00"
}

// UpdateCalendarRequest replaces a business's weekly opening hours.
type UpdateCalendarRequest struct {
	Days map[string]DayWindowRequest `json:"days"`
}

// ToDomain converts and validates the calendar request.
func (r *UpdateCalendarRequest) ToDomain(businessID int64) (*domain.BusinessCalendar, error) {
	calendar := &domain.BusinessCalendar{
		BusinessID: businessID,
		Days:       make(map[time.Weekday]domain.DayWindow, len(r.Days)),
	}

	for name, window := range r.Days {
		weekday, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
		}

		open, err := types.NewTimeStringFromString(window.Open)
		if err != nil {
			return nil, fmt.Errorf("%w: %s open: %v", ErrInvalidWindow, name, err)
		}
		close, err := types.NewTimeStringFromString(window.Close)
		if err != nil {
			return nil, fmt.Errorf("%w: %s close: %v", ErrInvalidWindow, name, err)
		}

		dw := domain.DayWindow{Open: open, Close: close}
		if !dw.IsValid() {
			return nil, fmt.Errorf("%w: %s opens at or after close", ErrInvalidWindow, name)
		}
		calendar.Days[weekday] = dw
	}

	return calendar, nil
}

// UpdateShiftRequest replaces a staff member's weekly schedule.
type UpdateShiftRequest struct {
	Days map[string]DayWindowRequest `json:"days"`
}

// ToDomain converts and validates the shift request.
func (r *UpdateShiftRequest) ToDomain(staffID, businessID int64) (*domain.StaffShift, error) {
	shift := &domain.StaffShift{
		StaffID:    staffID,
		BusinessID: businessID,
		Days:       make(map[time.Weekday]domain.ShiftWindow, len(r.Days)),
	}

	for name, window := range r.Days {
		weekday, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
		}

		start, err := types.NewTimeStringFromString(window.Open)
		if err != nil {
			return nil, fmt.Errorf("%w: %s start: %v", ErrInvalidWindow, name, err)
		}
		end, err := types.NewTimeStringFromString(window.Close)
		if err != nil {
			return nil, fmt.Errorf("%w: %s end: %v", ErrInvalidWindow, name, err)
		}

		sw := domain.ShiftWindow{Start: start, End: end}
		if !sw.IsValid() {
			return nil, fmt.Errorf("%w: %s starts at or after end", ErrInvalidWindow, name)
		}
		shift.Days[weekday] = sw
	}

	return shift, nil
}

// SetOverrideRequest records a date-specific exception for a staff member.
type SetOverrideRequest struct {
	Date        string            `json:"date"` // "2026-09-01"
	IsAvailable bool              `json:"isAvailable"`
	Window      *DayWindowRequest `json:"window,omitempty"`
}

// CreateBlockedIntervalRequest blocks a business-wide time range on a date.
type CreateBlockedIntervalRequest struct {
	Date      string  `json:"date"`      // "2026-09-01"
	StartTime string  `json:"startTime"` // "12:00"
	EndTime   string  `json:"endTime"`   // "13:00"
	Reason    *string `json:"reason,omitempty"`
}

// UpdateConfigRequest sets a business's booking parameters.
type UpdateConfigRequest struct {
	SlotGranularityMinutes int `json:"slotGranularityMinutes"`
	HorizonDays            int `json:"horizonDays"`
	MinNoticeHours         int `json:"minNoticeHours"`
	FullRefundHours        int `json:"fullRefundHours"`
	PartialRefundPercent   int `json:"partialRefundPercent"`
}

// Response models

// CalendarResponse is the weekly opening hours DTO.
type CalendarResponse struct {
	BusinessID int64                       `json:"businessId"`
	Days       map[string]DayWindowRequest `json:"days"`
}

// FromDomainCalendar converts the calendar domain model.
func FromDomainCalendar(c *domain.BusinessCalendar) *CalendarResponse {
	resp := &CalendarResponse{
		BusinessID: c.BusinessID,
		Days:       make(map[string]DayWindowRequest, len(c.Days)),
	}
	for _, name := range weekdayOrder {
		if w, ok := c.Days[weekdayNames[name]]; ok {
			resp.Days[name] = DayWindowRequest{Open: w.Open.String(), Close: w.Close.String()}
		}
	}
	return resp
}

// ShiftResponse is one staff member's weekly schedule DTO.
type ShiftResponse struct {
	StaffID    int64                       `json:"staffId"`
	BusinessID int64                       `json:"businessId"`
	Days       map[string]DayWindowRequest `json:"days"`
}

// FromDomainShift converts the shift domain model.
func FromDomainShift(s *domain.StaffShift) *ShiftResponse {
	resp := &ShiftResponse{
		StaffID:    s.StaffID,
		BusinessID: s.BusinessID,
		Days:       make(map[string]DayWindowRequest, len(s.Days)),
	}
	for _, name := range weekdayOrder {
		if w, ok := s.Days[weekdayNames[name]]; ok {
			resp.Days[name] = DayWindowRequest{Open: w.Start.String(), Close: w.End.String()}
		}
	}
	return resp
}

// BlockedIntervalResponse is one blocked interval DTO.
type BlockedIntervalResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Reason    *string `json:"reason,omitempty"`
}

// FromDomainBlocked converts one blocked interval.
func FromDomainBlocked(b *domain.BlockedInterval) *BlockedIntervalResponse {
	return &BlockedIntervalResponse{
		ID:        b.ID,
		Date:      b.Date.Format(domain.DateFormat),
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
		Reason:    b.Reason,
	}
}

// ConfigResponse is the booking parameters DTO.
type ConfigResponse struct {
	BusinessID             int64 `json:"businessId"`
	SlotGranularityMinutes int   `json:"slotGranularityMinutes"`
	HorizonDays            int   `json:"horizonDays"`
	MinNoticeHours         int   `json:"minNoticeHours"`
	FullRefundHours        int   `json:"fullRefundHours"`
	PartialRefundPercent   int   `json:"partialRefundPercent"`
	IsDefault              bool  `json:"isDefault"`
}

// FromDomainConfig converts the config domain model.
func FromDomainConfig(c *domain.BookingConfig, isDefault bool) *ConfigResponse {
	return &ConfigResponse{
		BusinessID:             c.BusinessID,
		SlotGranularityMinutes: c.SlotGranularityMinutes,
		HorizonDays:            c.HorizonDays,
		MinNoticeHours:         c.MinNoticeHours,
		FullRefundHours:        c.FullRefundHours,
		PartialRefundPercent:   c.PartialRefundPercent,
		IsDefault:              isDefault,
	}
}

// ScheduleResponse is the full schedule view of a business.
type ScheduleResponse struct {
	Calendar *CalendarResponse `json:"calendar,omitempty"`
	Shifts   []ShiftResponse   `json:"shifts"`
	Config   *ConfigResponse   `json:"config"`
}
