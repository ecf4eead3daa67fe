package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
	"github.com/glossworks/booking-engine/internal/service/schedule/models"
	"github.com/glossworks/booking-engine/pkg/types"
)

// Service manages the scheduling configuration of a business: opening hours,
// staff shifts, shift overrides, blocked intervals and booking parameters.
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService creates the schedule service.
func NewService(scheduleRepo ScheduleRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule returns the full schedule view of a business: calendar, staff
// shifts and booking config (platform defaults when none is stored).
func (s *Service) GetSchedule(ctx context.Context, businessID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: business=%d", businessID)

	resp := &models.ScheduleResponse{Shifts: make([]models.ShiftResponse, 0)}

	calendar, err := s.scheduleRepo.GetCalendar(ctx, businessID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrCalendarNotFound) {
		s.logger.Error("GetSchedule: failed to get calendar: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %w", ErrInternal, err)
	}
	if calendar != nil {
		resp.Calendar = models.FromDomainCalendar(calendar)
	}

	shifts, err := s.scheduleRepo.ListStaffShifts(ctx, businessID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to list shifts: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %w", ErrInternal, err)
	}
	for _, shift := range shifts {
		resp.Shifts = append(resp.Shifts, *models.FromDomainShift(shift))
	}

	config, err := s.scheduleRepo.GetConfig(ctx, businessID)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			s.logger.Error("GetSchedule: failed to get config: %v", err)
			return nil, fmt.Errorf("%w: GetSchedule - repository error: %w", ErrInternal, err)
		}
		resp.Config = models.FromDomainConfig(domain.DefaultBookingConfig(businessID), true)
	} else {
		resp.Config = models.FromDomainConfig(config, false)
	}

	return resp, nil
}

// UpdateCalendar replaces a business's weekly opening hours.
func (s *Service) UpdateCalendar(ctx context.Context, businessID int64, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("UpdateCalendar: business=%d, %d open days", businessID, len(req.Days))

	calendar, err := req.ToDomain(businessID)
	if err != nil {
		s.logger.Warn("UpdateCalendar: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// Delete-and-insert must be atomic
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.UpsertCalendar(txCtx, calendar)
	})
	if err != nil {
		s.logger.Error("UpdateCalendar: failed to store calendar: %v", err)
		return nil, fmt.Errorf("%w: UpdateCalendar - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainCalendar(calendar), nil
}

// UpdateShift replaces a staff member's weekly schedule.
func (s *Service) UpdateShift(ctx context.Context, staffID, businessID int64, req *models.UpdateShiftRequest) (*models.ShiftResponse, error) {
	s.logger.Info("UpdateShift: staff=%d, business=%d", staffID, businessID)

	shift, err := req.ToDomain(staffID, businessID)
	if err != nil {
		s.logger.Warn("UpdateShift: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.UpsertShift(txCtx, shift)
	})
	if err != nil {
		s.logger.Error("UpdateShift: failed to store shift: %v", err)
		return nil, fmt.Errorf("%w: UpdateShift - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainShift(shift), nil
}

// SetOverride records a date-specific exception for a staff member: a day
// off, or a custom window replacing the weekly default.
func (s *Service) SetOverride(ctx context.Context, staffID int64, req *models.SetOverrideRequest) error {
	s.logger.Info("SetOverride: staff=%d, date=%s, available=%v", staffID, req.Date, req.IsAvailable)

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		s.logger.Warn("SetOverride: invalid date %q", req.Date)
		return fmt.Errorf("%w: invalid date: %w", ErrInvalidInput, err)
	}

	override := &domain.ShiftOverride{
		StaffID:     staffID,
		Date:        date,
		IsAvailable: req.IsAvailable,
	}

	if req.Window != nil {
		start, err := types.NewTimeStringFromString(req.Window.Open)
		if err != nil {
			return fmt.Errorf("%w: invalid window open: %w", ErrInvalidInput, err)
		}
		end, err := types.NewTimeStringFromString(req.Window.Close)
		if err != nil {
			return fmt.Errorf("%w: invalid window close: %w", ErrInvalidInput, err)
		}
		window := domain.ShiftWindow{Start: start, End: end}
		if !window.IsValid() {
			return fmt.Errorf("%w: window starts at or after end", ErrInvalidInput)
		}
		override.Window = &window
	}

	if err := s.scheduleRepo.UpsertOverride(ctx, override); err != nil {
		s.logger.Error("SetOverride: failed to store override: %v", err)
		return fmt.Errorf("%w: SetOverride - repository error: %w", ErrInternal, err)
	}

	return nil
}

// ListBlocked returns a business's blocked intervals on a date.
func (s *Service) ListBlocked(ctx context.Context, businessID int64, date time.Time) ([]models.BlockedIntervalResponse, error) {
	intervals, err := s.scheduleRepo.ListBlocked(ctx, businessID, date)
	if err != nil {
		s.logger.Error("ListBlocked: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlocked - repository error: %w", ErrInternal, err)
	}

	result := make([]models.BlockedIntervalResponse, 0, len(intervals))
	for _, b := range intervals {
		result = append(result, *models.FromDomainBlocked(b))
	}
	return result, nil
}

// CreateBlocked blocks a business-wide time range on a date. New bookings
// overlapping the range are refused from commit on; existing appointments
// are untouched.
func (s *Service) CreateBlocked(ctx context.Context, businessID int64, req *models.CreateBlockedIntervalRequest) (*models.BlockedIntervalResponse, error) {
	s.logger.Info("CreateBlocked: business=%d, date=%s, %s-%s", businessID, req.Date, req.StartTime, req.EndTime)

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		s.logger.Warn("CreateBlocked: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: invalid date: %w", ErrInvalidInput, err)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %w", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %w", ErrInvalidInput, err)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxBlockReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	interval := &domain.BlockedInterval{
		BusinessID: businessID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Reason:     req.Reason,
	}
	if !interval.IsValid() {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	created, err := s.scheduleRepo.CreateBlocked(ctx, interval)
	if err != nil {
		s.logger.Error("CreateBlocked: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlocked - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBlocked(created), nil
}

// DeleteBlocked removes a blocked interval.
func (s *Service) DeleteBlocked(ctx context.Context, businessID, id int64) error {
	s.logger.Info("DeleteBlocked: business=%d, id=%d", businessID, id)

	if err := s.scheduleRepo.DeleteBlocked(ctx, businessID, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedIntervalNotFound) {
			s.logger.Warn("DeleteBlocked: interval id=%d not found for business=%d", id, businessID)
			return ErrBlockedIntervalNotFound
		}
		s.logger.Error("DeleteBlocked: repository error: %v", err)
		return fmt.Errorf("%w: DeleteBlocked - repository error: %w", ErrInternal, err)
	}
	return nil
}

// UpdateConfig sets a business's booking parameters.
func (s *Service) UpdateConfig(ctx context.Context, businessID int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("UpdateConfig: business=%d", businessID)

	if err := validateConfig(req); err != nil {
		s.logger.Warn("UpdateConfig: invalid request: %v", err)
		return nil, err
	}

	cfg := &domain.BookingConfig{
		BusinessID:             businessID,
		SlotGranularityMinutes: req.SlotGranularityMinutes,
		HorizonDays:            req.HorizonDays,
		MinNoticeHours:         req.MinNoticeHours,
		FullRefundHours:        req.FullRefundHours,
		PartialRefundPercent:   req.PartialRefundPercent,
	}

	if err := s.scheduleRepo.UpsertConfig(ctx, cfg); err != nil {
		s.logger.Error("UpdateConfig: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg, false), nil
}

func validateConfig(req *models.UpdateConfigRequest) error {
	if req.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || req.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}
	if req.HorizonDays < domain.MinHorizonDays || req.HorizonDays > domain.MaxHorizonDays {
		return fmt.Errorf("%w: horizonDays must be between %d and %d",
			ErrInvalidInput, domain.MinHorizonDays, domain.MaxHorizonDays)
	}
	if req.MinNoticeHours < 0 {
		return fmt.Errorf("%w: minNoticeHours must not be negative", ErrInvalidInput)
	}
	if req.FullRefundHours < req.MinNoticeHours {
		return fmt.Errorf("%w: fullRefundHours must not be below minNoticeHours", ErrInvalidInput)
	}
	if req.PartialRefundPercent < 0 || req.PartialRefundPercent > 100 {
		return fmt.Errorf("%w: partialRefundPercent must be 0-100", ErrInvalidInput)
	}
	return nil
}
