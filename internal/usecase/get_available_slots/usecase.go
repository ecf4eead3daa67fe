package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/glossworks/booking-engine/internal/domain"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
	catalogClient "github.com/glossworks/booking-engine/internal/integrations/catalogservice"
)

// UseCase computes the bookable slots of one business day.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the usecase.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute generates available slots. This is a pure read: past dates, dates
// beyond the booking horizon and closed days all yield an empty list rather
// than an error.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, date=%s", req.BusinessID, req.Date.Format(domain.DateFormat))

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Resolve the requested service or bundle to a duration
	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := validateDuration(duration); err != nil {
		uc.logger.Warn("GetAvailableSlots: catalog duration %d rejected: %v", duration, err)
		return nil, err
	}

	emptyResponse := &Response{
		BusinessID:      req.BusinessID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}

	// 3. Load the booking config, falling back to platform defaults
	config, err := uc.scheduleRepo.GetConfig(ctx, req.BusinessID)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
			return nil, fmt.Errorf("%w: failed to get config: %w", ErrInternal, err)
		}
		config = domain.DefaultBookingConfig(req.BusinessID)
	}

	// 4. Past dates and dates beyond the horizon have no slots
	if isDateInPast(req.Date, now) || isBeyondHorizon(req.Date, now, config.HorizonDays) {
		return emptyResponse, nil
	}

	// 5. Load the business calendar; a missing calendar or closed day has
	// no slots either
	calendar, err := uc.scheduleRepo.GetCalendar(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrCalendarNotFound) {
			return emptyResponse, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get calendar: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar: %w", ErrInternal, err)
	}

	dayWindow, open := calendar.WindowFor(req.Date.Weekday())
	if !open {
		return emptyResponse, nil
	}

	// 6. Load the day's obstacles: appointments and blocked intervals
	appointments, err := uc.appointmentRepo.ListByBusinessAndDate(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %w", ErrInternal, err)
	}

	blocked, err := uc.scheduleRepo.ListBlocked(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list blocked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to list blocked intervals: %w", ErrInternal, err)
	}

	// 7. Resolve the candidate staff and their effective windows
	shifts, err := uc.resolveShifts(ctx, req)
	if err != nil {
		return nil, err
	}

	overrides, err := uc.scheduleRepo.ListOverridesForDate(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list overrides: %v", err)
		return nil, fmt.Errorf("%w: failed to list overrides: %w", ErrInternal, err)
	}

	// 8. Generate per-staff slots and merge
	byStaff := groupByStaff(appointments)
	slots := make([]Slot, 0)

	for _, shift := range shifts {
		window := domain.EffectiveShift(shift, overrides[shift.StaffID], req.Date)
		staffSlots, err := generateStaffSlots(
			shift.StaffID,
			window,
			dayWindow,
			duration,
			config.SlotGranularityMinutes,
			byStaff[shift.StaffID],
			blocked,
		)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to generate slots for staff=%d: %v", shift.StaffID, err)
			return nil, fmt.Errorf("%w: failed to generate slots: %w", ErrInternal, err)
		}
		slots = append(slots, staffSlots...)
	}

	slots = filterPastSlots(slots, req.Date, now)
	sortSlots(slots)

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, date=%s",
		len(slots), req.BusinessID, req.Date.Format(domain.DateFormat))

	return &Response{
		BusinessID:      req.BusinessID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}

// resolveDuration looks the requested service or bundle up in the catalog.
func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.ServiceID != nil {
		service, err := uc.catalogClient.GetService(ctx, req.BusinessID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
				return 0, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return 0, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}
		return service.DurationMinutes, nil
	}

	bundle, err := uc.catalogClient.GetBundle(ctx, req.BusinessID, *req.BundleID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBundleNotFound) {
			uc.logger.Warn("GetAvailableSlots: bundle id=%d not found", *req.BundleID)
			return 0, ErrBundleNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get bundle id=%d: %v", *req.BundleID, err)
		return 0, fmt.Errorf("%w: failed to get bundle: %w", ErrInternal, err)
	}
	return bundle.DurationMinutes, nil
}

// resolveShifts loads the weekly schedules of the requested staff member, or
// of the whole business when no staff filter is given. An unknown staff
// member simply has no slots.
func (uc *UseCase) resolveShifts(ctx context.Context, req *Request) ([]*domain.StaffShift, error) {
	if req.StaffID == nil {
		shifts, err := uc.scheduleRepo.ListStaffShifts(ctx, req.BusinessID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list staff shifts: %v", err)
			return nil, fmt.Errorf("%w: failed to list staff shifts: %w", ErrInternal, err)
		}
		return shifts, nil
	}

	shift, err := uc.scheduleRepo.GetShift(ctx, *req.StaffID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrShiftNotFound) {
			return []*domain.StaffShift{}, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get shift for staff=%d: %v", *req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get shift: %w", ErrInternal, err)
	}
	if shift.BusinessID != req.BusinessID {
		return []*domain.StaffShift{}, nil
	}
	return []*domain.StaffShift{shift}, nil
}
