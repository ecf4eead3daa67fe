package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/internal/events"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
	catalogClient "github.com/glossworks/booking-engine/internal/integrations/catalogservice"
	"github.com/glossworks/booking-engine/pkg/types"
)

// UseCase books an appointment. The commit runs under a serializable
// transaction with the staff member's day locked, so two concurrent requests
// for overlapping ranges can never both succeed.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	outboxRepo      OutboxRepository
	catalogClient   CatalogClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the usecase.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	outboxRepo OutboxRepository,
	catalogClient CatalogClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		outboxRepo:      outboxRepo,
		catalogClient:   catalogClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// resolvedCatalogItem is the catalog data denormalized into the appointment.
type resolvedCatalogItem struct {
	ServiceID int64
	BundleID  *int64
	Name      string
	Duration  int
	Price     float64
}

// Execute books the appointment.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, business=%d, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Validate input before touching any state
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Resolve the catalog item; duration and price are captured at
	// booking time and survive later catalog edits
	item, err := uc.resolveCatalogItem(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := validateDuration(item.Duration); err != nil {
		uc.logger.Warn("CreateBooking: catalog item has invalid duration %d", item.Duration)
		return nil, err
	}

	endTime, err := req.StartTime.AddMinutes(item.Duration)
	if err != nil {
		uc.logger.Warn("CreateBooking: requested range crosses midnight: %v", err)
		return nil, fmt.Errorf("%w: appointment would cross midnight", ErrInvalidInput)
	}

	var result *domain.Appointment

	// 3. Everything that decides availability happens inside one
	// serializable transaction
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Booking config, with platform defaults as fallback
		config, err := uc.scheduleRepo.GetConfig(txCtx, req.BusinessID)
		if err != nil {
			if !errors.Is(err, scheduleRepo.ErrConfigNotFound) {
				uc.logger.Error("CreateBooking: failed to get config: %v", err)
				return fmt.Errorf("%w: failed to get config: %w", ErrInternal, err)
			}
			config = domain.DefaultBookingConfig(req.BusinessID)
		}

		// 3.2. Date checks against the horizon
		if err := validateDate(req.Date, now, config.HorizonDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}
		if err := validateStartNotElapsed(req.Date, req.StartTime, now); err != nil {
			uc.logger.Warn("CreateBooking: start time validation failed: %v", err)
			return err
		}

		// 3.3. The business must be open and the range inside the day window
		calendar, err := uc.scheduleRepo.GetCalendar(txCtx, req.BusinessID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrCalendarNotFound) {
				uc.logger.Warn("CreateBooking: business id=%d has no calendar", req.BusinessID)
				return ErrBusinessClosed
			}
			uc.logger.Error("CreateBooking: failed to get calendar: %v", err)
			return fmt.Errorf("%w: failed to get calendar: %w", ErrInternal, err)
		}

		dayWindow, open := calendar.WindowFor(req.Date.Weekday())
		if !open {
			uc.logger.Warn("CreateBooking: business id=%d is closed on %s", req.BusinessID, req.Date.Format(domain.DateFormat))
			return ErrBusinessClosed
		}
		if !dayWindow.Contains(req.StartTime, endTime) {
			uc.logger.Warn("CreateBooking: range %s-%s is outside business hours", req.StartTime, endTime)
			return ErrSlotUnavailable
		}

		// 3.4. Business-wide blocked intervals
		blocked, err := uc.scheduleRepo.ListBlocked(txCtx, req.BusinessID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list blocked intervals: %v", err)
			return fmt.Errorf("%w: failed to list blocked intervals: %w", ErrInternal, err)
		}

		// 3.5. Resolve the staff member, explicit or auto-assigned. The
		// chosen staff member's day is locked (FOR UPDATE) before the
		// conflict check.
		staffID, err := uc.resolveStaff(txCtx, req, dayWindow, endTime, blocked)
		if err != nil {
			return err
		}

		// 3.6. Build and persist the appointment
		appt := &domain.Appointment{
			CustomerID:      req.CustomerID,
			BusinessID:      req.BusinessID,
			StaffID:         staffID,
			VehicleID:       req.VehicleID,
			ServiceID:       item.ServiceID,
			BundleID:        item.BundleID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: item.Duration,
			Status:          domain.StatusScheduled,
			ServiceName:     item.Name,
			Price:           item.Price,
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		// 3.7. Emit the booking event through the outbox, same transaction
		event, err := events.NewBookingCompleted(created, now)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to build event: %v", err)
			return fmt.Errorf("%w: failed to build event: %w", ErrInternal, err)
		}
		if err := uc.outboxRepo.Append(txCtx, event); err != nil {
			uc.logger.Error("CreateBooking: failed to append outbox event: %v", err)
			return fmt.Errorf("%w: failed to append outbox event: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created appointment id=%d, staff=%d", result.ID, result.StaffID)

	return toResponse(result), nil
}

// resolveCatalogItem fetches the service or bundle behind the request.
func (uc *UseCase) resolveCatalogItem(ctx context.Context, req *Request) (*resolvedCatalogItem, error) {
	if req.ServiceID != nil {
		service, err := uc.catalogClient.GetService(ctx, req.BusinessID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}
		return &resolvedCatalogItem{
			ServiceID: service.ID,
			Name:      service.Name,
			Duration:  service.DurationMinutes,
			Price:     service.Price,
		}, nil
	}

	bundle, err := uc.catalogClient.GetBundle(ctx, req.BusinessID, *req.BundleID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBundleNotFound) {
			uc.logger.Warn("CreateBooking: bundle id=%d not found", *req.BundleID)
			return nil, ErrBundleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get bundle id=%d: %v", *req.BundleID, err)
		return nil, fmt.Errorf("%w: failed to get bundle: %w", ErrInternal, err)
	}

	// A bundle appointment records the first member service as its primary
	// service id; the bundle id carries the full composition.
	primaryService := int64(0)
	if len(bundle.ServiceIDs) > 0 {
		primaryService = bundle.ServiceIDs[0]
	}
	return &resolvedCatalogItem{
		ServiceID: primaryService,
		BundleID:  &bundle.ID,
		Name:      bundle.Name,
		Duration:  bundle.DurationMinutes,
		Price:     bundle.Price,
	}, nil
}

// resolveStaff picks the staff member for the booking. An explicit staff id
// is verified free; otherwise staff are tried in ascending id order and the
// first one whose window fits and whose day has no conflicting appointment
// wins. Each candidate's day is locked before its conflict check.
func (uc *UseCase) resolveStaff(
	ctx context.Context,
	req *Request,
	dayWindow domain.DayWindow,
	endTime types.TimeString,
	blocked []*domain.BlockedInterval,
) (int64, error) {
	if req.StaffID != nil {
		free, err := uc.staffIsFree(ctx, req, *req.StaffID, dayWindow, endTime, blocked)
		if err != nil {
			return 0, err
		}
		if !free {
			uc.logger.Warn("CreateBooking: staff=%d is not free at %s-%s", *req.StaffID, req.StartTime, endTime)
			return 0, ErrSlotUnavailable
		}
		return *req.StaffID, nil
	}

	shifts, err := uc.scheduleRepo.ListStaffShifts(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list staff shifts: %v", err)
		return 0, fmt.Errorf("%w: failed to list staff shifts: %w", ErrInternal, err)
	}

	sort.Slice(shifts, func(i, j int) bool { return shifts[i].StaffID < shifts[j].StaffID })

	for _, shift := range shifts {
		free, err := uc.staffIsFree(ctx, req, shift.StaffID, dayWindow, endTime, blocked)
		if err != nil {
			return 0, err
		}
		if free {
			return shift.StaffID, nil
		}
	}

	uc.logger.Warn("CreateBooking: no staff available for business=%d at %s-%s", req.BusinessID, req.StartTime, endTime)
	return 0, ErrNoStaffAvailable
}

// staffIsFree checks one staff member: working that date, window covers the
// range, and no conflict against the locked day listing.
func (uc *UseCase) staffIsFree(
	ctx context.Context,
	req *Request,
	staffID int64,
	dayWindow domain.DayWindow,
	endTime types.TimeString,
	blocked []*domain.BlockedInterval,
) (bool, error) {
	shift, err := uc.scheduleRepo.GetShift(ctx, staffID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrShiftNotFound) {
			return false, nil
		}
		uc.logger.Error("CreateBooking: failed to get shift for staff=%d: %v", staffID, err)
		return false, fmt.Errorf("%w: failed to get shift: %w", ErrInternal, err)
	}
	if shift.BusinessID != req.BusinessID {
		return false, nil
	}

	override, err := uc.scheduleRepo.GetOverride(ctx, staffID, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get override for staff=%d: %v", staffID, err)
		return false, fmt.Errorf("%w: failed to get override: %w", ErrInternal, err)
	}

	window := domain.EffectiveShift(shift, override, req.Date)
	if window == nil {
		return false, nil
	}

	effective := domain.IntersectWindows(*window, dayWindow)
	if effective == nil {
		return false, nil
	}
	if req.StartTime.IsBefore(effective.Start) || endTime.IsAfter(effective.End) {
		return false, nil
	}

	// FOR UPDATE listing: this serializes concurrent bookings per staff/date.
	appointments, err := uc.appointmentRepo.ListByStaffAndDate(ctx, staffID, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list appointments for staff=%d: %v", staffID, err)
		return false, fmt.Errorf("%w: failed to list appointments: %w", ErrInternal, err)
	}

	check := domain.ConflictCheck{
		StaffID: &staffID,
		Start:   req.StartTime,
		End:     endTime,
	}
	return !domain.HasConflict(check, appointments, blocked), nil
}

func toResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:              appt.ID,
		CustomerID:      appt.CustomerID,
		BusinessID:      appt.BusinessID,
		StaffID:         appt.StaffID,
		VehicleID:       appt.VehicleID,
		ServiceID:       appt.ServiceID,
		BundleID:        appt.BundleID,
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		EndTime:         appt.EndTime,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		ServiceName:     appt.ServiceName,
		Price:           appt.Price,
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
