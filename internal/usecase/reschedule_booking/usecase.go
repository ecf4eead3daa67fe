package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/internal/events"
	appointmentRepo "github.com/glossworks/booking-engine/internal/infra/storage/appointment"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
	"github.com/glossworks/booking-engine/pkg/types"
)

// UseCase moves an appointment to a new time. The target range is validated
// exactly like a fresh booking, except the appointment's own current range is
// excluded from the conflict check so moving within it works.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	outboxRepo      OutboxRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the usecase.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute moves the appointment.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: appointment=%d, customer=%d, newDate=%s, newTime=%s",
		req.AppointmentID, req.CustomerID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Locked read (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleBooking: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		if appt.CustomerID != req.CustomerID {
			uc.logger.Warn("RescheduleBooking: appointment id=%d belongs to customer=%d, not %d",
				req.AppointmentID, appt.CustomerID, req.CustomerID)
			return ErrNotOwner
		}

		// Notice window check, same threshold as cancellation
		config, err := uc.resolveConfig(txCtx, appt.BusinessID)
		if err != nil {
			return err
		}
		if !config.Policy().CanReschedule(appt, now) {
			uc.logger.Warn("RescheduleBooking: appointment id=%d rejected by policy", req.AppointmentID)
			return fmt.Errorf("%w: too little notice or appointment is not movable", ErrPolicyViolation)
		}

		newEnd, err := req.NewStartTime.AddMinutes(appt.DurationMinutes)
		if err != nil {
			uc.logger.Warn("RescheduleBooking: target range crosses midnight: %v", err)
			return fmt.Errorf("%w: appointment would cross midnight", ErrInvalidInput)
		}

		// The target range is validated like a fresh booking
		if err := uc.validateTarget(txCtx, appt, req, newEnd, now, config); err != nil {
			return err
		}

		originalDate := appt.Date
		originalStart := appt.StartTime

		if err := uc.appointmentRepo.Reschedule(txCtx, appt.ID, req.NewDate, req.NewStartTime, newEnd); err != nil {
			uc.logger.Error("RescheduleBooking: failed to move appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to move appointment: %w", ErrInternal, err)
		}

		rec := &domain.RescheduleRecord{
			AppointmentID: appt.ID,
			OriginalDate:  originalDate,
			OriginalStart: originalStart,
			NewDate:       req.NewDate,
			NewStart:      req.NewStartTime,
			Reason:        req.Reason,
		}
		if err := uc.appointmentRepo.CreateRescheduleRecord(txCtx, rec); err != nil {
			uc.logger.Error("RescheduleBooking: failed to record reschedule for id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to record reschedule: %w", ErrInternal, err)
		}

		moved := *appt
		moved.Date = req.NewDate
		moved.StartTime = req.NewStartTime
		moved.EndTime = newEnd

		event, err := events.NewAppointmentRescheduled(&moved, rec, now)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to build event: %v", err)
			return fmt.Errorf("%w: failed to build event: %w", ErrInternal, err)
		}
		if err := uc.outboxRepo.Append(txCtx, event); err != nil {
			uc.logger.Error("RescheduleBooking: failed to append outbox event: %v", err)
			return fmt.Errorf("%w: failed to append outbox event: %w", ErrInternal, err)
		}

		result = &Response{
			ID:              appt.ID,
			CustomerID:      appt.CustomerID,
			BusinessID:      appt.BusinessID,
			StaffID:         appt.StaffID,
			Date:            req.NewDate,
			StartTime:       req.NewStartTime,
			EndTime:         newEnd,
			DurationMinutes: appt.DurationMinutes,
			Status:          string(appt.Status),
			OriginalDate:    originalDate,
			OriginalStart:   originalStart,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: moved appointment id=%d to %s %s",
		result.ID, result.Date.Format(domain.DateFormat), result.StartTime)
	return result, nil
}

// validateTarget applies the booking-path checks to the target range: date
// bounds, business hours, staff window, blocked intervals and appointment
// conflicts (excluding the appointment being moved).
func (uc *UseCase) validateTarget(
	ctx context.Context,
	appt *domain.Appointment,
	req *Request,
	newEnd types.TimeString,
	now time.Time,
	config *domain.BookingConfig,
) error {
	if err := validateDate(req.NewDate, now, config.HorizonDays); err != nil {
		uc.logger.Warn("RescheduleBooking: target date validation failed: %v", err)
		return err
	}
	if isSameDay(req.NewDate, now) && req.NewStartTime.IsBefore(types.NewTimeString(now)) {
		uc.logger.Warn("RescheduleBooking: target start time has already passed")
		return ErrInvalidDate
	}

	calendar, err := uc.scheduleRepo.GetCalendar(ctx, appt.BusinessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrCalendarNotFound) {
			return ErrBusinessClosed
		}
		uc.logger.Error("RescheduleBooking: failed to get calendar: %v", err)
		return fmt.Errorf("%w: failed to get calendar: %w", ErrInternal, err)
	}

	dayWindow, open := calendar.WindowFor(req.NewDate.Weekday())
	if !open {
		uc.logger.Warn("RescheduleBooking: business id=%d is closed on %s",
			appt.BusinessID, req.NewDate.Format(domain.DateFormat))
		return ErrBusinessClosed
	}
	if !dayWindow.Contains(req.NewStartTime, newEnd) {
		uc.logger.Warn("RescheduleBooking: target range %s-%s is outside business hours", req.NewStartTime, newEnd)
		return ErrSlotUnavailable
	}

	// The staff member must be working the target range
	shift, err := uc.scheduleRepo.GetShift(ctx, appt.StaffID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrShiftNotFound) {
			return ErrSlotUnavailable
		}
		uc.logger.Error("RescheduleBooking: failed to get shift for staff=%d: %v", appt.StaffID, err)
		return fmt.Errorf("%w: failed to get shift: %w", ErrInternal, err)
	}

	override, err := uc.scheduleRepo.GetOverride(ctx, appt.StaffID, req.NewDate)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get override for staff=%d: %v", appt.StaffID, err)
		return fmt.Errorf("%w: failed to get override: %w", ErrInternal, err)
	}

	window := domain.EffectiveShift(shift, override, req.NewDate)
	if window == nil {
		return ErrSlotUnavailable
	}
	effective := domain.IntersectWindows(*window, dayWindow)
	if effective == nil || req.NewStartTime.IsBefore(effective.Start) || newEnd.IsAfter(effective.End) {
		return ErrSlotUnavailable
	}

	blocked, err := uc.scheduleRepo.ListBlocked(ctx, appt.BusinessID, req.NewDate)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to list blocked intervals: %v", err)
		return fmt.Errorf("%w: failed to list blocked intervals: %w", ErrInternal, err)
	}

	// FOR UPDATE listing of the target day for the same staff member
	appointments, err := uc.appointmentRepo.ListByStaffAndDate(ctx, appt.StaffID, req.NewDate)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to list appointments: %v", err)
		return fmt.Errorf("%w: failed to list appointments: %w", ErrInternal, err)
	}

	// The appointment being moved never conflicts with itself
	check := domain.ConflictCheck{
		StaffID:              &appt.StaffID,
		Start:                req.NewStartTime,
		End:                  newEnd,
		ExcludeAppointmentID: &appt.ID,
	}
	if domain.HasConflict(check, appointments, blocked) {
		uc.logger.Warn("RescheduleBooking: target range %s-%s conflicts", req.NewStartTime, newEnd)
		return ErrSlotUnavailable
	}

	return nil
}

// validateDate rejects past target dates and dates beyond the horizon.
func validateDate(date time.Time, now time.Time, horizonDays int) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}
	if horizonDays > 0 && dateOnly.After(nowOnly.AddDate(0, 0, horizonDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}
	return nil
}

// isSameDay reports whether two instants fall on the same calendar day.
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (uc *UseCase) resolveConfig(ctx context.Context, businessID int64) (*domain.BookingConfig, error) {
	config, err := uc.scheduleRepo.GetConfig(ctx, businessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			return domain.DefaultBookingConfig(businessID), nil
		}
		uc.logger.Error("RescheduleBooking: failed to get config for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get config: %w", ErrInternal, err)
	}
	return config, nil
}

func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}
	if req.NewStartTime.IsZero() {
		return fmt.Errorf("%w: newStartTime is required", ErrInvalidInput)
	}
	if err := req.NewStartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid newStartTime format: %w", ErrInvalidInput, err)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}
