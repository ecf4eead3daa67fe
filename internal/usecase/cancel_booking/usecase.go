package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/internal/events"
	appointmentRepo "github.com/glossworks/booking-engine/internal/infra/storage/appointment"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
)

// UseCase cancels an appointment under the business's cancellation policy.
// The refund percentage is derived from the remaining notice at the moment of
// cancellation and shipped to the payment collaborator through the outbox.
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

// Execute cancels the appointment. Policy evaluation and the status change
// happen against a row locked in the same transaction, so a concurrent
// reschedule cannot slip between the check and the write.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: appointment=%d, customer=%d", req.AppointmentID, req.CustomerID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Locked read (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("CancelBooking: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("CancelBooking: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		if appt.CustomerID != req.CustomerID {
			uc.logger.Warn("CancelBooking: appointment id=%d belongs to customer=%d, not %d",
				req.AppointmentID, appt.CustomerID, req.CustomerID)
			return ErrNotOwner
		}

		policy, err := uc.resolvePolicy(txCtx, appt.BusinessID)
		if err != nil {
			return err
		}

		outcome := policy.Evaluate(appt, now)
		if !outcome.Allowed {
			uc.logger.Warn("CancelBooking: appointment id=%d rejected by policy: %s", req.AppointmentID, outcome.ReasonCode)
			return fmt.Errorf("%w: %s", ErrPolicyViolation, outcome.ReasonCode)
		}

		if err := uc.appointmentRepo.Cancel(txCtx, appt.ID, req.Reason); err != nil {
			uc.logger.Error("CancelBooking: failed to cancel appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to cancel appointment: %w", ErrInternal, err)
		}

		event, err := events.NewCancellationCompleted(appt, outcome.RefundPercent, req.Reason, now)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to build event: %v", err)
			return fmt.Errorf("%w: failed to build event: %w", ErrInternal, err)
		}
		if err := uc.outboxRepo.Append(txCtx, event); err != nil {
			uc.logger.Error("CancelBooking: failed to append outbox event: %v", err)
			return fmt.Errorf("%w: failed to append outbox event: %w", ErrInternal, err)
		}

		result = &Response{
			AppointmentID: appt.ID,
			Status:        string(domain.StatusCancelled),
			RefundPercent: outcome.RefundPercent,
			ReasonCode:    outcome.ReasonCode,
			CancelledAt:   now,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: cancelled appointment id=%d, refund=%d%%", result.AppointmentID, result.RefundPercent)
	return result, nil
}

func (uc *UseCase) resolvePolicy(ctx context.Context, businessID int64) (domain.CancellationPolicy, error) {
	config, err := uc.scheduleRepo.GetConfig(ctx, businessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			return domain.DefaultCancellationPolicy(), nil
		}
		uc.logger.Error("CancelBooking: failed to get config for business=%d: %v", businessID, err)
		return domain.CancellationPolicy{}, fmt.Errorf("%w: failed to get config: %w", ErrInternal, err)
	}
	return config.Policy(), nil
}

func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}
