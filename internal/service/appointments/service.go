package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/glossworks/booking-engine/internal/domain"
	appointmentRepo "github.com/glossworks/booking-engine/internal/infra/storage/appointment"
	"github.com/glossworks/booking-engine/internal/service/appointments/models"
)

// Service reads appointments and drives their status lifecycle. Cancellation
// and rescheduling are NOT here: they run through their dedicated usecases
// because they carry policy evaluation and outbox events.
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService creates the appointments service.
func NewService(appointmentRepo AppointmentRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID fetches one appointment. The caller must be the owning customer;
// business-side reads go through GetBusinessAppointments.
func (s *Service) GetByID(ctx context.Context, id int64, customerID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for customer=%d", id, customerID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if appt.CustomerID != customerID {
		s.logger.Warn("GetByID: access denied for customer=%d to appointment id=%d", customerID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments lists a customer's appointment history, optionally
// filtered by status.
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: customer=%d, status=%v", req.CustomerID, req.Status)

	var status *domain.AppointmentStatus
	if req.Status != nil {
		parsed, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &parsed
	}

	appointments, err := s.appointmentRepo.ListByCustomer(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// GetBusinessAppointments lists a business's appointments with optional
// staff, period and status filters.
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBusinessAppointments: business=%d", req.BusinessID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessAppointments: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAppointments: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAppointments - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// GetRescheduleHistory lists the reschedule audit trail of an appointment.
func (s *Service) GetRescheduleHistory(ctx context.Context, appointmentID int64, customerID int64) ([]models.RescheduleRecordResponse, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: GetRescheduleHistory - repository error: %w", ErrInternal, err)
	}
	if appt.CustomerID != customerID {
		return nil, ErrAccessDenied
	}

	records, err := s.appointmentRepo.ListRescheduleRecords(ctx, appointmentID)
	if err != nil {
		s.logger.Error("GetRescheduleHistory: repository error for appointment=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetRescheduleHistory - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainRescheduleRecords(records), nil
}

// UpdateStatus moves an appointment through its lifecycle state machine.
// Transitions to cancelled are refused here: cancellation has its own path
// with policy evaluation and refund computation.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment=%d, status=%s, actor=%d", id, req.Status, req.ActorID)

	target, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, ErrInvalidStatus
	}
	if target == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancellation must go through the cancel operation")
		return nil, fmt.Errorf("%w: use the cancel operation to cancel", ErrInvalidTransition)
	}

	var result *domain.Appointment

	// Check and write under one transaction; the locked read keeps a
	// concurrent transition from slipping in between.
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		if !domain.CanTransition(appt.Status, target) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment=%d",
				appt.Status, target, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, target); err != nil {
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		appt.Status = target
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment=%d is now %s", id, target)
	return models.FromDomainAppointment(result), nil
}
