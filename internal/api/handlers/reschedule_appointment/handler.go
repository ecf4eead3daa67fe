package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glossworks/booking-engine/internal/api/handlers"
	"github.com/glossworks/booking-engine/internal/api/middleware"
	rescheduleBooking "github.com/glossworks/booking-engine/internal/usecase/reschedule_booking"
	"github.com/glossworks/booking-engine/pkg/txmanager"
)

const (
	msgInvalidAppointmentID = "invalid appointment ID"
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidDateOrTime    = "invalid date or time format, expected YYYY-MM-DD and HH:MM"
	msgMissingUserID        = "missing user identity"
	msgNotFound             = "appointment not found"
	msgForbidden            = "access denied"
	msgInvalidRequest       = "invalid request data"
	msgPolicyViolation      = "the reschedule policy does not permit this change"
	msgInvalidDate          = "the target date must not be in the past"
	msgDateTooFar           = "the target date is beyond the booking horizon"
	msgBusinessClosed       = "the business is closed on the target date"
	msgSlotUnavailable      = "the target slot is not available"
	msgBusy                 = "the schedule is busy, please retry"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, customerID)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, rescheduleBooking.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrNotOwner):
			h.logger.Warn("POST /appointments/{id}/reschedule - Access denied: appointment_id=%d, customer_id=%d", appointmentID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrPolicyViolation):
			h.logger.Warn("POST /appointments/{id}/reschedule - Policy violation: appointment_id=%d, customer_id=%d", appointmentID, customerID)
			handlers.RespondUnprocessable(w, msgPolicyViolation)

		case errors.Is(err, rescheduleBooking.ErrInvalidDate):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid target date: appointment_id=%d, date=%s", appointmentID, req.NewDate)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, rescheduleBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments/{id}/reschedule - Target date too far: appointment_id=%d, date=%s", appointmentID, req.NewDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, rescheduleBooking.ErrBusinessClosed):
			h.logger.Warn("POST /appointments/{id}/reschedule - Business closed: appointment_id=%d, date=%s", appointmentID, req.NewDate)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, rescheduleBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /appointments/{id}/reschedule - Slot unavailable: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, txmanager.ErrTxTimeout):
			h.logger.Warn("POST /appointments/{id}/reschedule - Transaction timeout: appointment_id=%d", appointmentID)
			handlers.RespondServiceUnavailable(w, msgBusy)

		default:
			h.logger.Error("POST /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/reschedule - Appointment moved: appointment_id=%d, customer_id=%d, new_date=%s",
		appointmentID, customerID, req.NewDate)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
