package cancel_appointment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glossworks/booking-engine/internal/api/handlers"
	"github.com/glossworks/booking-engine/internal/api/middleware"
	cancelBooking "github.com/glossworks/booking-engine/internal/usecase/cancel_booking"
	"github.com/glossworks/booking-engine/pkg/txmanager"
)

const (
	msgInvalidAppointmentID = "invalid appointment ID"
	msgInvalidRequestBody   = "invalid request body"
	msgMissingUserID        = "missing user identity"
	msgNotFound             = "appointment not found"
	msgForbidden            = "access denied"
	msgInvalidRequest       = "invalid request data"
	msgPolicyViolation      = "the cancellation policy does not permit this cancellation"
	msgBusy                 = "the schedule is busy, please retry"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// The body is optional: cancelling without a reason is allowed
	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil &&
		!errors.Is(err, io.EOF) && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		AppointmentID: appointmentID,
		CustomerID:    customerID,
		Reason:        req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/cancel - Invalid request: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, cancelBooking.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/cancel - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelBooking.ErrNotOwner):
			h.logger.Warn("POST /appointments/{id}/cancel - Access denied: appointment_id=%d, customer_id=%d", appointmentID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelBooking.ErrPolicyViolation):
			h.logger.Warn("POST /appointments/{id}/cancel - Policy violation: appointment_id=%d, customer_id=%d", appointmentID, customerID)
			handlers.RespondUnprocessable(w, msgPolicyViolation)

		case errors.Is(err, txmanager.ErrTxTimeout):
			h.logger.Warn("POST /appointments/{id}/cancel - Transaction timeout: appointment_id=%d", appointmentID)
			handlers.RespondServiceUnavailable(w, msgBusy)

		default:
			h.logger.Error("POST /appointments/{id}/cancel - Failed to cancel: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/cancel - Appointment cancelled: appointment_id=%d, customer_id=%d, refund=%d%%",
		appointmentID, customerID, result.RefundPercent)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
