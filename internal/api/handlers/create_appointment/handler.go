package create_appointment

import (
	"errors"
	"net/http"

	"github.com/glossworks/booking-engine/internal/api/handlers"
	"github.com/glossworks/booking-engine/internal/api/middleware"
	createBooking "github.com/glossworks/booking-engine/internal/usecase/create_booking"
	"github.com/glossworks/booking-engine/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid date or time format, expected YYYY-MM-DD and HH:MM"
	msgMissingUserID      = "missing user identity"
	msgInvalidRequest     = "invalid request data"
	msgServiceNotFound    = "service not found"
	msgBundleNotFound     = "bundle not found"
	msgBusinessClosed     = "the business is closed on this date"
	msgInvalidDate        = "the date must not be in the past"
	msgDateTooFar         = "the date is beyond the booking horizon"
	msgSlotUnavailable    = "the requested slot is not available"
	msgNoStaffAvailable   = "no staff member is available for this slot"
	msgBusy               = "the schedule is busy, please retry"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid request: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: customer_id=%d, business_id=%d", customerID, req.BusinessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrBundleNotFound):
			h.logger.Warn("POST /appointments - Bundle not found: customer_id=%d, business_id=%d", customerID, req.BusinessID)
			handlers.RespondNotFound(w, msgBundleNotFound)

		case errors.Is(err, createBooking.ErrBusinessClosed):
			h.logger.Warn("POST /appointments - Business closed: customer_id=%d, business_id=%d, date=%s", customerID, req.BusinessID, req.Date)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: customer_id=%d, date=%s", customerID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: customer_id=%d, date=%s", customerID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /appointments - Slot unavailable: customer_id=%d, business_id=%d", customerID, req.BusinessID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrNoStaffAvailable):
			h.logger.Warn("POST /appointments - No staff available: customer_id=%d, business_id=%d", customerID, req.BusinessID)
			handlers.RespondConflict(w, msgNoStaffAvailable)

		case errors.Is(err, txmanager.ErrTxTimeout):
			h.logger.Warn("POST /appointments - Transaction timeout: customer_id=%d, business_id=%d", customerID, req.BusinessID)
			handlers.RespondServiceUnavailable(w, msgBusy)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, business_id=%d, error=%v",
				customerID, req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, customer_id=%d, business_id=%d",
		result.ID, customerID, req.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
