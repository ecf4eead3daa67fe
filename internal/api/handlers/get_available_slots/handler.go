package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/glossworks/booking-engine/internal/api/handlers"
	"github.com/glossworks/booking-engine/internal/domain"
	getAvailableSlots "github.com/glossworks/booking-engine/internal/usecase/get_available_slots"
)

const (
	msgInvalidBusinessID = "invalid business ID"
	msgInvalidDate       = "invalid date format, expected YYYY-MM-DD"
	msgInvalidQueryParam = "invalid query parameter"
	msgInvalidRequest    = "invalid request data"
	msgServiceNotFound   = "service not found"
	msgBundleNotFound    = "bundle not found"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/slots?date=YYYY-MM-DD&serviceId=N[&staffId=N]
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/slots - Invalid date %q: %v", query.Get("date"), err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getAvailableSlots.Request{
		BusinessID: businessID,
		Date:       date,
	}
	if req.ServiceID, err = optionalInt64(query.Get("serviceId")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidQueryParam)
		return
	}
	if req.BundleID, err = optionalInt64(query.Get("bundleId")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidQueryParam)
		return
	}
	if req.StaffID, err = optionalInt64(query.Get("staffId")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidQueryParam)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/slots - Invalid request: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/slots - Service not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrBundleNotFound):
			h.logger.Warn("GET /businesses/{id}/slots - Bundle not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBundleNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/slots - Failed to compute slots: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/slots - %d slots computed: business_id=%d, date=%s",
		len(result.Slots), businessID, query.Get("date"))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func optionalInt64(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
