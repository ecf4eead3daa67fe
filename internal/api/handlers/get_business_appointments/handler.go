package get_business_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/glossworks/booking-engine/internal/api/handlers"
	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/internal/service/appointments"
	"github.com/glossworks/booking-engine/internal/service/appointments/models"
)

const (
	msgInvalidBusinessID = "invalid business ID"
	msgInvalidQueryParam = "invalid query parameter"
	msgInvalidRequest    = "invalid request data"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/appointments
// Optional query parameters: staffId, startDate, endDate, status, includeInactive.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/appointments - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	query := r.URL.Query()
	req := &models.GetBusinessAppointmentsRequest{BusinessID: businessID}

	if raw := query.Get("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQueryParam)
			return
		}
		req.StaffID = &staffID
	}
	if req.StartDate, err = optionalDate(query.Get("startDate")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidQueryParam)
		return
	}
	if req.EndDate, err = optionalDate(query.Get("endDate")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidQueryParam)
		return
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	req.IncludeInactive = query.Get("includeInactive") == "true"

	result, err := h.service.GetBusinessAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/appointments - Invalid request: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /businesses/{id}/appointments - Failed to list appointments: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/appointments - %d appointments listed: business_id=%d",
		len(result.Appointments), businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
