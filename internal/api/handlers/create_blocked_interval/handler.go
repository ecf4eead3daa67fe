package create_blocked_interval

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glossworks/booking-engine/internal/api/handlers"
	"github.com/glossworks/booking-engine/internal/service/schedule"
	"github.com/glossworks/booking-engine/internal/service/schedule/models"
)

const (
	msgInvalidBusinessID  = "invalid business ID"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidRequest     = "invalid blocked interval data"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/blocked-intervals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/blocked-intervals - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req models.CreateBlockedIntervalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/blocked-intervals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	interval, err := h.service.CreateBlocked(r.Context(), businessID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/blocked-intervals - Invalid interval: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /businesses/{id}/blocked-intervals - Failed to create interval: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/blocked-intervals - Interval created: business_id=%d, interval_id=%d, date=%s",
		businessID, interval.ID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, interval)
}
