package delete_blocked_interval

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glossworks/booking-engine/internal/api/handlers"
	"github.com/glossworks/booking-engine/internal/service/schedule"
)

const (
	msgInvalidBusinessID = "invalid business ID"
	msgInvalidIntervalID = "invalid interval ID"
	msgNotFound          = "blocked interval not found"
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

// Handle DELETE /api/v1/businesses/{businessId}/blocked-intervals/{intervalId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/blocked-intervals/{intervalId} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	intervalID, err := strconv.ParseInt(vars["intervalId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/blocked-intervals/{intervalId} - Invalid interval ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntervalID)
		return
	}

	if err := h.service.DeleteBlocked(r.Context(), businessID, intervalID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlockedIntervalNotFound):
			h.logger.Warn("DELETE /businesses/{id}/blocked-intervals/{intervalId} - Not found: business_id=%d, interval_id=%d",
				businessID, intervalID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /businesses/{id}/blocked-intervals/{intervalId} - Failed to delete: interval_id=%d, error=%v",
				intervalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/blocked-intervals/{intervalId} - Interval deleted: business_id=%d, interval_id=%d",
		businessID, intervalID)
	handlers.RespondNoContent(w)
}
