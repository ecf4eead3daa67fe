package cancel_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossworks/booking-engine/internal/api/middleware"
	cancelBooking "github.com/glossworks/booking-engine/internal/usecase/cancel_booking"
)

type fakeUseCase struct {
	req  *cancelBooking.Request
	resp *cancelBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, uc CancelBookingUseCase, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, nopLogger{})

	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/api/v1/appointments/{appointmentId}/cancel", handler.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/42/cancel", strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCancelAppointmentSuccess(t *testing.T) {
	uc := &fakeUseCase{
		resp: &cancelBooking.Response{
			AppointmentID: 42,
			Status:        "cancelled",
			RefundPercent: 100,
			ReasonCode:    "full_refund",
			CancelledAt:   time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		},
	}

	rec := doRequest(t, uc, "7", `{"reason":"plans changed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.req)
	assert.Equal(t, int64(42), uc.req.AppointmentID)
	assert.Equal(t, int64(7), uc.req.CustomerID)
	require.NotNil(t, uc.req.Reason)
	assert.Equal(t, "plans changed", *uc.req.Reason)

	var body CancelAppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 100, body.RefundPercent)
	assert.Equal(t, "2026-08-25T12:00:00Z", body.CancelledAt)
}

func TestCancelAppointmentEmptyBodyAllowed(t *testing.T) {
	uc := &fakeUseCase{
		resp: &cancelBooking.Response{AppointmentID: 42, Status: "cancelled", RefundPercent: 50, ReasonCode: "partial_refund"},
	}

	rec := doRequest(t, uc, "7", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.req)
	assert.Nil(t, uc.req.Reason)
}

func TestCancelAppointmentErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", cancelBooking.ErrAppointmentNotFound, http.StatusNotFound},
		{"not owner", cancelBooking.ErrNotOwner, http.StatusForbidden},
		{"policy violation", cancelBooking.ErrPolicyViolation, http.StatusUnprocessableEntity},
		{"invalid input", cancelBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", cancelBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &fakeUseCase{err: tt.err}, "7", "{}")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCancelAppointmentRequiresIdentity(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, "", "{}")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, &fakeUseCase{}, "not-a-number", "{}")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
