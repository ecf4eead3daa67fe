package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossworks/booking-engine/internal/domain"
	appointmentRepo "github.com/glossworks/booking-engine/internal/infra/storage/appointment"
	"github.com/glossworks/booking-engine/internal/service/appointments/models"
	"github.com/glossworks/booking-engine/pkg/ptr"
)

type fakeRepo struct {
	appointments map[int64]*domain.Appointment
	records      map[int64][]*domain.RescheduleRecord
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeRepo) ListByCustomer(_ context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.CustomerID != customerID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeRepo) ListWithFilter(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.BusinessID != filter.BusinessID {
			continue
		}
		if filter.StaffID != nil && a.StaffID != *filter.StaffID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeRepo) ListRescheduleRecords(_ context.Context, appointmentID int64) ([]*domain.RescheduleRecord, error) {
	return f.records[appointmentID], nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	a, ok := f.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService(appts ...*domain.Appointment) (*Service, *fakeRepo) {
	repo := &fakeRepo{
		appointments: map[int64]*domain.Appointment{},
		records:      map[int64][]*domain.RescheduleRecord{},
	}
	for _, a := range appts {
		repo.appointments[a.ID] = a
	}
	return NewService(repo, passthroughTxManager{}, nopLogger{}), repo
}

func appointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		CustomerID: 7,
		BusinessID: 1,
		StaffID:    10,
		ServiceID:  5,
		Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		EndTime:    "11:00",
		Status:     status,
	}
}

func TestGetByIDOwnerOnly(t *testing.T) {
	svc, _ := newService(appointment(1, domain.StatusScheduled))

	resp, err := svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "2026-09-01", resp.Date)

	_, err = svc.GetByID(context.Background(), 1, 8)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	svc, repo := newService(appointment(1, domain.StatusScheduled))

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ActorID: 1, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, domain.StatusConfirmed, repo.appointments[1].Status)

	// scheduled -> completed skips in_progress and is refused
	repo.appointments[1].Status = domain.StatusScheduled
	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ActorID: 1, Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusScheduled, repo.appointments[1].Status, "failed transition must not write")
}

func TestUpdateStatusTerminalStatesFrozen(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow} {
		svc, _ := newService(appointment(1, status))
		_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ActorID: 1, Status: "confirmed"})
		assert.ErrorIs(t, err, ErrInvalidTransition, "terminal status %s must not transition", status)
	}
}

func TestUpdateStatusRefusesCancellation(t *testing.T) {
	svc, _ := newService(appointment(1, domain.StatusScheduled))

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ActorID: 1, Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc, _ := newService(appointment(1, domain.StatusScheduled))

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ActorID: 1, Status: "nonsense"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetCustomerAppointmentsStatusFilter(t *testing.T) {
	a1 := appointment(1, domain.StatusScheduled)
	a2 := appointment(2, domain.StatusCompleted)
	svc, _ := newService(a1, a2)

	resp, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 7,
		Status:     ptr.Ptr("completed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(2), resp.Appointments[0].ID)

	_, err = svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 7,
		Status:     ptr.Ptr("bogus"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetRescheduleHistory(t *testing.T) {
	svc, repo := newService(appointment(1, domain.StatusScheduled))
	repo.records[1] = []*domain.RescheduleRecord{
		{
			ID:            1,
			AppointmentID: 1,
			OriginalDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			OriginalStart: "10:00",
			NewDate:       time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			NewStart:      "14:00",
		},
	}

	records, err := svc.GetRescheduleHistory(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-09-01", records[0].OriginalDate)
	assert.Equal(t, "14:00", records[0].NewStart)

	_, err = svc.GetRescheduleHistory(context.Background(), 1, 8)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
