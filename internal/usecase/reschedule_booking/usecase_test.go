package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossworks/booking-engine/internal/domain"
	appointmentRepo "github.com/glossworks/booking-engine/internal/infra/storage/appointment"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
	"github.com/glossworks/booking-engine/pkg/types"
)

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
	records      []*domain.RescheduleRecord
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) ListByStaffAndDate(_ context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.StaffID == staffID && a.Date.Equal(date) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) Reschedule(_ context.Context, id int64, newDate time.Time, newStart, newEnd types.TimeString) error {
	appt, ok := f.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	appt.Date = newDate
	appt.StartTime = newStart
	appt.EndTime = newEnd
	return nil
}

func (f *fakeAppointmentRepo) CreateRescheduleRecord(_ context.Context, rec *domain.RescheduleRecord) error {
	rec.ID = int64(len(f.records) + 1)
	f.records = append(f.records, rec)
	return nil
}

type fakeScheduleRepo struct {
	calendar  *domain.BusinessCalendar
	config    *domain.BookingConfig
	blocked   []*domain.BlockedInterval
	shifts    []*domain.StaffShift
	overrides map[int64]*domain.ShiftOverride
}

func (f *fakeScheduleRepo) GetCalendar(_ context.Context, _ int64) (*domain.BusinessCalendar, error) {
	if f.calendar == nil {
		return nil, scheduleRepo.ErrCalendarNotFound
	}
	return f.calendar, nil
}

func (f *fakeScheduleRepo) GetConfig(_ context.Context, _ int64) (*domain.BookingConfig, error) {
	if f.config == nil {
		return nil, scheduleRepo.ErrConfigNotFound
	}
	return f.config, nil
}

func (f *fakeScheduleRepo) ListBlocked(_ context.Context, _ int64, _ time.Time) ([]*domain.BlockedInterval, error) {
	return f.blocked, nil
}

func (f *fakeScheduleRepo) GetShift(_ context.Context, staffID int64) (*domain.StaffShift, error) {
	for _, s := range f.shifts {
		if s.StaffID == staffID {
			return s, nil
		}
	}
	return nil, scheduleRepo.ErrShiftNotFound
}

func (f *fakeScheduleRepo) GetOverride(_ context.Context, staffID int64, _ time.Time) (*domain.ShiftOverride, error) {
	if f.overrides == nil {
		return nil, nil
	}
	return f.overrides[staffID], nil
}

type fakeOutboxRepo struct {
	events []*domain.OutboxEvent
}

func (f *fakeOutboxRepo) Append(_ context.Context, event *domain.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	t time.Time
}

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	testNow  = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	origDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	destDate = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
)

func fullWeekDays(open, close types.TimeString) map[time.Weekday]domain.DayWindow {
	days := make(map[time.Weekday]domain.DayWindow)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days[d] = domain.DayWindow{Open: open, Close: close}
	}
	return days
}

func fullWeekShift(start, end types.TimeString) map[time.Weekday]domain.ShiftWindow {
	days := make(map[time.Weekday]domain.ShiftWindow)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days[d] = domain.ShiftWindow{Start: start, End: end}
	}
	return days
}

type fixture struct {
	appts  *fakeAppointmentRepo
	sched  *fakeScheduleRepo
	outbox *fakeOutboxRepo
	uc     *UseCase
}

func newFixture() *fixture {
	appts := &fakeAppointmentRepo{
		appointments: map[int64]*domain.Appointment{
			1: {
				ID:              1,
				CustomerID:      7,
				BusinessID:      1,
				StaffID:         10,
				ServiceID:       5,
				Date:            origDate,
				StartTime:       "10:00",
				EndTime:         "11:00",
				DurationMinutes: 60,
				Status:          domain.StatusScheduled,
				ServiceName:     "Full Detail",
				Price:           120,
			},
		},
	}
	sched := &fakeScheduleRepo{
		calendar: &domain.BusinessCalendar{BusinessID: 1, Days: fullWeekDays("09:00", "17:00")},
		shifts: []*domain.StaffShift{
			{StaffID: 10, BusinessID: 1, Days: fullWeekShift("09:00", "17:00")},
		},
	}
	outbox := &fakeOutboxRepo{}
	uc := NewUseCase(appts, sched, outbox, passthroughTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{testNow}
	return &fixture{appts: appts, sched: sched, outbox: outbox, uc: uc}
}

func rescheduleRequest() *Request {
	return &Request{
		AppointmentID: 1,
		CustomerID:    7,
		NewDate:       destDate,
		NewStartTime:  "14:00",
	}
}

func TestExecuteMovesAppointment(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), rescheduleRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID, "identity is preserved")
	assert.Equal(t, destDate, resp.Date)
	assert.Equal(t, types.TimeString("14:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("15:00"), resp.EndTime)
	assert.Equal(t, origDate, resp.OriginalDate)
	assert.Equal(t, types.TimeString("10:00"), resp.OriginalStart)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)

	// Audit record and event both written
	require.Len(t, f.appts.records, 1)
	assert.Equal(t, origDate, f.appts.records[0].OriginalDate)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.TopicAppointmentRescheduled, f.outbox.events[0].Topic)
}

func TestExecuteMoveWithinOwnRange(t *testing.T) {
	f := newFixture()

	// Shifting 30 minutes into the appointment's own current range must not
	// self-conflict.
	req := rescheduleRequest()
	req.NewDate = origDate
	req.NewStartTime = "10:30"
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:30"), resp.EndTime)
}

func TestExecuteRejectsConflictWithOtherAppointment(t *testing.T) {
	f := newFixture()
	f.appts.appointments[2] = &domain.Appointment{
		ID: 2, CustomerID: 8, BusinessID: 1, StaffID: 10,
		Date: destDate, StartTime: "14:00", EndTime: "15:00",
		DurationMinutes: 60, Status: domain.StatusConfirmed,
	}

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Original coordinates untouched after the failed move
	assert.Equal(t, origDate, f.appts.appointments[1].Date)
	assert.Equal(t, types.TimeString("10:00"), f.appts.appointments[1].StartTime)
	assert.Empty(t, f.outbox.events)
}

func TestExecuteRejectsTooLittleNotice(t *testing.T) {
	f := newFixture()
	// Appointment starts in 12 hours
	soon := testNow.Add(12 * time.Hour)
	f.appts.appointments[1].Date = time.Date(soon.Year(), soon.Month(), soon.Day(), 0, 0, 0, 0, time.UTC)
	f.appts.appointments[1].StartTime = types.NewTimeString(soon)

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestExecuteRejectsCancelledAppointment(t *testing.T) {
	f := newFixture()
	f.appts.appointments[1].Status = domain.StatusCancelled

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestExecuteRejectsForeignAppointment(t *testing.T) {
	f := newFixture()

	req := rescheduleRequest()
	req.CustomerID = 8
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestExecuteRejectsClosedTargetDay(t *testing.T) {
	f := newFixture()
	delete(f.sched.calendar.Days, destDate.Weekday())

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecuteRejectsBlockedTarget(t *testing.T) {
	f := newFixture()
	f.sched.blocked = []*domain.BlockedInterval{
		{ID: 1, BusinessID: 1, Date: destDate, StartTime: "14:30", EndTime: "15:30"},
	}

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecuteRejectsPastTargetDate(t *testing.T) {
	f := newFixture()

	req := rescheduleRequest()
	req.NewDate = testNow.AddDate(0, 0, -1)
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecuteRejectsTargetOutsideShift(t *testing.T) {
	f := newFixture()
	f.sched.shifts[0].Days = fullWeekShift("09:00", "13:00")

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecuteValidation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name string
		req  *Request
	}{
		{"zero appointment", &Request{CustomerID: 7, NewDate: destDate, NewStartTime: "14:00"}},
		{"zero customer", &Request{AppointmentID: 1, NewDate: destDate, NewStartTime: "14:00"}},
		{"zero date", &Request{AppointmentID: 1, CustomerID: 7, NewStartTime: "14:00"}},
		{"empty start", &Request{AppointmentID: 1, CustomerID: 7, NewDate: destDate}},
		{"malformed start", &Request{AppointmentID: 1, CustomerID: 7, NewDate: destDate, NewStartTime: "99:99"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
