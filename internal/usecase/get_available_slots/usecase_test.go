package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossworks/booking-engine/internal/domain"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
	"github.com/glossworks/booking-engine/internal/integrations/catalogservice"
	"github.com/glossworks/booking-engine/pkg/ptr"
	"github.com/glossworks/booking-engine/pkg/types"
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) ListByBusinessAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return f.appointments, nil
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

func (f *fakeScheduleRepo) ListStaffShifts(_ context.Context, _ int64) ([]*domain.StaffShift, error) {
	return f.shifts, nil
}

func (f *fakeScheduleRepo) ListOverridesForDate(_ context.Context, _ int64, _ time.Time) (map[int64]*domain.ShiftOverride, error) {
	if f.overrides == nil {
		return map[int64]*domain.ShiftOverride{}, nil
	}
	return f.overrides, nil
}

type fakeCatalog struct {
	services map[int64]*catalogservice.Service
	bundles  map[int64]*catalogservice.Bundle
}

func (f *fakeCatalog) GetService(_ context.Context, _, serviceID int64) (*catalogservice.Service, error) {
	s, ok := f.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetBundle(_ context.Context, _, bundleID int64) (*catalogservice.Bundle, error) {
	b, ok := f.bundles[bundleID]
	if !ok {
		return nil, catalogservice.ErrBundleNotFound
	}
	return b, nil
}

type fixedTime struct {
	t time.Time
}

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Tuesday 2026-09-01; "now" is a week earlier so same-day filtering stays out
// of the way.
var (
	testDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
)

func fullWeek(open, close types.TimeString) map[time.Weekday]domain.DayWindow {
	days := make(map[time.Weekday]domain.DayWindow)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days[d] = domain.DayWindow{Open: open, Close: close}
	}
	return days
}

func newTestUseCase(appts *fakeAppointmentRepo, sched *fakeScheduleRepo, catalog *fakeCatalog) *UseCase {
	uc := NewUseCase(appts, sched, catalog, nopLogger{})
	uc.timeProvider = fixedTime{testNow}
	return uc
}

func standardFixture() (*fakeAppointmentRepo, *fakeScheduleRepo, *fakeCatalog) {
	appts := &fakeAppointmentRepo{}
	sched := &fakeScheduleRepo{
		calendar: &domain.BusinessCalendar{
			BusinessID: 1,
			Days:       fullWeek("09:00", "17:00"),
		},
		shifts: []*domain.StaffShift{
			{
				StaffID:    10,
				BusinessID: 1,
				Days:       fullWeekShift("09:00", "17:00"),
			},
		},
	}
	catalog := &fakeCatalog{
		services: map[int64]*catalogservice.Service{
			5: {ID: 5, BusinessID: 1, Name: "Full Detail", DurationMinutes: 60, Price: 120},
		},
	}
	return appts, sched, catalog
}

func fullWeekShift(start, end types.TimeString) map[time.Weekday]domain.ShiftWindow {
	days := make(map[time.Weekday]domain.ShiftWindow)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days[d] = domain.ShiftWindow{Start: start, End: end}
	}
	return days
}

func slotStarts(slots []Slot) []types.TimeString {
	starts := make([]types.TimeString, len(slots))
	for i, s := range slots {
		starts[i] = s.StartTime
	}
	return starts
}

func TestExecuteExcludesBookedRange(t *testing.T) {
	appts, sched, catalog := standardFixture()
	// Staff 10 is busy 10:00-11:00; a 60-minute service stepping at 30
	// minutes loses the 09:30, 10:00 and 10:30 starts.
	appts.appointments = []*domain.Appointment{
		{ID: 1, StaffID: 10, Status: domain.StatusConfirmed, StartTime: "10:00", EndTime: "11:00"},
	}
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testDate,
	})
	require.NoError(t, err)

	starts := slotStarts(resp.Slots)
	assert.Contains(t, starts, types.TimeString("09:00"))
	assert.NotContains(t, starts, types.TimeString("09:30"))
	assert.NotContains(t, starts, types.TimeString("10:00"))
	assert.NotContains(t, starts, types.TimeString("10:30"))
	assert.Contains(t, starts, types.TimeString("11:00"))
	// Last viable 60-minute start before a 17:00 close
	assert.Contains(t, starts, types.TimeString("16:00"))
	assert.NotContains(t, starts, types.TimeString("16:30"))
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecuteIsRepeatable(t *testing.T) {
	appts, sched, catalog := standardFixture()
	uc := newTestUseCase(appts, sched, catalog)
	req := &Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(5)), Date: testDate}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecuteCancelledAppointmentFreesSlot(t *testing.T) {
	appts, sched, catalog := standardFixture()
	appts.appointments = []*domain.Appointment{
		{ID: 1, StaffID: 10, Status: domain.StatusCancelled, StartTime: "10:00", EndTime: "11:00"},
	}
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testDate,
	})
	require.NoError(t, err)

	assert.Contains(t, slotStarts(resp.Slots), types.TimeString("10:00"))
}

func TestExecuteBlockedIntervalExcludesAllStaff(t *testing.T) {
	appts, sched, catalog := standardFixture()
	sched.shifts = append(sched.shifts, &domain.StaffShift{
		StaffID:    11,
		BusinessID: 1,
		Days:       fullWeekShift("09:00", "17:00"),
	})
	sched.blocked = []*domain.BlockedInterval{
		{ID: 1, BusinessID: 1, Date: testDate, StartTime: "12:00", EndTime: "13:00"},
	}
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testDate,
	})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		overlap := domain.Overlaps(slot.StartTime, slot.EndTime, "12:00", "13:00")
		assert.False(t, overlap, "slot %s staff %d overlaps the blocked interval", slot.StartTime, slot.StaffID)
	}
}

func TestExecuteEmptyForPastDate(t *testing.T) {
	appts, sched, catalog := standardFixture()
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testNow.AddDate(0, 0, -1),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecuteEmptyBeyondHorizon(t *testing.T) {
	appts, sched, catalog := standardFixture()
	sched.config = &domain.BookingConfig{
		BusinessID:             1,
		SlotGranularityMinutes: 30,
		HorizonDays:            7,
		MinNoticeHours:         24,
		FullRefundHours:        48,
		PartialRefundPercent:   50,
	}
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testNow.AddDate(0, 0, 8),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecuteEmptyOnClosedDay(t *testing.T) {
	appts, sched, catalog := standardFixture()
	delete(sched.calendar.Days, testDate.Weekday())
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testDate,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecuteSameDayDropsElapsedSlots(t *testing.T) {
	appts, sched, catalog := standardFixture()
	uc := newTestUseCase(appts, sched, catalog)

	// now is 12:00 on the request date itself
	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testNow,
	})
	require.NoError(t, err)

	starts := slotStarts(resp.Slots)
	assert.NotContains(t, starts, types.TimeString("11:30"))
	assert.Contains(t, starts, types.TimeString("12:00"))
}

func TestExecuteShiftOverrideDayOff(t *testing.T) {
	appts, sched, catalog := standardFixture()
	sched.overrides = map[int64]*domain.ShiftOverride{
		10: {ID: 1, StaffID: 10, Date: testDate, IsAvailable: false},
	}
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testDate,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecuteShiftNarrowerThanBusinessHours(t *testing.T) {
	appts, sched, catalog := standardFixture()
	sched.shifts[0].Days = fullWeekShift("13:00", "17:00")
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testDate,
	})
	require.NoError(t, err)

	starts := slotStarts(resp.Slots)
	assert.NotContains(t, starts, types.TimeString("09:00"))
	assert.Contains(t, starts, types.TimeString("13:00"))
}

func TestExecuteBundleDuration(t *testing.T) {
	appts, sched, catalog := standardFixture()
	catalog.bundles = map[int64]*catalogservice.Bundle{
		7: {ID: 7, BusinessID: 1, Name: "Wash + Wax", DurationMinutes: 90, Price: 150},
	}
	uc := newTestUseCase(appts, sched, catalog)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		BundleID:   ptr.Ptr(int64(7)),
		Date:       testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.DurationMinutes)
	starts := slotStarts(resp.Slots)
	// Last viable 90-minute start before 17:00
	assert.Contains(t, starts, types.TimeString("15:30"))
	assert.NotContains(t, starts, types.TimeString("16:00"))
}

func TestExecuteValidation(t *testing.T) {
	appts, sched, catalog := standardFixture()
	uc := newTestUseCase(appts, sched, catalog)

	cases := []struct {
		name string
		req  *Request
	}{
		{"missing business", &Request{ServiceID: ptr.Ptr(int64(5)), Date: testDate}},
		{"missing service and bundle", &Request{BusinessID: 1, Date: testDate}},
		{"both service and bundle", &Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(5)), BundleID: ptr.Ptr(int64(7)), Date: testDate}},
		{"missing date", &Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(5))}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecuteRejectsOutOfRangeCatalogDuration(t *testing.T) {
	cases := []struct {
		name     string
		duration int
	}{
		{"zero", 0},
		{"negative", -30},
		{"above maximum", domain.MaxDurationMinutes + 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appts, sched, catalog := standardFixture()
			catalog.services[5].DurationMinutes = tc.duration
			uc := newTestUseCase(appts, sched, catalog)

			resp, err := uc.Execute(context.Background(), &Request{
				BusinessID: 1,
				ServiceID:  ptr.Ptr(int64(5)),
				Date:       testDate,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, resp)
		})
	}
}

func TestExecuteUnknownService(t *testing.T) {
	appts, sched, catalog := standardFixture()
	uc := newTestUseCase(appts, sched, catalog)

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(99)),
		Date:       testDate,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
