package schedule

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossworks/booking-engine/internal/domain"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
	"github.com/glossworks/booking-engine/internal/service/schedule/models"
	"github.com/glossworks/booking-engine/pkg/ptr"
)

type fakeRepo struct {
	calendars map[int64]*domain.BusinessCalendar
	configs   map[int64]*domain.BookingConfig
	shifts    map[int64]*domain.StaffShift
	overrides map[string]*domain.ShiftOverride
	blocked   map[int64]*domain.BlockedInterval
	nextID    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		calendars: map[int64]*domain.BusinessCalendar{},
		configs:   map[int64]*domain.BookingConfig{},
		shifts:    map[int64]*domain.StaffShift{},
		overrides: map[string]*domain.ShiftOverride{},
		blocked:   map[int64]*domain.BlockedInterval{},
		nextID:    1,
	}
}

func (f *fakeRepo) GetCalendar(_ context.Context, businessID int64) (*domain.BusinessCalendar, error) {
	c, ok := f.calendars[businessID]
	if !ok {
		return nil, scheduleRepo.ErrCalendarNotFound
	}
	return c, nil
}

func (f *fakeRepo) UpsertCalendar(_ context.Context, calendar *domain.BusinessCalendar) error {
	f.calendars[calendar.BusinessID] = calendar
	return nil
}

func (f *fakeRepo) GetConfig(_ context.Context, businessID int64) (*domain.BookingConfig, error) {
	c, ok := f.configs[businessID]
	if !ok {
		return nil, scheduleRepo.ErrConfigNotFound
	}
	return c, nil
}

func (f *fakeRepo) UpsertConfig(_ context.Context, cfg *domain.BookingConfig) error {
	f.configs[cfg.BusinessID] = cfg
	return nil
}

func (f *fakeRepo) ListBlocked(_ context.Context, businessID int64, date time.Time) ([]*domain.BlockedInterval, error) {
	result := make([]*domain.BlockedInterval, 0)
	for _, b := range f.blocked {
		if b.BusinessID == businessID && b.Date.Equal(date) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeRepo) CreateBlocked(_ context.Context, b *domain.BlockedInterval) (*domain.BlockedInterval, error) {
	created := *b
	created.ID = f.nextID
	f.nextID++
	f.blocked[created.ID] = &created
	return &created, nil
}

func (f *fakeRepo) DeleteBlocked(_ context.Context, businessID, id int64) error {
	b, ok := f.blocked[id]
	if !ok || b.BusinessID != businessID {
		return scheduleRepo.ErrBlockedIntervalNotFound
	}
	delete(f.blocked, id)
	return nil
}

func (f *fakeRepo) GetShift(_ context.Context, staffID int64) (*domain.StaffShift, error) {
	s, ok := f.shifts[staffID]
	if !ok {
		return nil, scheduleRepo.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeRepo) ListStaffShifts(_ context.Context, businessID int64) ([]*domain.StaffShift, error) {
	result := make([]*domain.StaffShift, 0)
	for _, s := range f.shifts {
		if s.BusinessID == businessID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeRepo) UpsertShift(_ context.Context, shift *domain.StaffShift) error {
	f.shifts[shift.StaffID] = shift
	return nil
}

func (f *fakeRepo) UpsertOverride(_ context.Context, override *domain.ShiftOverride) error {
	key := override.Date.Format(domain.DateFormat)
	f.overrides[key] = override
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, passthroughTxManager{}, nopLogger{}), repo
}

func weekdays(open, close string, names ...string) map[string]models.DayWindowRequest {
	days := make(map[string]models.DayWindowRequest, len(names))
	for _, name := range names {
		days[name] = models.DayWindowRequest{Open: open, Close: close}
	}
	return days
}

func TestGetScheduleDefaultsWhenEmpty(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.GetSchedule(context.Background(), 1)
	require.NoError(t, err)

	assert.Nil(t, resp.Calendar)
	assert.Empty(t, resp.Shifts)
	require.NotNil(t, resp.Config)
	assert.True(t, resp.Config.IsDefault)
	assert.Equal(t, domain.DefaultSlotGranularityMinutes, resp.Config.SlotGranularityMinutes)
}

func TestGetScheduleReturnsStoredState(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.UpdateCalendar(context.Background(), 1, &models.UpdateCalendarRequest{
		Days: weekdays("09:00", "17:00", "monday", "tuesday"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateShift(context.Background(), 10, 1, &models.UpdateShiftRequest{
		Days: weekdays("10:00", "16:00", "monday"),
	})
	require.NoError(t, err)

	repo.configs[1] = &domain.BookingConfig{
		BusinessID:             1,
		SlotGranularityMinutes: 15,
		HorizonDays:            30,
		MinNoticeHours:         12,
		FullRefundHours:        24,
		PartialRefundPercent:   25,
	}

	resp, err := svc.GetSchedule(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, resp.Calendar)
	assert.Equal(t, "09:00", resp.Calendar.Days["monday"].Open)
	assert.NotContains(t, resp.Calendar.Days, "sunday")

	require.Len(t, resp.Shifts, 1)
	assert.Equal(t, int64(10), resp.Shifts[0].StaffID)
	assert.Equal(t, "10:00", resp.Shifts[0].Days["monday"].Open)

	assert.False(t, resp.Config.IsDefault)
	assert.Equal(t, 15, resp.Config.SlotGranularityMinutes)
}

func TestUpdateCalendarRejectsBadInput(t *testing.T) {
	svc, repo := newTestService()

	tests := []struct {
		name string
		days map[string]models.DayWindowRequest
	}{
		{"unknown weekday", weekdays("09:00", "17:00", "funday")},
		{"open after close", weekdays("17:00", "09:00", "monday")},
		{"open equals close", weekdays("09:00", "09:00", "monday")},
		{"malformed time", weekdays("9am", "17:00", "monday")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateCalendar(context.Background(), 1, &models.UpdateCalendarRequest{Days: tt.days})
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.calendars, "invalid request must not write")
		})
	}
}

func TestSetOverrideDayOff(t *testing.T) {
	svc, repo := newTestService()

	err := svc.SetOverride(context.Background(), 10, &models.SetOverrideRequest{
		Date:        "2026-09-01",
		IsAvailable: false,
	})
	require.NoError(t, err)

	override := repo.overrides["2026-09-01"]
	require.NotNil(t, override)
	assert.False(t, override.IsAvailable)
	assert.Nil(t, override.Window)
}

func TestSetOverrideCustomWindow(t *testing.T) {
	svc, repo := newTestService()

	err := svc.SetOverride(context.Background(), 10, &models.SetOverrideRequest{
		Date:        "2026-09-01",
		IsAvailable: true,
		Window:      &models.DayWindowRequest{Open: "12:00", Close: "18:00"},
	})
	require.NoError(t, err)

	override := repo.overrides["2026-09-01"]
	require.NotNil(t, override)
	require.NotNil(t, override.Window)
	assert.Equal(t, "12:00", override.Window.Start.String())
}

func TestSetOverrideRejectsBadWindow(t *testing.T) {
	svc, _ := newTestService()

	err := svc.SetOverride(context.Background(), 10, &models.SetOverrideRequest{
		Date:        "2026-09-01",
		IsAvailable: true,
		Window:      &models.DayWindowRequest{Open: "18:00", Close: "12:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.SetOverride(context.Background(), 10, &models.SetOverrideRequest{
		Date:        "not-a-date",
		IsAvailable: false,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateAndDeleteBlockedInterval(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateBlocked(context.Background(), 1, &models.CreateBlockedIntervalRequest{
		Date:      "2026-09-01",
		StartTime: "12:00",
		EndTime:   "13:00",
		Reason:    ptr.Ptr("lunch"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "2026-09-01", created.Date)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	listed, err := svc.ListBlocked(context.Background(), 1, date)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.DeleteBlocked(context.Background(), 1, created.ID))

	listed, err = svc.ListBlocked(context.Background(), 1, date)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDeleteBlockedScopedToBusiness(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateBlocked(context.Background(), 1, &models.CreateBlockedIntervalRequest{
		Date:      "2026-09-01",
		StartTime: "12:00",
		EndTime:   "13:00",
	})
	require.NoError(t, err)

	err = svc.DeleteBlocked(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, ErrBlockedIntervalNotFound)

	err = svc.DeleteBlocked(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrBlockedIntervalNotFound)
}

func TestCreateBlockedRejectsBadInput(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name string
		req  models.CreateBlockedIntervalRequest
	}{
		{"bad date", models.CreateBlockedIntervalRequest{Date: "01.09.2026", StartTime: "12:00", EndTime: "13:00"}},
		{"bad start", models.CreateBlockedIntervalRequest{Date: "2026-09-01", StartTime: "noon", EndTime: "13:00"}},
		{"inverted range", models.CreateBlockedIntervalRequest{Date: "2026-09-01", StartTime: "13:00", EndTime: "12:00"}},
		{"empty range", models.CreateBlockedIntervalRequest{Date: "2026-09-01", StartTime: "12:00", EndTime: "12:00"}},
		{"reason too long", models.CreateBlockedIntervalRequest{
			Date: "2026-09-01", StartTime: "12:00", EndTime: "13:00",
			Reason: ptr.Ptr(strings.Repeat("x", domain.MaxBlockReasonLength+1)),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBlocked(context.Background(), 1, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateConfigBounds(t *testing.T) {
	svc, repo := newTestService()

	valid := models.UpdateConfigRequest{
		SlotGranularityMinutes: 15,
		HorizonDays:            60,
		MinNoticeHours:         12,
		FullRefundHours:        48,
		PartialRefundPercent:   30,
	}

	resp, err := svc.UpdateConfig(context.Background(), 1, &valid)
	require.NoError(t, err)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, 15, repo.configs[1].SlotGranularityMinutes)

	tests := []struct {
		name   string
		mutate func(r *models.UpdateConfigRequest)
	}{
		{"granularity too small", func(r *models.UpdateConfigRequest) { r.SlotGranularityMinutes = 1 }},
		{"granularity too large", func(r *models.UpdateConfigRequest) { r.SlotGranularityMinutes = 500 }},
		{"horizon zero", func(r *models.UpdateConfigRequest) { r.HorizonDays = 0 }},
		{"horizon too large", func(r *models.UpdateConfigRequest) { r.HorizonDays = 1000 }},
		{"negative notice", func(r *models.UpdateConfigRequest) { r.MinNoticeHours = -1 }},
		{"refund below notice", func(r *models.UpdateConfigRequest) { r.FullRefundHours = 6 }},
		{"refund percent over 100", func(r *models.UpdateConfigRequest) { r.PartialRefundPercent = 120 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := svc.UpdateConfig(context.Background(), 1, &req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
