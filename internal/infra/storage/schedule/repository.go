package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/pkg/dbmetrics"
	"github.com/glossworks/booking-engine/pkg/psqlbuilder"
	"github.com/glossworks/booking-engine/pkg/types"
)

// Repository persists the scheduling configuration of a business: weekly
// calendars, booking parameters, blocked intervals, staff shifts and
// date-specific shift overrides.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a schedule repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCalendar loads a business's weekly opening hours.
func (r *Repository) GetCalendar(ctx context.Context, businessID int64) (*domain.BusinessCalendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "open_time", "close_time", "created_at", "updated_at").
		From("business_calendars").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	calendar := &domain.BusinessCalendar{
		BusinessID: businessID,
		Days:       make(map[time.Weekday]domain.DayWindow),
	}

	for rows.Next() {
		var weekday int
		var window domain.DayWindow
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&weekday, &window.Open, &window.Close, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetCalendar - scan row: %w", ErrScanRow, err)
		}

		calendar.Days[time.Weekday(weekday)] = window
		if createdAt.Time.After(calendar.CreatedAt) {
			calendar.CreatedAt = createdAt.Time
		}
		if updatedAt.Time.After(calendar.UpdatedAt) {
			calendar.UpdatedAt = updatedAt.Time
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - rows error: %w", ErrScanRow, err)
	}

	if len(calendar.Days) == 0 {
		return nil, ErrCalendarNotFound
	}

	return calendar, nil
}

// UpsertCalendar replaces a business's weekly opening hours atomically. Must
// be called inside a transaction; the delete and inserts join the ambient
// executor.
func (r *Repository) UpsertCalendar(ctx context.Context, calendar *domain.BusinessCalendar) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("business_calendars").
		Where(squirrel.Eq{"business_id": calendar.BusinessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertCalendar - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: UpsertCalendar - execute delete: %w", ErrExecQuery, err)
	}

	if len(calendar.Days) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("business_calendars").
		Columns("business_id", "weekday", "open_time", "close_time")
	for weekday, window := range calendar.Days {
		insertBuilder = insertBuilder.Values(calendar.BusinessID, int(weekday), window.Open, window.Close)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertCalendar - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: UpsertCalendar - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetConfig loads a business's booking parameters. Callers fall back to
// domain.DefaultBookingConfig on ErrConfigNotFound.
func (r *Repository) GetConfig(ctx context.Context, businessID int64) (*domain.BookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"slot_granularity_minutes",
		"horizon_days",
		"min_notice_hours",
		"full_refund_hours",
		"partial_refund_percent",
		"created_at",
		"updated_at",
	).
		From("booking_configs").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - build select query: %w", ErrBuildQuery, err)
	}

	var cfg domain.BookingConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.BusinessID,
		&cfg.SlotGranularityMinutes,
		&cfg.HorizonDays,
		&cfg.MinNoticeHours,
		&cfg.FullRefundHours,
		&cfg.PartialRefundPercent,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - scan row: %w", ErrScanRow, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// UpsertConfig creates or updates a business's booking parameters.
func (r *Repository) UpsertConfig(ctx context.Context, cfg *domain.BookingConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_configs").
		Columns(
			"business_id",
			"slot_granularity_minutes",
			"horizon_days",
			"min_notice_hours",
			"full_refund_hours",
			"partial_refund_percent",
		).
		Values(
			cfg.BusinessID,
			cfg.SlotGranularityMinutes,
			cfg.HorizonDays,
			cfg.MinNoticeHours,
			cfg.FullRefundHours,
			cfg.PartialRefundPercent,
		).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			horizon_days = EXCLUDED.horizon_days,
			min_notice_hours = EXCLUDED.min_notice_hours,
			full_refund_hours = EXCLUDED.full_refund_hours,
			partial_refund_percent = EXCLUDED.partial_refund_percent,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertConfig - build upsert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertConfig - execute upsert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListBlocked returns a business's blocked intervals on a date, ordered by
// start time.
func (r *Repository) ListBlocked(ctx context.Context, businessID int64, date time.Time) ([]*domain.BlockedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "date", "start_time", "end_time", "reason", "created_at").
		From("blocked_intervals").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"date": date}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocked - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocked - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]*domain.BlockedInterval, 0)
	for rows.Next() {
		var b domain.BlockedInterval
		var createdAt sql.NullTime

		if err := rows.Scan(&b.ID, &b.BusinessID, &b.Date, &b.StartTime, &b.EndTime, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListBlocked - scan row: %w", ErrScanRow, err)
		}
		b.CreatedAt = createdAt.Time
		intervals = append(intervals, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlocked - rows error: %w", ErrScanRow, err)
	}

	return intervals, nil
}

// CreateBlocked inserts a new blocked interval.
func (r *Repository) CreateBlocked(ctx context.Context, b *domain.BlockedInterval) (*domain.BlockedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_intervals").
		Columns("business_id", "date", "start_time", "end_time", "reason").
		Values(b.BusinessID, b.Date, b.StartTime, b.EndTime, b.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlocked - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBlocked - execute insert: %w", ErrExecQuery, err)
	}
	b.CreatedAt = createdAt.Time

	return b, nil
}

// DeleteBlocked removes a blocked interval, scoped to its business so one
// tenant cannot delete another's blocks.
func (r *Repository) DeleteBlocked(ctx context.Context, businessID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_intervals").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlockedIntervalNotFound
	}

	return nil
}

// GetShift loads a staff member's default weekly schedule.
func (r *Repository) GetShift(ctx context.Context, staffID int64) (*domain.StaffShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("business_id", "weekday", "start_time", "end_time", "created_at", "updated_at").
		From("staff_shifts").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetShift - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetShift - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	shift := &domain.StaffShift{
		StaffID: staffID,
		Days:    make(map[time.Weekday]domain.ShiftWindow),
	}

	for rows.Next() {
		var weekday int
		var window domain.ShiftWindow
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&shift.BusinessID, &weekday, &window.Start, &window.End, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetShift - scan row: %w", ErrScanRow, err)
		}

		shift.Days[time.Weekday(weekday)] = window
		if createdAt.Time.After(shift.CreatedAt) {
			shift.CreatedAt = createdAt.Time
		}
		if updatedAt.Time.After(shift.UpdatedAt) {
			shift.UpdatedAt = updatedAt.Time
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetShift - rows error: %w", ErrScanRow, err)
	}

	if len(shift.Days) == 0 {
		return nil, ErrShiftNotFound
	}

	return shift, nil
}

// ListStaffShifts loads the weekly schedules of every staff member of a
// business, keyed nowhere: the slice order follows staff id.
func (r *Repository) ListStaffShifts(ctx context.Context, businessID int64) ([]*domain.StaffShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("staff_id", "weekday", "start_time", "end_time", "created_at", "updated_at").
		From("staff_shifts").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("staff_id ASC, weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffShifts - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffShifts - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]*domain.StaffShift, 0)
	var current *domain.StaffShift

	for rows.Next() {
		var staffID int64
		var weekday int
		var window domain.ShiftWindow
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&staffID, &weekday, &window.Start, &window.End, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListStaffShifts - scan row: %w", ErrScanRow, err)
		}

		if current == nil || current.StaffID != staffID {
			current = &domain.StaffShift{
				StaffID:    staffID,
				BusinessID: businessID,
				Days:       make(map[time.Weekday]domain.ShiftWindow),
			}
			shifts = append(shifts, current)
		}

		current.Days[time.Weekday(weekday)] = window
		if createdAt.Time.After(current.CreatedAt) {
			current.CreatedAt = createdAt.Time
		}
		if updatedAt.Time.After(current.UpdatedAt) {
			current.UpdatedAt = updatedAt.Time
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaffShifts - rows error: %w", ErrScanRow, err)
	}

	return shifts, nil
}

// UpsertShift replaces a staff member's weekly schedule atomically. Must be
// called inside a transaction.
func (r *Repository) UpsertShift(ctx context.Context, shift *domain.StaffShift) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("staff_shifts").
		Where(squirrel.Eq{"staff_id": shift.StaffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertShift - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: UpsertShift - execute delete: %w", ErrExecQuery, err)
	}

	if len(shift.Days) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("staff_shifts").
		Columns("staff_id", "business_id", "weekday", "start_time", "end_time")
	for weekday, window := range shift.Days {
		insertBuilder = insertBuilder.Values(shift.StaffID, shift.BusinessID, int(weekday), window.Start, window.End)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertShift - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: UpsertShift - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetOverride loads a staff member's date-specific shift override, if any.
// A missing override is reported as (nil, nil): absence is the normal case.
func (r *Repository) GetOverride(ctx context.Context, staffID int64, date time.Time) (*domain.ShiftOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "staff_id", "date", "is_available", "start_time", "end_time", "created_at").
		From("shift_overrides").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %w", ErrBuildQuery, err)
	}

	override, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan row: %w", ErrScanRow, err)
	}

	return override, nil
}

// ListOverridesForDate loads the shift overrides of every staff member of a
// business on a date, keyed by staff id.
func (r *Repository) ListOverridesForDate(ctx context.Context, businessID int64, date time.Time) (map[int64]*domain.ShiftOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("o.id", "o.staff_id", "o.date", "o.is_available", "o.start_time", "o.end_time", "o.created_at").
		From("shift_overrides o").
		Join("staff_shifts s ON s.staff_id = o.staff_id").
		Where(squirrel.Eq{"s.business_id": businessID}).
		Where(squirrel.Eq{"o.date": date}).
		GroupBy("o.id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make(map[int64]*domain.ShiftOverride)
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverridesForDate - scan row: %w", ErrScanRow, err)
		}
		overrides[override.StaffID] = override
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForDate - rows error: %w", ErrScanRow, err)
	}

	return overrides, nil
}

// UpsertOverride creates or replaces a staff member's override for a date.
func (r *Repository) UpsertOverride(ctx context.Context, override *domain.ShiftOverride) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var startTime, endTime interface{}
	if override.Window != nil {
		startTime = override.Window.Start
		endTime = override.Window.End
	}

	query, args, err := psqlbuilder.Insert("shift_overrides").
		Columns("staff_id", "date", "is_available", "start_time", "end_time").
		Values(override.StaffID, override.Date, override.IsAvailable, startTime, endTime).
		Suffix(`ON CONFLICT (staff_id, date) DO UPDATE SET
			is_available = EXCLUDED.is_available,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time`).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertOverride - build upsert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&override.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: UpsertOverride - execute upsert: %w", ErrExecQuery, err)
	}
	override.CreatedAt = createdAt.Time

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// nullTimeString scans a nullable TIME column.
type nullTimeString struct {
	Time  types.TimeString
	Valid bool
}

func (n *nullTimeString) Scan(value interface{}) error {
	if value == nil {
		n.Time, n.Valid = "", false
		return nil
	}
	n.Valid = true
	return n.Time.Scan(value)
}

func scanOverride(row rowScanner) (*domain.ShiftOverride, error) {
	var override domain.ShiftOverride
	var startTime, endTime nullTimeString
	var createdAt sql.NullTime

	err := row.Scan(
		&override.ID,
		&override.StaffID,
		&override.Date,
		&override.IsAvailable,
		&startTime,
		&endTime,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if startTime.Valid && endTime.Valid {
		override.Window = &domain.ShiftWindow{Start: startTime.Time, End: endTime.Time}
	}
	override.CreatedAt = createdAt.Time

	return &override, nil
}
