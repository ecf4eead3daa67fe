package outbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/glossworks/booking-engine/internal/domain"
	"github.com/glossworks/booking-engine/pkg/dbmetrics"
	"github.com/glossworks/booking-engine/pkg/psqlbuilder"
)

// Repository persists the transactional outbox. Events are appended in the
// same transaction as the state change they describe and relayed after
// commit by the events relay.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates an outbox repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append inserts a pending event. Joins the ambient transaction when the
// context carries one; the booking/cancel/reschedule usecases always append
// inside their serialized commit.
func (r *Repository) Append(ctx context.Context, event *domain.OutboxEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("outbox_events").
		Columns("id", "topic", "key", "payload").
		Values(event.ID, event.Topic, event.Key, event.Payload).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}
	event.CreatedAt = createdAt.Time

	return nil
}

// ListUnpublished returns the oldest pending events, up to limit. Rows are
// locked with SKIP LOCKED so concurrent relay instances never pick the same
// batch; must be called inside a transaction.
func (r *Repository) ListUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "topic", "key", "payload", "retries", "created_at", "published_at").
		From("outbox_events").
		Where(squirrel.Eq{"published_at": nil}).
		OrderBy("created_at ASC").
		Limit(uint64(limit))

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnpublished - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnpublished - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.OutboxEvent, 0, limit)
	for rows.Next() {
		var event domain.OutboxEvent
		var createdAt, publishedAt sql.NullTime

		if err := rows.Scan(
			&event.ID,
			&event.Topic,
			&event.Key,
			&event.Payload,
			&event.Retries,
			&createdAt,
			&publishedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListUnpublished - scan row: %w", ErrScanRow, err)
		}

		event.CreatedAt = createdAt.Time
		if publishedAt.Valid {
			t := publishedAt.Time
			event.PublishedAt = &t
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUnpublished - rows error: %w", ErrScanRow, err)
	}

	return events, nil
}

// MarkPublished stamps the event as delivered.
func (r *Repository) MarkPublished(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_events").
		Set("published_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPublished - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkPublished")
}

// MarkFailed increments the delivery attempt counter. The event stays
// pending and is retried on the next relay tick.
func (r *Repository) MarkFailed(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_events").
		Set("retries", squirrel.Expr("retries + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkFailed - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkFailed")
}

func (r *Repository) execExpectingRow(ctx context.Context, executor dbmetrics.DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
