// Package txmanager runs functions inside database transactions. The
// serializable variant is the booking path's mutual-exclusion primitive:
// concurrent commits touching the same staff/date rows either serialize on the
// FOR UPDATE row locks or one of them aborts with a serialization failure and
// is retried.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/glossworks/booking-engine/pkg/dbmetrics"
)

var (
	// ErrTxTimeout is returned when the transaction could not acquire its
	// locks within the configured bound. Callers should treat it as
	// retryable with backoff.
	ErrTxTimeout = errors.New("txmanager: could not acquire lock in time")

	// ErrTxFailed is returned when the transaction could not be committed
	// after exhausting retries.
	ErrTxFailed = errors.New("txmanager: transaction failed")
)

const (
	// Postgres error codes handled specially.
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"

	defaultMaxRetries  = 3
	defaultLockTimeout = 3 * time.Second
)

// TxBeginner abstracts *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager runs functions in transactions against an instrumented DB.
type TransactionManager struct {
	db          TxBeginner
	maxRetries  int
	lockTimeout time.Duration
}

// NewTransactionManager creates a manager with default retry and lock bounds.
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{
		db:          db,
		maxRetries:  defaultMaxRetries,
		lockTimeout: defaultLockTimeout,
	}
}

// WithLockTimeout overrides the per-transaction lock wait bound.
func (m *TransactionManager) WithLockTimeout(d time.Duration) *TransactionManager {
	m.lockTimeout = d
	return m
}

// Do runs fn in a read-committed transaction.
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable runs fn in a serializable transaction, retrying bounded
// times on serialization failures and deadlocks.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly runs fn in a read-only transaction.
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		err := m.runOnce(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !isRetriableTxError(err) {
			return err
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrTxTimeout, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}

	// Exhausting serialization retries means the key stayed contended for
	// the whole window; surface it as the retryable timeout.
	return fmt.Errorf("%w: retries exhausted: %v", ErrTxTimeout, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}

	if !opts.ReadOnly && m.lockTimeout > 0 {
		timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, timeout); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: set lock_timeout: %v", ErrTxFailed, err)
		}
	}

	if err := fn(dbmetrics.WithExecutor(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return mapTxError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapTxError(err)
	}

	return nil
}

// mapTxError normalizes driver errors into the package sentinels where the
// caller is expected to react, leaving business errors untouched.
func mapTxError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeLockNotAvailable:
			return fmt.Errorf("%w: %v", ErrTxTimeout, err)
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: serialization conflict: %v", errRetriable, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTxTimeout, err)
	}
	return err
}

// errRetriable marks errors the run loop may retry. Not exported: callers
// only ever see ErrTxFailed once retries are exhausted.
var errRetriable = errors.New("txmanager: retriable")

func isRetriableTxError(err error) bool {
	return errors.Is(err, errRetriable)
}
