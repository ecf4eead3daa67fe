// Package simpletxmanager is the uninstrumented counterpart of txmanager,
// used when metrics are disabled and repositories talk to a bare *sql.DB.
package simpletxmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/glossworks/booking-engine/pkg/dbmetrics"
	"github.com/glossworks/booking-engine/pkg/txmanager"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"

	defaultMaxRetries  = 3
	defaultLockTimeout = 3 * time.Second
)

// TransactionManager runs functions in transactions against a plain *sql.DB.
type TransactionManager struct {
	db          *sql.DB
	maxRetries  int
	lockTimeout time.Duration
}

// NewTransactionManager creates a manager with default retry and lock bounds.
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{
		db:          db,
		maxRetries:  defaultMaxRetries,
		lockTimeout: defaultLockTimeout,
	}
}

// Do runs fn in a read-committed transaction.
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable runs fn in a serializable transaction with bounded retries.
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
		retry, mapped := classify(err)
		if !retry {
			return mapped
		}
		lastErr = mapped

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", txmanager.ErrTxTimeout, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}

	return fmt.Errorf("%w: retries exhausted: %v", txmanager.ErrTxTimeout, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", txmanager.ErrTxFailed, err)
	}

	if !opts.ReadOnly && m.lockTimeout > 0 {
		timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, timeout); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: set lock_timeout: %v", txmanager.ErrTxFailed, err)
		}
	}

	if err := fn(dbmetrics.WithExecutor(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// classify decides whether an error warrants a retry and maps lock waits and
// deadline hits to the shared timeout sentinel.
func classify(err error) (retry bool, mapped error) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeSerializationFailure, codeDeadlockDetected:
			return true, err
		case codeLockNotAvailable:
			return false, fmt.Errorf("%w: %v", txmanager.ErrTxTimeout, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false, fmt.Errorf("%w: %v", txmanager.ErrTxTimeout, err)
	}
	return false, err
}
