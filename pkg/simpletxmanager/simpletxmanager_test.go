package simpletxmanager

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/glossworks/booking-engine/pkg/txmanager"
)

// Repository and usecase layers each wrap the driver error in their own
// sentinel; classification must see through both layers.
func wrapLikeCallers(driverErr error) error {
	errExecQuery := errors.New("repository: failed to execute query")
	errInternal := errors.New("usecase: internal error")
	repoErr := fmt.Errorf("%w: ListByStaffAndDate - execute query: %w", errExecQuery, driverErr)
	return fmt.Errorf("%w: failed to list appointments: %w", errInternal, repoErr)
}

func TestClassifyWrappedLockTimeout(t *testing.T) {
	retry, mapped := classify(wrapLikeCallers(&pq.Error{Code: "55P03"}))

	assert.False(t, retry)
	assert.ErrorIs(t, mapped, txmanager.ErrTxTimeout)
}

func TestClassifyWrappedSerializationFailure(t *testing.T) {
	retry, _ := classify(wrapLikeCallers(&pq.Error{Code: "40001"}))
	assert.True(t, retry)

	retry, _ = classify(wrapLikeCallers(&pq.Error{Code: "40P01"}))
	assert.True(t, retry)
}

func TestClassifyDeadlineExceeded(t *testing.T) {
	retry, mapped := classify(fmt.Errorf("list day: %w", context.DeadlineExceeded))

	assert.False(t, retry)
	assert.ErrorIs(t, mapped, txmanager.ErrTxTimeout)
}

func TestClassifyBusinessErrorUntouched(t *testing.T) {
	errSlotTaken := errors.New("slot taken")
	retry, mapped := classify(errSlotTaken)

	assert.False(t, retry)
	assert.Equal(t, errSlotTaken, mapped)
}
