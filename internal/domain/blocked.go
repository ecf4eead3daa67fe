package domain

import (
	"time"

	"github.com/glossworks/booking-engine/pkg/types"
)

// BlockedInterval is ad-hoc business-wide unavailability on a specific date
// (breaks, maintenance). Blocks are owner-managed and never overlap-checked
// against each other.
type BlockedInterval struct {
	ID         int64
	BusinessID int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	Reason     *string
	CreatedAt  time.Time
}

// IsValid reports whether the interval is well-formed.
func (b *BlockedInterval) IsValid() bool {
	return b.StartTime.Validate() == nil &&
		b.EndTime.Validate() == nil &&
		b.StartTime.IsBefore(b.EndTime)
}
