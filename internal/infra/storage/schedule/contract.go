package schedule

import (
	"github.com/glossworks/booking-engine/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
