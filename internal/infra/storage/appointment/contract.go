package appointment

import (
	"github.com/glossworks/booking-engine/pkg/dbmetrics"
)

// Reuse the dbmetrics interfaces so the repository works against both a bare
// *sql.DB and the instrumented wrapper.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
