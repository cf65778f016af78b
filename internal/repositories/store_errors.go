package repositories

import (
	"errors"
	"github.com/maxaizer/hiring-board/internal/docstore"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"github.com/maxaizer/hiring-board/internal/metrics"
	"time"
)

// storeError matches both the taxonomy sentinel and the store cause.
type storeError struct {
	op    string
	kind  error
	cause error
}

func (e *storeError) Error() string {
	return e.op + ": " + e.kind.Error() + ": " + e.cause.Error()
}

func (e *storeError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

func readError(op string, err error) error {
	return newStoreError(op, models.ErrStoreRead, err)
}

func writeError(op string, err error) error {
	return newStoreError(op, models.ErrStoreWrite, err)
}

func newStoreError(op string, kind error, err error) error {
	if errors.Is(err, docstore.ErrUnavailable) {
		kind = models.ErrStoreUnavailable
	}
	return &storeError{op: op, kind: kind, cause: err}
}

func observe(operation string, started time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
