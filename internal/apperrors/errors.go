package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Validation errors, rejected before any transaction begins.
var (
	ErrInvalidInterval = errors.New("start time must be before end time")
	ErrInvalidRate     = errors.New("price per hour must be positive")
)

// Domain errors.
var (
	ErrNotFound               = errors.New("not found")
	ErrOverlappingWindow      = errors.New("interval overlaps an existing availability window")
	ErrSlotUnavailable        = errors.New("slot is no longer available")
	ErrPartialNotAllowed      = errors.New("spot does not allow partial bookings")
	ErrSpotNotVisible         = errors.New("spot is not visible")
	ErrIllegalStateTransition = errors.New("illegal booking state transition")
	ErrForbidden              = errors.New("operation not permitted for this user")
)

// StorageError wraps a storage-layer failure. The failed operation was never
// partially applied; retrying is up to the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError for the given operation.
func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// HTTPStatus maps an engine error to a response status code. SlotUnavailable
// is an ordinary outcome the client handles by re-querying, hence 409 rather
// than a 5xx.
func HTTPStatus(err error) int {
	var storageErr *StorageError
	switch {
	case errors.Is(err, ErrInvalidInterval), errors.Is(err, ErrInvalidRate):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrOverlappingWindow),
		errors.Is(err, ErrIllegalStateTransition):
		return http.StatusConflict
	case errors.Is(err, ErrPartialNotAllowed), errors.Is(err, ErrSpotNotVisible):
		return http.StatusUnprocessableEntity
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
