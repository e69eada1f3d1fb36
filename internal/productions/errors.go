package productions

import (
	"errors"
	"net/http"

	"github.com/whitfield-io/batesd/pkg/assemble"
)

// Domain errors for production operations.
var (
	ErrNotFound       = errors.New("production not found")
	ErrDuplicate      = errors.New("production already exists")
	ErrInvalidRequest = errors.New("invalid production request")
	ErrNoDocuments    = errors.New("production run requires at least one document")
	ErrAlreadyRunning = errors.New("production is already running")
	ErrNotCompleted   = errors.New("production has no output yet")
	ErrCancelled      = errors.New("production run was cancelled")
	ErrRunFailed      = errors.New("production run failed")
)

// MapHTTPStatus maps production domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrNoDocuments):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotCompleted):
		return http.StatusConflict
	case errors.Is(err, assemble.ErrPasswordRequired), errors.Is(err, assemble.ErrWrongPassword):
		return http.StatusUnprocessableEntity
	case errors.Is(err, assemble.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrCancelled):
		// Client closed the request; nobody sees this status, but the
		// handler still needs a value.
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}
