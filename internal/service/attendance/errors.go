package attendance

import (
	"net/http"

	"github.com/pkg/errors"

	"school-attendance/backend/foundation/web"
)

var (
	// ErrUnauthorized is returned when the caller's role may not perform the operation.
	ErrUnauthorized = errors.New("attempted action is not allowed")

	// ErrNoCheckInYet is returned on check out without a check in that day.
	ErrNoCheckInYet = errors.New("you have not checked in today")

	// ErrAlreadyCheckedOut is returned on a second check out the same day.
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
)

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// requestError attaches the HTTP status of a rule failure to err. Errors
// already carrying a status are returned as they are.
func requestError(err error) error {
	if _, ok := web.StatusOf(err); ok {
		return err
	}

	var validation *ValidationError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return web.NewRequestError(err, http.StatusForbidden)
	case errors.Is(err, ErrNoCheckInYet):
		return web.NewRequestError(err, http.StatusBadRequest)
	case errors.Is(err, ErrAlreadyCheckedOut):
		return web.NewRequestError(err, http.StatusConflict)
	case errors.As(err, &validation):
		return web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: validation.Field, Error: validation.Message})
	}

	return web.NewRequestError(err, http.StatusInternalServerError)
}
