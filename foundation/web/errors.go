package web

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is used to pass an error during the request through the
// application with web specific context.
type Error struct {
	Err    error
	Status int
	Fields []FieldError
}

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ErrorResponse is the form used for API responses from failures in the API.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
	Status bool         `json:"status"`
}

// NewRequestError wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

// NewFieldsError builds an error listing the invalid request fields.
func NewFieldsError(status int, fields ...FieldError) error {
	msg := "invalid request"
	if len(fields) > 0 {
		msg = fmt.Sprintf("%s: %s", fields[0].Field, fields[0].Error)
	}

	return &Error{Err: errors.New(msg), Status: status, Fields: fields}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "unknown error"
	}

	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf reports the HTTP status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var webErr *Error
	if errors.As(err, &webErr) {
		return webErr.Status, true
	}

	return 0, false
}
