package mux

import (
	"errors"
	"net/http"
	"strconv"
)

// Error carries the status a handler wants answered.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error to be propagated up the handler stack and
// caught by middleware.
func NewError(status int, err error) *Error {
	return &Error{Status: status, Err: err}
}

// GetError retrieves the Error from err, or false if err carries none.
func GetError(err error) (*Error, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return nil, false
	}

	return e, true
}

// Respond writes body with the given status and content type.
func Respond(w http.ResponseWriter, r *http.Request, statusCode int, contentType string, body []byte) error {
	SetStatusCode(r.Context(), statusCode)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(statusCode)

	if _, err := w.Write(body); err != nil {
		return err
	}

	return nil
}

// RespondStatus writes a status with no body.
func RespondStatus(w http.ResponseWriter, r *http.Request, statusCode int) {
	SetStatusCode(r.Context(), statusCode)
	w.WriteHeader(statusCode)
}
