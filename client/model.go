package client

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

// AnySuccess can be passed as the expected code to accept any 2xx status.
const AnySuccess = 0

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// UnexpectedStatusError is returned when the HTTP response status code
// does not match the expected value. Header holds the response headers,
// which some services use to carry structured error details.
type UnexpectedStatusError struct {
	StatusCode int
	Header     http.Header
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// statusMatches reports whether got satisfies exp. An exp of
// [AnySuccess] accepts the whole 2xx range.
func statusMatches(got, exp int) bool {
	if exp == AnySuccess {
		return got >= 200 && got < 300
	}

	return got == exp
}
