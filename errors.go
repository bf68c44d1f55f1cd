package imagecharts

import (
	"errors"
	"fmt"

	"github.com/adamwoolhether/imagecharts/internal/validate"
)

var (
	// ErrInvalidConfig is wrapped by [ConfigError].
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrValidation is wrapped by a [ServiceError] built from a structured
	// validation message returned by the service.
	ErrValidation = errors.New("chart validation failed")

	// ErrRemote is wrapped by a [ServiceError] when the service only
	// reported an error code.
	ErrRemote = errors.New("chart service error")

	// ErrTransport is wrapped by every [TransportError].
	ErrTransport = errors.New("transport failure")

	// ErrTimeout is matched by a [TransportError] whose request ran out of time.
	ErrTimeout = errors.New("request timed out")
)

// FieldErrors lists configuration fields that failed validation.
type FieldErrors = validate.FieldErrors

// ConfigError is returned by [New] when the assembled [Config] is invalid.
type ConfigError struct {
	Fields FieldErrors
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidConfig, e.Fields)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// ValidationMessage is one entry of the x-ic-error-validation header.
type ValidationMessage struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// ServiceError is returned when the chart service answers with a non-2xx
// status. Err is either [ErrValidation] or [ErrRemote]; Cause holds the
// underlying [client.UnexpectedStatusError].
type ServiceError struct {
	StatusCode  int
	Code        string
	Message     string
	Validations []ValidationMessage
	Err         error
	Cause       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%v: %s (status %d)", e.Err, e.Message, e.StatusCode)
}

func (e *ServiceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

// TransportError is returned when no response could be obtained from the
// service, including when the configured timeout elapsed.
type TransportError struct {
	URL string
	Err error

	timeout bool
}

func (e *TransportError) Error() string {
	if e.timeout {
		return fmt.Sprintf("%v: %v: %s: %v", ErrTransport, ErrTimeout, e.URL, e.Err)
	}

	return fmt.Sprintf("%v: %s: %v", ErrTransport, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because it ran out of time.
func (e *TransportError) Timeout() bool {
	return e.timeout
}

// Is matches [ErrTransport], and [ErrTimeout] for timed out requests.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrTimeout:
		return e.timeout
	}

	return false
}
