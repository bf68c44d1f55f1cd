// Package breaker provides an [http.RoundTripper] that stops calling a
// failing upstream for a while, using [github.com/sony/gobreaker].
//
// A request counts as failed when the wrapped transport returns an error
// or the response carries a 5xx status. After Config.MaxFailures
// consecutive failures the breaker opens and requests fail fast with
// [ErrOpen] for Config.OpenFor, after which a single probe request is let
// through. Requests are never re-issued.
package breaker

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrOpen          = errors.New("circuit breaker open")
)

// errServerFailure marks a 5xx response as a failure for the breaker
// while still handing the response back to the caller.
var errServerFailure = errors.New("server failure")

// Config defines when the breaker trips and how long it stays open.
type Config struct {
	Name        string
	MaxFailures uint32
	OpenFor     time.Duration
}

type breaker struct {
	cb    *gobreaker.CircuitBreaker
	next  http.RoundTripper
	logFn func() *slog.Logger
}

// NewRoundTripper wraps next with a circuit breaker. logFn lazily resolves
// the logger used to report state changes; it may return nil.
func NewRoundTripper(cfg Config, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if cfg.MaxFailures == 0 {
		return nil, fmt.Errorf("maxFailures %w", ErrMustNotBeZero)
	}
	if cfg.OpenFor <= 0 {
		return nil, fmt.Errorf("openFor[%s] %w", cfg.OpenFor, ErrMustNotBeZero)
	}
	if next == nil {
		next = http.DefaultTransport
	}

	b := &breaker{
		next:  next,
		logFn: logFn,
	}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger := b.logFn(); logger != nil {
				logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
	})

	return b, nil
}

func (b *breaker) RoundTrip(r *http.Request) (*http.Response, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		resp, err := b.next.RoundTrip(r)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerFailure
		}

		return resp, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	case errors.Is(err, errServerFailure):
		return res.(*http.Response), nil
	case err != nil:
		return nil, err
	}

	return res.(*http.Response), nil
}
