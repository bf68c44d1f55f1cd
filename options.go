package imagecharts

import (
	"errors"
	"log/slog"
	"time"

	"github.com/adamwoolhether/imagecharts/client"
)

// Option configures a chart created by [New].
type Option func(*options) error

type options struct {
	cfg        Config
	httpClient *client.Client
	clientOpts []client.Option
	logger     *slog.Logger
}

// WithConfig replaces the whole configuration, including the secret.
func WithConfig(cfg Config) Option {
	return func(o *options) error {
		o.cfg = cfg
		return nil
	}
}

// WithProtocol sets the URL scheme, http or https.
func WithProtocol(protocol string) Option {
	return func(o *options) error {
		o.cfg.Protocol = protocol
		return nil
	}
}

// WithHost sets the service host name.
func WithHost(host string) Option {
	return func(o *options) error {
		o.cfg.Host = host
		return nil
	}
}

// WithPort sets the service port.
func WithPort(port int) Option {
	return func(o *options) error {
		o.cfg.Port = port
		return nil
	}
}

// WithPath sets the chart endpoint path.
func WithPath(path string) Option {
	return func(o *options) error {
		o.cfg.Path = path
		return nil
	}
}

// WithTimeout bounds every fetch. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.cfg.Timeout = d
		return nil
	}
}

// WithSecret sets the enterprise secret used to sign requests carrying
// an [AccountID].
func WithSecret(secret string) Option {
	return func(o *options) error {
		o.cfg.Secret = secret
		return nil
	}
}

// WithHTTPClient uses hc for every fetch instead of building one.
// It cannot be combined with [WithClientOptions].
func WithHTTPClient(hc *client.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		o.httpClient = hc
		return nil
	}
}

// WithClientOptions passes opts to [client.Build] when the default
// HTTP client is built, e.g. to add throttling or a circuit breaker.
func WithClientOptions(opts ...client.Option) Option {
	return func(o *options) error {
		o.clientOpts = append(o.clientOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger used by the chart and its HTTP client.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		o.logger = logger
		return nil
	}
}
