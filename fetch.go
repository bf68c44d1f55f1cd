package imagecharts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"

	"github.com/adamwoolhether/imagecharts/client"
)

// Response headers carrying error details.
const (
	HeaderErrorValidation = "X-Ic-Error-Validation"
	HeaderErrorCode       = "X-Ic-Error-Code"
)

// Mime types returned by the service.
const (
	MimePNG = "image/png"
	MimeGIF = "image/gif"
)

// Binary fetches the chart image. The request is bounded by the configured
// timeout and by ctx.
func (c *Chart) Binary(ctx context.Context) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var body []byte
	if err := c.http.Do(req, client.AnySuccess, client.WithBytes(&body)); err != nil {
		return nil, c.fetchError(ctx, req.URL.String(), err)
	}

	c.logger.Debug("chart fetched", "bytes", len(body), "mime", c.MimeType())

	return body, nil
}

// DataURI fetches the chart image and returns it base64 encoded as a
// data URI.
func (c *Chart) DataURI(ctx context.Context) (string, error) {
	body, err := c.Binary(ctx)
	if err != nil {
		return "", err
	}

	return "data:" + c.MimeType() + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

// File fetches the chart image and writes it to path. The image is
// streamed to a temporary file next to path which is renamed on success,
// so path is never left half written. Filesystem failures are returned
// wrapped, e.g. errors.Is(err, fs.ErrNotExist) for a missing directory.
func (c *Chart) File(ctx context.Context, path string, opts ...client.DownloadOption) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	if err := c.http.Download(req, client.AnySuccess, path, opts...); err != nil {
		return c.fetchError(ctx, req.URL.String(), err)
	}

	c.logger.Debug("chart written", "path", path, "mime", c.MimeType())

	return nil
}

// MimeType returns the type of the image the service will produce:
// GIF for animated charts, PNG otherwise.
func (c *Chart) MimeType() string {
	if c.Has(Animation) {
		return MimeGIF
	}

	return MimePNG
}

// UserAgent returns the User-Agent sent when fetching c.
func (c *Chart) UserAgent() string {
	if account, ok := c.Get(AccountID); ok && account != "" {
		return UserAgent + " (" + account + ")"
	}

	return UserAgent
}

func (c *Chart) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Chart) request(ctx context.Context) (*http.Request, error) {
	req, err := client.Request(ctx, c.url(), http.MethodGet,
		client.WithHeaders(map[string][]string{"User-Agent": {c.UserAgent()}}),
	)
	if err != nil {
		return nil, fmt.Errorf("building chart request: %w", err)
	}

	return req, nil
}

// fetchError sorts a client error into a service, filesystem or
// transport failure.
func (c *Chart) fetchError(ctx context.Context, target string, err error) error {
	var statusErr *client.UnexpectedStatusError
	if errors.As(err, &statusErr) {
		svcErr := newServiceError(statusErr)
		c.logger.Debug("chart service rejected request", "status", svcErr.StatusCode, "code", svcErr.Code, "message", svcErr.Message)

		return svcErr
	}

	var (
		pathErr *fs.PathError
		linkErr *os.LinkError
		dlErr   *client.DownloadError
	)
	if errors.As(err, &pathErr) || errors.As(err, &linkErr) || errors.As(err, &dlErr) {
		return fmt.Errorf("writing chart: %w", err)
	}

	return &TransportError{URL: target, Err: err, timeout: isTimeout(ctx, err)}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func newServiceError(statusErr *client.UnexpectedStatusError) *ServiceError {
	code := statusErr.Header.Get(HeaderErrorCode)

	svcErr := ServiceError{
		StatusCode: statusErr.StatusCode,
		Code:       code,
		Cause:      statusErr,
	}

	if raw := statusErr.Header.Get(HeaderErrorValidation); raw != "" {
		var validations []ValidationMessage
		if err := json.Unmarshal([]byte(raw), &validations); err == nil && len(validations) > 0 && validations[0].Message != "" {
			svcErr.Validations = validations
			svcErr.Message = validations[0].Message
			svcErr.Err = ErrValidation

			return &svcErr
		}
	}

	svcErr.Err = ErrRemote
	svcErr.Message = code
	if svcErr.Message == "" {
		svcErr.Message = http.StatusText(statusErr.StatusCode)
	}

	return &svcErr
}
