// Package imagecharts builds, signs and fetches chart images from the
// image-charts.com service.
//
// A [Chart] is immutable: every call to [Chart.With] returns a new chart,
// so a partially configured chart can be reused as a template.
//
//	chart, err := imagecharts.New()
//	if err != nil {
//		return err
//	}
//
//	pie := chart.With(imagecharts.ChartType, "p").With(imagecharts.ChartData, "t:1,2,3")
//	fmt.Println(pie.URL())
//
// When a secret is configured and the chart carries an [AccountID], the URL
// is signed with an HMAC-SHA256 digest in the [Signature] parameter.
package imagecharts

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/adamwoolhether/imagecharts/client"
	"github.com/adamwoolhether/imagecharts/internal/validate"
)

// Version is reported in the User-Agent header.
const Version = "latest"

// UserAgent is the base User-Agent sent with every fetch.
const UserAgent = "go-image-charts/" + Version

var configValidator = validate.Must()

// New returns an empty chart using the default configuration modified by opts.
func New(opts ...Option) (*Chart, error) {
	settings := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	if err := configValidator.Check(settings.cfg); err != nil {
		var fields FieldErrors
		if errors.As(err, &fields) {
			return nil, &ConfigError{Fields: fields}
		}

		return nil, fmt.Errorf("validating config: %w", err)
	}

	logger := settings.logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := settings.httpClient
	switch {
	case httpClient != nil && len(settings.clientOpts) > 0:
		return nil, errors.New("client options cannot be combined with an explicit http client")
	case httpClient == nil:
		clientOpts := append([]client.Option{client.WithLogger(logger)}, settings.clientOpts...)

		hc, err := client.Build(clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("building http client: %w", err)
		}
		httpClient = hc
	}

	return &Chart{
		cfg:    settings.cfg,
		values: map[Key]string{},
		http:   httpClient,
		logger: logger,
	}, nil
}
