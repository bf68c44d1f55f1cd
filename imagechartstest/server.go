// Package imagechartstest runs an in-process stand-in for the chart
// service. It validates queries, checks enterprise signatures and answers
// with small PNG or GIF images, reporting errors through the same headers
// the real service uses.
package imagechartstest

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/adamwoolhether/imagecharts"
	"github.com/adamwoolhether/imagecharts/internal/mux"
	"github.com/adamwoolhether/imagecharts/internal/validate"
)

// Error codes sent in the x-ic-error-code header.
const (
	CodeValidation       = "IC_VALIDATION_ERROR"
	CodeMissingSignature = "IC_MISSING_ENT_PARAMETER"
	CodeAccountNotFound  = "IC_ACCOUNT_ID_NOT_FOUND"
	CodeInvalidSignature = "IC_INVALID_SIGNATURE"
	CodeInternal         = "IC_INTERNAL_ERROR"
)

// ChartPath is the path the server answers on.
const ChartPath = "/chart"

// Request is what the server recorded about a chart request.
type Request struct {
	UserAgent string
	RequestID string
	RawQuery  string
	Query     url.Values
}

// Server is a fake chart service.
type Server struct {
	*httptest.Server

	logger    *slog.Logger
	accounts  map[string]string
	latency   time.Duration
	validator *validate.Validator

	mu       sync.Mutex
	requests []Request
}

// Option configures a Server.
type Option func(*Server)

// WithAccount registers an enterprise account and its signing secret.
func WithAccount(id, secret string) Option {
	return func(s *Server) {
		s.accounts[id] = secret
	}
}

// WithLatency delays every response by d, or until the request is cancelled.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		s.latency = d
	}
}

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New starts a Server. Callers must Close it.
func New(opts ...Option) *Server {
	s := &Server{
		logger:    slog.New(slog.DiscardHandler),
		accounts:  map[string]string{},
		validator: newQueryValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}

	m := mux.New(mux.WithLogger(s.logger))
	m.Use(mux.Logger(s.logger), s.rejections(), mux.Panics(), s.record(), s.delay())
	m.Get(ChartPath, s.handleChart)
	s.Server = httptest.NewServer(m)

	return s
}

// NewServer starts a Server that is closed when tb finishes.
func NewServer(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	s := New(opts...)
	tb.Cleanup(s.Close)

	return s
}

// Options returns the options pointing a chart at s.
func (s *Server) Options() []imagecharts.Option {
	u, err := url.Parse(s.URL)
	if err != nil {
		panic(err)
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil {
		panic(err)
	}

	return []imagecharts.Option{
		imagecharts.WithProtocol(u.Scheme),
		imagecharts.WithHost(u.Hostname()),
		imagecharts.WithPort(port),
		imagecharts.WithPath(ChartPath),
	}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)

	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Request{}, false
	}

	return s.requests[len(s.requests)-1], true
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()

	if fields := s.validateQuery(query); len(fields) > 0 {
		return &rejection{status: http.StatusBadRequest, code: CodeValidation, entries: fields}
	}

	if account := query.Get(string(imagecharts.AccountID)); account != "" {
		if rej := s.checkSignature(account, r.URL.RawQuery); rej != nil {
			return rej
		}
	}

	spec := chartSpec{
		size:     query.Get(string(imagecharts.ChartSize)),
		data:     query.Get(string(imagecharts.ChartData)),
		animated: query.Has(string(imagecharts.Animation)),
	}

	var buf bytes.Buffer
	contentType, err := render(&buf, spec)
	if err != nil {
		return mux.NewError(http.StatusInternalServerError, fmt.Errorf("rendering chart: %w", err))
	}

	return mux.Respond(w, r, http.StatusOK, contentType, buf.Bytes())
}

// checkSignature verifies the ichm parameter, which must be the last one,
// against the HMAC of everything before it.
func (s *Server) checkSignature(account, rawQuery string) *rejection {
	marker := "&" + string(imagecharts.Signature) + "="
	idx := strings.LastIndex(rawQuery, marker)
	if idx < 0 {
		return enterpriseRejection(http.StatusBadRequest, CodeMissingSignature,
			`"ichm" is required: enterprise parameters need an HMAC-SHA256 request signature`)
	}

	secret, ok := s.accounts[account]
	if !ok {
		return enterpriseRejection(http.StatusForbidden, CodeAccountNotFound,
			"you must be an Image-Charts subscriber to use enterprise features (account "+account+" not found)")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(rawQuery[:idx]))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(rawQuery[idx+len(marker):])) {
		return enterpriseRejection(http.StatusForbidden, CodeInvalidSignature, "the HMAC-SHA256 request signature does not match")
	}

	return nil
}

// chartQuery holds the parameters the fake validates.
type chartQuery struct {
	Type   string `json:"cht" validate:"required"`
	Data   string `json:"chd" validate:"required"`
	Size   string `json:"chs" validate:"required,chartsize"`
	Format string `json:"chof" validate:"omitempty,oneof=.png .gif"`
}

// Largest area the service renders.
const maxArea = 998001

var sizePattern = regexp.MustCompile(`^(\d+)x(\d+)$`)

func newQueryValidator() *validate.Validator {
	v := validate.Must()

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(v.Register("chartsize", func(fl validator.FieldLevel) bool {
		w, h, ok := parseSize(fl.Field().String())
		return ok && w > 0 && h > 0 && w*h <= maxArea
	}))
	must(v.Translate("required", `"{0}" is required`))
	must(v.Translate("chartsize", `"{0}" must be <width>x<height> with an area of at most 998001 pixels`))
	must(v.Translate("oneof", `"{0}" must be one of [{1}]`))

	return v
}

func (s *Server) validateQuery(query url.Values) []validationEntry {
	q := chartQuery{
		Type:   query.Get(string(imagecharts.ChartType)),
		Data:   query.Get(string(imagecharts.ChartData)),
		Size:   query.Get(string(imagecharts.ChartSize)),
		Format: query.Get(string(imagecharts.OutputFormat)),
	}

	err := s.validator.Check(q)
	if err == nil {
		return nil
	}

	var fields validate.FieldErrors
	if !errors.As(err, &fields) {
		s.logger.Error("validating query", "error", err)
		return []validationEntry{{Message: err.Error(), Type: "internal"}}
	}

	out := make([]validationEntry, len(fields))
	for i, f := range fields {
		out[i] = validationEntry{Message: f.Err, Path: []string{f.Field}, Type: f.Tag}
	}

	return out
}

func parseSize(s string) (int, int, bool) {
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}

	w, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	h, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}

	return w, h, true
}
