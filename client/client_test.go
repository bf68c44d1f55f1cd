package client_test

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/imagecharts/client"
	"github.com/adamwoolhether/imagecharts/client/breaker"
	"github.com/adamwoolhether/imagecharts/client/throttle"
)

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse URL %q: %v", raw, err)
	}

	return u
}

func TestClient_WithUserAgent(t *testing.T) {
	testCases := []struct {
		name      string
		requestUA string
		expUA     string
	}{
		{name: "default applied", expUA: "TestUserAgent/1.0"},
		{name: "request header wins", requestUA: "go-image-charts/latest (ACCOUNT)", expUA: "go-image-charts/latest (ACCOUNT)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUA string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				w.WriteHeader(http.StatusOK)
			}))
			defer ts.Close()

			c, err := client.Build(client.WithUserAgent("TestUserAgent/1.0"))
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			var headers map[string][]string
			if tc.requestUA != "" {
				headers = map[string][]string{"User-Agent": {tc.requestUA}}
			}

			req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet, client.WithHeaders(headers))
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}

			if err := c.Do(req, http.StatusOK); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			if gotUA != tc.expUA {
				t.Errorf("expected User-Agent %q, got %q", tc.expUA, gotUA)
			}
		})
	}
}

func TestClient_WithTransport(t *testing.T) {
	var called bool
	custom := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return http.DefaultTransport.RoundTrip(r)
	})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c, err := client.Build(client.WithTransport(custom))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if err := c.Do(req, http.StatusOK); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !called {
		t.Error("custom transport was not called")
	}
}

func TestClient_OptionValidation(t *testing.T) {
	testCases := []struct {
		name   string
		opt    client.Option
		expErr error
	}{
		{name: "nil client", opt: client.WithClient(nil)},
		{name: "nil transport", opt: client.WithTransport(nil)},
		{name: "negative timeout", opt: client.WithTimeout(-1)},
		{name: "nil tracer", opt: client.WithTracer(nil)},
		{name: "zero throttle", opt: client.WithThrottle(0, 1), expErr: throttle.ErrMustNotBeZero},
		{name: "zero breaker failures", opt: client.WithCircuitBreaker("charts", 0, time.Second), expErr: breaker.ErrMustNotBeZero},
		{name: "zero breaker duration", opt: client.WithCircuitBreaker("charts", 1, 0), expErr: breaker.ErrMustNotBeZero},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Build(tc.opt)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.expErr != nil && !errors.Is(err, tc.expErr) {
				t.Errorf("expected %v, got: %v", tc.expErr, err)
			}
		})
	}
}

func TestClient_WithTimeoutZero(t *testing.T) {
	// Zero means no timeout per stdlib.
	if _, err := client.Build(client.WithTimeout(0)); err != nil {
		t.Fatalf("expected no error for zero timeout, got: %v", err)
	}
}

func TestClient_DoesNotMutateDefaultClient(t *testing.T) {
	before := *http.DefaultClient

	_, err := client.Build(
		client.WithTimeout(time.Second),
		client.WithNoFollowRedirects(),
		client.WithUserAgent("mutation-check"),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if http.DefaultClient.Timeout != before.Timeout || http.DefaultClient.Transport != before.Transport || http.DefaultClient.CheckRedirect != nil {
		t.Error("http.DefaultClient was mutated")
	}
}

func TestClient_FullChainComposition(t *testing.T) {
	var gotUA, gotID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotID = r.Header.Get(client.RequestIDHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var transportCalled bool
	custom := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		transportCalled = true
		return http.DefaultTransport.RoundTrip(r)
	})

	c, err := client.Build(
		client.WithThrottle(100, 10),
		client.WithCircuitBreaker("charts", 3, time.Second),
		client.WithUserAgent("Chain/1.0"),
		client.WithTransport(custom),
		client.WithTracer(noop.NewTracerProvider().Tracer("test")),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if err := c.Do(req, http.StatusOK); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !transportCalled {
		t.Error("custom transport was not called")
	}
	if gotUA != "Chain/1.0" {
		t.Errorf("expected User-Agent %q, got %q", "Chain/1.0", gotUA)
	}
	if gotID == "" {
		t.Error("expected a request id header")
	}
}

func TestClient_RequestIDPreserved(t *testing.T) {
	var gotID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(client.RequestIDHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet,
		client.WithHeaders(map[string][]string{client.RequestIDHeader: {"fixed-id"}}),
	)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if err := c.Do(req, http.StatusOK); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if gotID != "fixed-id" {
		t.Errorf("expected request id %q, got %q", "fixed-id", gotID)
	}
}

func TestClient_WithNoFollowRedirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/final", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c, err := client.Build(client.WithNoFollowRedirects())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), mustParse(t, ts.URL+"/redirect"), http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if err := c.Do(req, http.StatusFound); err != nil {
		t.Errorf("expected the redirect to be returned, got: %v", err)
	}
}

func TestClient_Do(t *testing.T) {
	type payload struct {
		Body string `json:"body"`
	}

	testCases := []struct {
		name      string
		status    int
		body      string
		header    map[string]string
		expCode   int
		expStatus bool
		expAuth   bool
	}{
		{name: "exact match", status: http.StatusOK, body: `{"body":"ok"}`, expCode: http.StatusOK},
		{name: "any success accepts 201", status: http.StatusCreated, body: `{"body":"ok"}`, expCode: client.AnySuccess},
		{name: "any success rejects 400", status: http.StatusBadRequest, body: "bad", header: map[string]string{"X-Ic-Error-Code": "IC_MISSING"}, expCode: client.AnySuccess, expStatus: true},
		{name: "forbidden joins auth failure", status: http.StatusForbidden, body: "nope", expCode: http.StatusOK, expStatus: true, expAuth: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tc.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			c, err := client.Build()
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}

			var got payload
			err = c.Do(req, tc.expCode, client.WithDestination(&got))

			if !tc.expStatus {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				if diff := cmp.Diff(payload{Body: "ok"}, got); diff != "" {
					t.Errorf("payload mismatch (-want +got):\n%s", diff)
				}
				return
			}

			var statusErr *client.UnexpectedStatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected *UnexpectedStatusError, got: %v", err)
			}
			if !errors.Is(err, client.ErrUnexpectedStatusCode) {
				t.Errorf("expected ErrUnexpectedStatusCode, got: %v", err)
			}
			if errors.Is(err, client.ErrAuthFailure) != tc.expAuth {
				t.Errorf("expected auth failure %v, got: %v", tc.expAuth, err)
			}
			if statusErr.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, statusErr.StatusCode)
			}
			if statusErr.Body != tc.body {
				t.Errorf("expected body %q, got %q", tc.body, statusErr.Body)
			}
			for k, v := range tc.header {
				if statusErr.Header.Get(k) != v {
					t.Errorf("expected header %s=%q, got %q", k, v, statusErr.Header.Get(k))
				}
			}
		})
	}
}

func TestClient_Do_WithBytes(t *testing.T) {
	content := []byte("\x89PNG\r\n\x1a\nraw")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(content)
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	var got []byte
	if err := c.Do(req, client.AnySuccess, client.WithBytes(&got)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if diff := cmp.Diff(content, got); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	if err := c.Do(req, client.AnySuccess, client.WithBytes(nil)); err == nil {
		t.Error("expected error for nil bytes destination")
	}
}

func TestClient_Do_ErrorBodyCapped(t *testing.T) {
	big := make([]byte, 64<<10)
	for i := range big {
		big[i] = 'x'
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(big)
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	err = c.Do(req, http.StatusOK)

	var statusErr *client.UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *UnexpectedStatusError, got: %v", err)
	}
	if len(statusErr.Body) != 4<<10 {
		t.Errorf("expected body capped at %d bytes, got %d", 4<<10, len(statusErr.Body))
	}
}

func TestClient_Request(t *testing.T) {
	u := client.URL("https", "example.com", "/chart")

	testCases := []struct {
		name      string
		opts      []client.RequestOption
		expCT     string
		expBody   bool
		expCookie string
	}{
		{name: "bare get has no content type"},
		{name: "payload defaults to json", opts: []client.RequestOption{client.WithPayload(map[string]string{"a": "b"})}, expCT: "application/json", expBody: true},
		{name: "explicit content type", opts: []client.RequestOption{client.WithContentType("text/plain")}, expCT: "text/plain"},
		{name: "cookies", opts: []client.RequestOption{client.WithCookies(&http.Cookie{Name: "session", Value: "abc"})}, expCookie: "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := client.Request(t.Context(), u, http.MethodGet, tc.opts...)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}

			if got := req.Header.Get("Content-Type"); got != tc.expCT {
				t.Errorf("expected Content-Type %q, got %q", tc.expCT, got)
			}

			if hasBody := req.ContentLength > 0; hasBody != tc.expBody {
				t.Errorf("expected body %v, got content length %d", tc.expBody, req.ContentLength)
			}

			if tc.expCookie != "" {
				cookie, err := req.Cookie("session")
				if err != nil {
					t.Fatalf("expected cookie: %v", err)
				}
				if cookie.Value != tc.expCookie {
					t.Errorf("expected cookie %q, got %q", tc.expCookie, cookie.Value)
				}
			}
		})
	}

	if _, err := client.Request(t.Context(), u, http.MethodGet, client.WithContentType("")); err == nil {
		t.Error("expected error for empty content type")
	}
}

func TestClient_URL(t *testing.T) {
	testCases := []struct {
		name string
		opts []client.URLOption
		exp  string
	}{
		{name: "bare", exp: "https://image-charts.com/chart"},
		{name: "port", opts: []client.URLOption{client.WithPort(443)}, exp: "https://image-charts.com:443/chart"},
		{name: "sorted query strings", opts: []client.URLOption{client.WithQueryStrings(map[string]string{"chs": "10x10", "cht": "p"})}, exp: "https://image-charts.com/chart?chs=10x10&cht=p"},
		{name: "raw query kept verbatim", opts: []client.URLOption{client.WithPort(443), client.WithRawQuery("cht=p&chd=t%3A1%2C2%2C3")}, exp: "https://image-charts.com:443/chart?cht=p&chd=t%3A1%2C2%2C3"},
		{name: "empty raw query keeps separator", opts: []client.URLOption{client.WithRawQuery("")}, exp: "https://image-charts.com/chart?"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := client.URL("https", "image-charts.com", "/chart", tc.opts...).String()
			if got != tc.exp {
				t.Errorf("expected %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestClient_Download(t *testing.T) {
	content := []byte("GIF89a-chart")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write(content)
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		destPath := filepath.Join(t.TempDir(), "chart.gif")

		if err := c.Download(req, client.AnySuccess, destPath); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		got, err := os.ReadFile(destPath)
		if err != nil {
			t.Fatalf("reading file: %v", err)
		}
		if diff := cmp.Diff(content, got); diff != "" {
			t.Errorf("file mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		destPath := filepath.Join(t.TempDir(), "missing", "chart.gif")

		err := c.Download(req, client.AnySuccess, destPath)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got: %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if err := c.Download(req, client.AnySuccess, ""); err == nil {
			t.Error("expected error for empty destPath")
		}
	})
}

func TestClient_WithJSONNumb(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"area":998001}`))
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), mustParse(t, ts.URL), http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	var got map[string]any
	if err := c.Do(req, http.StatusOK, client.WithDestination(&got), client.WithJSONNumb()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if _, ok := got["area"].(json.Number); !ok {
		t.Errorf("expected json.Number, got %T", got["area"])
	}
}
