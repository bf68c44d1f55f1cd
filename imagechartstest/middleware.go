package imagechartstest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/adamwoolhether/imagecharts"
	"github.com/adamwoolhether/imagecharts/internal/mux"
)

type validationEntry struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
	Type    string   `json:"type"`
}

// rejection is a refusal reported through the error headers.
type rejection struct {
	status  int
	code    string
	entries []validationEntry
}

func (r *rejection) Error() string {
	if len(r.entries) > 0 {
		return r.code + ": " + r.entries[0].Message
	}

	return r.code
}

func enterpriseRejection(status int, code, msg string) *rejection {
	return &rejection{
		status:  status,
		code:    code,
		entries: []validationEntry{{Message: msg, Path: []string{string(imagecharts.Signature)}, Type: "enterprise"}},
	}
}

// rejections writes rejections as error headers. Any other error becomes an
// internal error with the status carried by a mux.Error, if any.
func (s *Server) rejections() mux.Middleware {
	return func(handler mux.Handler) mux.Handler {
		return func(w http.ResponseWriter, r *http.Request) error {
			err := handler(w, r)
			if err == nil {
				return nil
			}

			var rej *rejection
			if !errors.As(err, &rej) {
				status := http.StatusInternalServerError
				if appErr, ok := mux.GetError(err); ok {
					status = appErr.Status
				}
				s.logger.Error("handling chart request", "trace_id", mux.GetValues(r.Context()).TraceID, "error", err)

				rej = &rejection{status: status, code: CodeInternal}
			}

			if len(rej.entries) > 0 {
				b, err := json.Marshal(rej.entries)
				if err != nil {
					return err
				}
				w.Header().Set(imagecharts.HeaderErrorValidation, string(b))
			}
			w.Header().Set(imagecharts.HeaderErrorCode, rej.code)
			mux.RespondStatus(w, r, rej.status)

			return nil
		}
	}
}

// record stores every request before it is handled.
func (s *Server) record() mux.Middleware {
	return func(handler mux.Handler) mux.Handler {
		return func(w http.ResponseWriter, r *http.Request) error {
			s.mu.Lock()
			s.requests = append(s.requests, Request{
				UserAgent: r.UserAgent(),
				RequestID: r.Header.Get("X-Request-ID"),
				RawQuery:  r.URL.RawQuery,
				Query:     r.URL.Query(),
			})
			s.mu.Unlock()

			return handler(w, r)
		}
	}
}

// delay holds every request for the configured latency. Requests whose
// client went away are dropped without an answer.
func (s *Server) delay() mux.Middleware {
	return func(handler mux.Handler) mux.Handler {
		return func(w http.ResponseWriter, r *http.Request) error {
			if s.latency <= 0 {
				return handler(w, r)
			}

			timer := time.NewTimer(s.latency)
			defer timer.Stop()

			select {
			case <-timer.C:
				return handler(w, r)
			case <-r.Context().Done():
				s.logger.Debug("client left during latency", "error", r.Context().Err())
				return nil
			}
		}
	}
}
