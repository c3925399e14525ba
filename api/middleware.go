package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/reelbyte-backend/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// statusRecorder remembers the status written through it. A bare Write
// counts as 200.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// recoverPanics turns a handler panic into a logged 500 with the usual
// error body, provided nothing was written yet.
func recoverPanics(next http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "recoverer").Logger())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordStatus(w)
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Interface("panic", p).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic")
			if !rec.wroteHeader {
				responder.WriteJSONStatus(rec, http.StatusInternalServerError, ErrorResponse{
					Error:  "Internal Server Error",
					Status: "error",
				})
			}
		}()

		next.ServeHTTP(rec, r)
	})
}

// recordRequestMetrics observes latency per route pattern, so /gigs/{gigID}
// is one series however many gigs are fetched.
func recordRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recordStatus(w)

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(rec.status), time.Since(start))
	})
}

// logRequests writes one console line per request, levelled by status:
// 5xx as errors, 4xx as warnings.
func logRequests(next http.Handler) http.Handler {
	consoleLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recordStatus(w)

		next.ServeHTTP(rec, r)

		var evt *zerolog.Event
		switch {
		case rec.status >= http.StatusInternalServerError:
			evt = consoleLogger.Error()
		case rec.status >= http.StatusBadRequest:
			evt = consoleLogger.Warn()
		default:
			evt = consoleLogger.Info()
		}
		evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
