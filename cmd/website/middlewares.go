package main

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/couplestory/cmd/website/internal/metrics"
)

/*
withRequestMetrics adds request timing to every route. Routes are labeled
by their registered pattern.
*/
func withRequestMetrics(routes []mux.Route, m *metrics.Metrics) []mux.Route {
	result := make([]mux.Route, 0, len(routes))

	for _, route := range routes {
		middlewares := []mux.MiddlewareFunc{newRequestMetricsMiddleware(m, route.Path)}
		route.Middlewares = append(middlewares, route.Middlewares...)
		result = append(result, route)
	}

	return result
}

func newRequestMetricsMiddleware(m *metrics.Metrics, pattern string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			m.ObserveRequest(r.Method, pattern, recorder.status, time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}

	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

/*
Hijack lets the live story upgrade to a websocket through the recorder.
*/
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)

	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}

	r.status = http.StatusSwitchingProtocols
	r.wroteHeader = true
	return hijacker.Hijack()
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
