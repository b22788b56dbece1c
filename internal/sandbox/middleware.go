package sandbox

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func WithMetrics(next http.Handler, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		metrics.RecordRequest(r.Context(), r.Method, routePath(r.URL.Path), rw.statusCode, duration)
	})
}

// NewServer assembles the sandbox routes behind tracing and, when metrics is
// non-nil, request metrics.
func NewServer(h *Handler, metrics *Metrics) http.Handler {
	h.metrics = metrics

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	h.Register(mux)

	var handler http.Handler = mux
	if metrics != nil {
		handler = WithMetrics(handler, metrics)
	}
	return otelhttp.NewHandler(handler, "sline-sandbox",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + routePath(r.URL.Path)
		}),
	)
}

// routePath collapses session ids so metric and span names stay bounded.
func routePath(path string) string {
	if strings.HasPrefix(path, sessionsPath) {
		return sessionsPath + "{id}"
	}
	return path
}
