package http

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shortlink_http_requests_total",
	Help: "Number of HTTP requests by route group, method and status.",
}, []string{"route", "method", "status"})

// statusResponseWriter wraps http.ResponseWriter to capture response details
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (sw *statusResponseWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusResponseWriter) Write(b []byte) (int, error) {
	if sw.body != nil {
		sw.body.Write(b)
	}
	return sw.ResponseWriter.Write(b)
}

// MetricsMiddleware counts requests per route group and status. Short codes
// are collapsed into a single "redirect" label to keep cardinality bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(sw, r)

		requestsTotal.WithLabelValues(routeGroup(r.URL.Path), r.Method, strconv.Itoa(sw.statusCode)).Inc()
	})
}

// routeGroup maps a request path to a bounded label value
func routeGroup(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/"):
		return "api"
	case path == "/health":
		return "health"
	case path == "/metrics":
		return "metrics"
	default:
		return "redirect"
	}
}

// LoggingMiddleware creates HTTP middleware for logging requests and responses
type LoggingMiddleware struct {
	verbose bool
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(verbose bool) *LoggingMiddleware {
	return &LoggingMiddleware{verbose: verbose}
}

// Middleware returns the HTTP logging middleware function
func (l *LoggingMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.verbose {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		log.Printf("[HTTP REQUEST] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		// Log request body for POST/PUT requests
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if r.Body != nil {
				bodyBytes, err := io.ReadAll(r.Body)
				if err != nil {
					log.Printf("[HTTP REQUEST] Error reading request body: %v", err)
				} else {
					// Create a new reader for the handler
					r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
					if len(bodyBytes) > 0 {
						log.Printf("[HTTP REQUEST] Body: %s", string(bodyBytes))
					}
				}
			}
		}

		sw := &statusResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		log.Printf("[HTTP RESPONSE] %s %s -> %d in %v", r.Method, r.URL.Path, sw.statusCode, duration)

		if sw.body.Len() > 0 && sw.statusCode >= 400 {
			log.Printf("[HTTP RESPONSE] Error body: %s", sw.body.String())
		}
	})
}
