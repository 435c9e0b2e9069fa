package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shortlink/internal/service"
)

// Server represents the HTTP server
type Server struct {
	handler *Handler
	server  *http.Server
	port    string
}

// NewServer creates a new HTTP server
func NewServer(shortener service.URLShortener, port string, verbose bool) *Server {
	handler := NewHandler(shortener)

	mux := http.NewServeMux()

	// API endpoints. The mux picks the longest matching prefix, so the
	// fixed routes win over the /api/url/ subtree and the redirect
	// catch-all.
	mux.HandleFunc("/api/url/shorten", handler.Shorten)
	mux.HandleFunc("/api/url/all", handler.ListURLs)
	mux.HandleFunc("/api/url/analytics/", handler.Analytics)
	mux.HandleFunc("/api/url/", handler.DeleteURL)

	// Operational endpoints
	mux.HandleFunc("/health", handler.Health)
	mux.Handle("/metrics", promhttp.Handler())

	// Redirect endpoint (catch-all)
	mux.HandleFunc("/", handler.Redirect)

	// Wrap with middlewares, metrics innermost so it sees final statuses
	var finalHandler http.Handler = MetricsMiddleware(mux)

	if verbose {
		loggingMiddleware := NewLoggingMiddleware(verbose)
		finalHandler = loggingMiddleware.Middleware(finalHandler)
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		handler: handler,
		server:  server,
		port:    port,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Server starting on port %s", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Server shutting down...")
	return s.server.Shutdown(ctx)
}

// Port returns the server port
func (s *Server) Port() string {
	return s.port
}

// Handler returns the server handler (useful for testing)
func (s *Server) Handler() *Handler {
	return s.handler
}
