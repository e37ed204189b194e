package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/0X4227/Arina/internal/backend"
)

// Server represents the status HTTP server
type Server struct {
	httpServer     *http.Server
	config         *backend.Config
	status         StatusReporter
	metricsHandler http.Handler
	logger         backend.Logger
}

// NewServer creates a new status server. A nil metricsHandler leaves the metrics path unrouted.
func NewServer(config *backend.Config, status StatusReporter, metricsHandler http.Handler, logger backend.Logger) *Server {
	return &Server{
		config:         config,
		status:         status,
		metricsHandler: metricsHandler,
		logger:         logger.With("component", "server"),
	}
}

// Routes builds the request multiplexer
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	handlers := NewHandlers(s.status, s.logger)
	mux.Handle("/health", s.withMiddleware(http.HandlerFunc(handlers.HealthCheckHandler)))

	if s.config.Metrics.Enabled && s.metricsHandler != nil {
		mux.Handle(s.config.Metrics.Path, s.metricsHandler)
	}

	return mux
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Info("starting HTTP server", "address", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("graceful shutdown failed, forcing close", "error", err)
		if closeErr := s.httpServer.Close(); closeErr != nil {
			s.logger.Error("force close failed", "error", closeErr)
			return closeErr
		}
		return err
	}

	s.logger.Info("HTTP server stopped successfully")
	return nil
}

// withMiddleware applies middleware to handlers
func (s *Server) withMiddleware(handler http.Handler) http.Handler {
	handler = s.withLogging(handler)
	handler = s.withSecurityHeaders(handler)

	return handler
}

// withLogging adds request logging middleware
func (s *Server) withLogging(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		handler.ServeHTTP(wrapper, r)

		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr)
	})
}

// withSecurityHeaders adds security headers
func (s *Server) withSecurityHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-store")

		handler.ServeHTTP(w, r)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
