// Package server exposes traces and metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/euclid/internal/cli"
	"github.com/agbru/euclid/internal/config"
	apperrors "github.com/agbru/euclid/internal/errors"
	"github.com/agbru/euclid/internal/logging"
	"github.com/agbru/euclid/internal/metrics"
	"github.com/agbru/euclid/internal/orchestration"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves GET /trace, /metrics and /health.
type Server struct {
	httpServer *http.Server
	metrics    *Metrics
	recorder   *metrics.Recorder
	logger     logging.Logger
	security   SecurityConfig
	timeout    time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// WithRequestTimeout bounds the computation of each trace.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server listening on addr. Trace metrics go to recorder.
func New(addr string, recorder *metrics.Recorder, logger logging.Logger, opts ...Option) *Server {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	s := &Server{
		metrics:  NewMetrics(recorder),
		recorder: recorder,
		logger:   logger,
		security: DefaultSecurityConfig(),
		timeout:  config.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Handler returns the routed handler with all middlewares applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/trace", s.wrap("/trace", s.handleTrace))
	mux.HandleFunc("/metrics", s.wrap("/metrics", s.handleMetrics))
	mux.HandleFunc("/health", s.wrap("/health", s.handleHealth))
	return mux
}

func (s *Server) wrap(route string, h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(route, h))
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logInfo("listening", logging.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	s.logInfo("stopped")
	return nil
}

// statusWriter remembers the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next(sw, r)
		s.metrics.ObserveRequest(route, sw.code)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// contentTypes maps each format to the Content-Type of its response.
var contentTypes = map[string]string{
	config.FormatJSON:  "application/json",
	config.FormatYAML:  "application/yaml",
	config.FormatCSV:   "text/csv; charset=utf-8",
	config.FormatPlain: "text/plain; charset=utf-8",
	config.FormatTable: "text/plain; charset=utf-8",
}

// handleTrace serves GET /trace?a=99&b=79[&format=json].
func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	pair, err := s.parsePair(q.Get("a"), q.Get("b"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format := q.Get("format")
	if format == "" {
		format = config.FormatJSON
	}
	contentType, ok := contentTypes[format]
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	res := orchestration.ExecuteTraces(ctx, []config.Pair{pair}, orchestration.ExecOptions{
		Recorder: s.recorder,
		Logger:   s.logger,
	})[0]
	if res.Err != nil {
		s.writeError(w, statusFor(res.Err), res.Err.Error())
		return
	}

	body, err := cli.RenderTrace(res.Steps, format, false)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (s *Server) parsePair(rawA, rawB string) (config.Pair, error) {
	if rawA == "" || rawB == "" {
		return config.Pair{}, errors.New("query parameters a and b are required")
	}
	a, err := strconv.ParseInt(rawA, 10, 64)
	if err != nil {
		return config.Pair{}, fmt.Errorf("invalid integer a=%q", rawA)
	}
	b, err := strconv.ParseInt(rawB, 10, 64)
	if err != nil {
		return config.Pair{}, fmt.Errorf("invalid integer b=%q", rawB)
	}
	if limit := s.security.MaxInputValue; limit > 0 && (a > limit || b > limit) {
		return config.Pair{}, fmt.Errorf("inputs must not exceed %d", limit)
	}
	return config.Pair{A: a, B: b}, nil
}

// statusFor maps a trace error to an HTTP status.
func statusFor(err error) int {
	switch apperrors.ExitCodeFor(err) {
	case apperrors.ExitErrorConfig:
		return http.StatusBadRequest
	case apperrors.ExitErrorTimeout, apperrors.ExitErrorCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	if s.logger != nil && status >= http.StatusInternalServerError {
		s.logger.Error("request failed", errors.New(msg), logging.Int("status", status))
	}
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logInfo(msg string, fields ...logging.Field) {
	if s.logger != nil {
		s.logger.Info(msg, fields...)
	}
}
