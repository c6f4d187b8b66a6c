// Package httpapi exposes the reputation engine over HTTP: a check
// endpoint for callers on the fetch path, a health probe, and prometheus
// metrics. All protocol concerns live here; the engine only ever sees
// URL strings.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/haukened/rr-urf/internal/urf/common/log"
	"github.com/haukened/rr-urf/internal/urf/domain"
)

// Validator is the slice of the engine the gateway needs.
type Validator interface {
	Validate(rawURL string) domain.Decision
}

// Options configures a Server.
type Options struct {
	Addr           string
	Engine         Validator
	Metrics        *Metrics
	Logger         log.Logger
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server is the HTTP gateway in front of the engine.
type Server struct {
	addr    string
	engine  Validator
	metrics *Metrics
	logger  log.Logger
	limiter *rateLimiter
	srv     *http.Server
}

// NewServer builds the gateway and its routes.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{
		addr:    opts.Addr,
		engine:  opts.Engine,
		metrics: metrics,
		logger:  logger,
		limiter: newRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, 10*time.Minute),
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/check", s.limiter.limit(metrics, http.HandlerFunc(s.handleCheck)))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())

	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(map[string]any{"addr": s.addr}, "http gateway listening")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts down the server and its rate limiter.
func (s *Server) Stop() error {
	s.limiter.stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Address returns the configured bind address.
func (s *Server) Address() string { return s.addr }

// checkRequest is the POST body for /v1/check.
type checkRequest struct {
	URL string `json:"url"`
}

// handleCheck evaluates one URL. GET takes ?url=, POST takes a JSON
// body. The decision is returned verbatim; blocked URLs are still HTTP
// 200 because blocking is the service working, not an error.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var rawURL string
	switch r.Method {
	case http.MethodGet:
		rawURL = r.URL.Query().Get("url")
	case http.MethodPost:
		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		rawURL = req.URL
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if rawURL == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	start := time.Now()
	decision := s.engine.Validate(rawURL)
	elapsed := time.Since(start).Seconds()

	outcome := "allowed"
	if decision.Blocked() {
		outcome = "blocked"
		s.logger.Debug(map[string]any{
			"url":    rawURL,
			"reason": decision.Reason(),
		}, "url blocked")
	}
	s.metrics.ObserveCheck(outcome, decision.Reason(), elapsed)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(decision)
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
