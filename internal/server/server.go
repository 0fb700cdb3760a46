// Package server exposes a loaded index over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"docseek/internal/logging"
	"docseek/internal/metrics"
)

type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	DefaultLimit    int
	MaxLimit        int
}

type Server struct {
	cfg     Config
	handler http.Handler
	logger  *slog.Logger
}

func New(cfg Config, searcher Searcher, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.New()
	}
	m.IndexDocuments.Set(float64(searcher.Documents()))

	h := NewHandler(searcher, m, cfg.DefaultLimit, cfg.MaxLimit)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("POST /api/search", h.Search)
	mux.HandleFunc("GET /api/stats", h.Stats)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", m.Handler())

	return &Server{
		cfg:     cfg,
		handler: chain(mux, RequestID, AccessLog, Metrics(m), Recover),
		logger:  logging.WithComponent("server"),
	}
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
