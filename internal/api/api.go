package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lotesmx/leadbot/internal/dialog"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":3000"

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// EventSink receives inbound dialogue events for asynchronous processing.
// The dispatcher satisfies it; ingestion acknowledges the channel before
// any processing happens.
type EventSink interface {
	Enqueue(ev dialog.Event)
}

// Opts holds configuration options for the API server.
type Opts struct {
	Addr        string
	VerifyToken string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithVerifyToken sets the webhook verification secret.
func WithVerifyToken(token string) Option {
	return func(o *Opts) { o.VerifyToken = token }
}

// Server exposes the webhook verification handshake, event ingestion, and a
// health endpoint.
type Server struct {
	addr        string
	verifyToken string
	sink        EventSink
	httpServer  *http.Server
}

// NewServer creates the webhook server. The verification token falls back
// to the VERIFY_TOKEN environment variable when not provided via options.
func NewServer(sink EventSink, opts ...Option) (*Server, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.VerifyToken == "" {
		cfg.VerifyToken = os.Getenv("VERIFY_TOKEN")
	}
	if cfg.VerifyToken == "" {
		return nil, fmt.Errorf("verification token not set")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	s := &Server{addr: cfg.Addr, verifyToken: cfg.VerifyToken, sink: sink}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.webhookHandler)
	mux.HandleFunc("/health", s.healthHandler)
	s.httpServer = &http.Server{Addr: cfg.Addr, Handler: mux}

	return s, nil
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
