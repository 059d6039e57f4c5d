// ABOUTME: Server wires config, catalog, completion client, and session engine together
// ABOUTME: Owns the HTTP listener lifecycle including graceful shutdown

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/agentarmy/console/internal/auth"
	"github.com/agentarmy/console/internal/completion"
	"github.com/agentarmy/console/internal/config"
	"github.com/agentarmy/console/internal/escalation"
	"github.com/agentarmy/console/internal/metrics"
	"github.com/agentarmy/console/internal/persona"
	"github.com/agentarmy/console/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Server hosts the console API on top of the session engine.
type Server struct {
	cfg        *config.Config
	sessions   *session.Service
	verifier   *auth.JWTVerifier
	metrics    *metrics.Metrics
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds a fully wired server from config.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	catalog, err := persona.NewWithOverrides(cfg.Personas)
	if err != nil {
		return nil, fmt.Errorf("building persona catalog: %w", err)
	}

	client := completion.NewClient(completion.Config{
		BaseURL:     cfg.Completion.BaseURL,
		APIKey:      cfg.Completion.APIKey,
		Model:       cfg.Completion.Model,
		MaxTokens:   cfg.Completion.MaxTokens,
		Temperature: cfg.Completion.Temperature,
		Timeout:     cfg.Completion.Timeout,
		Logger:      logger,
	})

	policy := escalation.NewPolicy()
	if len(cfg.Escalation.Keywords) > 0 {
		policy.Keywords = cfg.Escalation.Keywords
	}
	if cfg.Escalation.MessageThreshold > 0 {
		policy.MessageThreshold = cfg.Escalation.MessageThreshold
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	sessions := session.New(catalog, client, policy, m, logger)
	return newServer(cfg, sessions, m, logger), nil
}

// newServer assembles the HTTP layer around an existing session service.
// Split from New so tests can inject a stub completion layer.
func newServer(cfg *config.Config, sessions *session.Service, m *metrics.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		metrics:  m,
		logger:   logger.With("component", "server"),
	}
	if cfg.Auth.JWTSecret != "" {
		s.verifier = auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler, with auth applied to /api routes
// when a JWT secret is configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	api := http.NewServeMux()
	api.HandleFunc("/api/conversations", s.handleConversations)
	api.HandleFunc("/api/conversations/", s.handleConversationRoutes)
	api.HandleFunc("/api/stats", s.handleStats)

	if s.verifier != nil {
		mux.Handle("/api/", auth.Middleware(s.verifier)(api))
	} else {
		mux.Handle("/api/", api)
	}

	mux.HandleFunc("/health", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		mux.Handle(s.cfg.Metrics.Path, s.metrics.Handler())
	}
	return mux
}

// Run serves HTTP until ctx is cancelled or the listener fails, then
// drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Server.HTTPAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
