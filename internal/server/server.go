// Package server provides the web UI for InsightDocs: login, chat, health.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/renovalabs/insightdocs/internal/config"
	"github.com/renovalabs/insightdocs/internal/models"
	"github.com/renovalabs/insightdocs/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// CredentialChecker validates a username/password pair.
type CredentialChecker interface {
	Check(ctx context.Context, username, password string) bool
}

// Answerer runs a question through the answer pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string) (*models.Answer, error)
}

// Server is the HTTP server for the InsightDocs web UI.
type Server struct {
	creds     CredentialChecker
	pipeline  Answerer
	sessions  *session.Manager
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
	templates *template.Template
}

// NewServer creates a server with the given dependencies.
func NewServer(
	creds CredentialChecker,
	pipeline Answerer,
	sessions *session.Manager,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		creds:     creds,
		pipeline:  pipeline,
		sessions:  sessions,
		config:    cfg,
		logger:    logger,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/", s.handleChatPage)
	r.Post("/ask", s.handleAsk)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
