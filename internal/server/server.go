// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "composition root" — the one place where the whole dependency
// graph is assembled:
//
//	sqlite.DB → services (snippet, user, auth) → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services, and nothing below this package knows
// the router exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/handler"
	"github.com/sakif/snippetbin/internal/middleware"
	sqliteRepo "github.com/sakif/snippetbin/internal/repository/sqlite"
	"github.com/sakif/snippetbin/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// GitHub OAuth is optional; leave the client ID empty and the
	// /auth/github/* routes simply aren't registered.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown — skipping that can leave the SQLite WAL
// unflushed.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and wires the full dependency chain.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTE MAP:
//
//	GET    /api                         → API index
//	GET    /api/snippets                → list snippets (public)
//	POST   /api/snippets                → create snippet (auth)
//	GET    /api/snippets/{id}           → get snippet (public)
//	PUT    /api/snippets/{id}           → update snippet (owner only)
//	DELETE /api/snippets/{id}           → delete snippet (owner only)
//	GET    /api/snippets/{id}/highlight → rendered HTML (public)
//	GET    /api/users                   → list users (public)
//	GET    /api/users/{id}              → user detail (public)
//	GET    /api/languages, /api/styles  → rendering registries (public)
//	GET    /api/me, DELETE /api/me      → own account (auth)
//	POST   /auth/register|login|logout  → sessions
//	GET    /auth/github/*               → OAuth (only when configured)
//
// Ownership is NOT checked here — RequireAuth only establishes WHO is
// calling. Whether they may touch a given snippet is the service layer's
// decision, surfaced as 403 by the error writer.
func (s *Server) setupRoutes() error {
	// Global middleware runs on every request, in order.
	s.router.Use(chimiddleware.RequestID) // X-Request-ID for tracing
	s.router.Use(chimiddleware.RealIP)    // real client IP behind proxies
	s.router.Use(chimiddleware.Recoverer) // panics become 500s, not crashes
	s.router.Use(middleware.Logger(s.logger))

	// === Wire the dependency chain ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	snippetService := service.NewSnippetService(s.db, s.logger)
	userService := service.NewUserService(s.db, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	rootHandler := handler.NewRootHandler()
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	authHandler := handler.NewAuthHandler(authService, github, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/", rootHandler.HandleIndex)
		r.Get("/languages", rootHandler.HandleLanguages)
		r.Get("/styles", rootHandler.HandleStyles)

		r.Get("/snippets", snippetHandler.HandleList)
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
		r.Get("/snippets/{id}/highlight", snippetHandler.HandleHighlight)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
			r.Get("/me", authHandler.HandleMe)
			r.Delete("/me", authHandler.HandleDeleteMe)
		})

		r.Get("/users", userHandler.HandleList)
		r.Get("/users/{id}", userHandler.HandleGetByID)
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
