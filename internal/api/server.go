// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/khawarh/taskpro/internal/core/list"
	"github.com/khawarh/taskpro/internal/core/task"
	"github.com/khawarh/taskpro/internal/platform/config"
	"github.com/khawarh/taskpro/internal/platform/constants"
	"github.com/khawarh/taskpro/internal/platform/middleware"
	"github.com/khawarh/taskpro/internal/users/auth"
	"github.com/khawarh/taskpro/internal/users/subuser"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here; no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler; always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles signup, login, and access-token renewal.
	Auth *auth.Handler

	// SubUser handles owner-scoped sub-user management.
	SubUser *subuser.Handler

	// List handles the owner-scoped list CRUD.
	List *list.Handler

	// Task handles list-scoped and sub-user-scoped task CRUD.
	Task *task.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {

		// /users mixes public auth endpoints with access-gated management.
		// The access-token gate is scoped to the protected groups below:
		// signup, login, and the refresh-gated renewal authenticate by other
		// means, and a stale x-access-token sent alongside them must not 401.
		api.Route("/users", func(users chi.Router) {
			h.Auth.RegisterRoutes(users)

			users.Group(func(protected chi.Router) {
				protected.Use(middleware.Authenticate(verifier), middleware.RequireAuth)

				h.SubUser.RegisterRoutes(protected)

				protected.Route("/{userID}/tasks", func(userTasks chi.Router) {
					h.Task.RegisterSubUserRoutes(userTasks)
				})
			})
		})

		// /lists is entirely access-gated.
		api.Route("/lists", func(lists chi.Router) {
			lists.Use(middleware.Authenticate(verifier), middleware.RequireAuth)

			h.List.RegisterRoutes(lists)

			lists.Route("/{listID}/tasks", func(listTasks chi.Router) {
				h.Task.RegisterListRoutes(listTasks)
			})
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
