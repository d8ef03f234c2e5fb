// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the composition root of the HTTP transport.

It owns the global middleware order, the unversioned probes and the /api/v1
mount points of the users domain. Handlers are built in cmd/api and passed in
through [Handlers].
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/config"
	"github.com/taibuivan/streamvault/internal/platform/constants"
	"github.com/taibuivan/streamvault/internal/platform/middleware"
	"github.com/taibuivan/streamvault/internal/platform/respond"
	"github.com/taibuivan/streamvault/internal/users/account"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/internal/users/auth"
)

// Server pairs the routed handler with the listening [http.Server].
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	log        *slog.Logger
}

// Handlers carries every route set mounted by [NewServer].
type Handlers struct {
	Liveness  http.HandlerFunc // GET /health
	Readiness http.HandlerFunc // GET /ready, 503 while a dependency is down

	Auth     *auth.Handler     // /api/v1/auth and /api/v1/admin
	Account  *account.Handler  // /api/v1/me
	Activity *activity.Handler // /api/v1/me/activity
}

/*
NewServer builds the router and the server listening on cfg.ServerPort.

Parameters:
  - context: context.Context (lifetime of the rate limiter eviction loops)
  - cfg: *config.Config
  - log: *slog.Logger
  - verifier: middleware.SessionVerifier (resolves bearer tokens)
  - handlers: Handlers

Returns:
  - *Server
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.SessionVerifier, handlers Handlers) *Server {
	router := chi.NewRouter()

	// Order matters: the request ID and the scoped logger must exist before
	// anything can reject the request.
	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(context),
		middleware.PanicRecovery(log),
		middleware.CORS(cfg),
		middleware.Authenticate(verifier),
		chimw.CleanPath,
	)

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.MethodNotAllowed())
	})

	router.Get("/health", handlers.Liveness)
	router.Get("/ready", handlers.Readiness)
	router.Mount("/api/v1", versioned(context, handlers))

	return &Server{
		handler: router,
		log:     log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
		},
	}
}

// versioned mounts the users domain. The credential endpoints under /auth
// share a second, tighter per-IP budget.
func versioned(context context.Context, handlers Handlers) chi.Router {
	router := chi.NewRouter()

	credentialLimit := middleware.RateLimitWith(context, constants.CredentialRateLimitRPS, constants.CredentialRateLimitBurst)
	router.With(credentialLimit).Mount("/auth", handlers.Auth.Routes())
	router.Mount("/admin", handlers.Auth.AdminRoutes())

	me := handlers.Account.Routes()
	me.Mount("/activity", handlers.Activity.Routes())
	router.Mount("/me", me)

	return router
}

// Handler returns the routed handler without a listener, for tests.
func (server *Server) Handler() http.Handler {
	return server.handler
}

// ListenAndServe blocks until the server stops. A graceful stop returns
// [http.ErrServerClosed].
func (server *Server) ListenAndServe() error {
	server.log.Info("server_starting", slog.String("addr", server.httpServer.Addr))
	return server.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests for at most timeout.
func (server *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return server.httpServer.Shutdown(context)
}
