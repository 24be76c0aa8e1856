// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - JSON endpoints live under /api; everything else is the storefront's
    static bundle, with /admin pages behind the edge guard.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/tastedees/internal/core/cart"
	"github.com/taibuivan/tastedees/internal/core/media"
	"github.com/taibuivan/tastedees/internal/core/product"
	"github.com/taibuivan/tastedees/internal/platform/config"
	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/internal/platform/middleware"
	"github.com/taibuivan/tastedees/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the HTTP handler sets mounted by [NewServer].
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Auth     *auth.Handler
	Products *product.Handler
	Legacy   *product.LegacyHandler
	Upload   *media.Handler
	Cart     *cart.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, sessions middleware.TokenReader, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// validated by config.Load
	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		log.Warn("trusted_proxies_ignored", slog.Any("error", err))
	}

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP(trusted))
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.Authenticate(sessions, verifier))

	// # Infrastructure Endpoints
	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/products", h.Products.Routes())
		api.Mount("/cart", h.Cart.Routes())
		api.With(middleware.RequireAuth).Post("/upload-image", h.Upload.ServeHTTP)
		api.Method(http.MethodPost, "/add-tshirt", h.Legacy.Handler())
	})

	// # Static Assets
	uploads := "/" + strings.Trim(cfg.UploadPublicPrefix, "/")
	r.Handle(uploads+"/*", http.StripPrefix(uploads, http.FileServer(http.Dir(cfg.UploadDir))))

	guard := middleware.EdgeGuard(sessions, "/admin", constants.AdminLoginPath, constants.AdminSetupPath)
	r.Handle("/*", guard(http.FileServer(http.Dir(cfg.PublicDir))))

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
