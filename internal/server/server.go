// Package server wires the core subsystems (store, tenant registry,
// authenticator, rate limiter, ingestion pipeline, maintenance scheduler,
// query service) onto an Echo router, exposing New/Start/Shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/akave-ai/akavelog/internal/auth"
	"github.com/akave-ai/akavelog/internal/config"
	"github.com/akave-ai/akavelog/internal/ingest"
	"github.com/akave-ai/akavelog/internal/maintenance"
	"github.com/akave-ai/akavelog/internal/query"
	"github.com/akave-ai/akavelog/internal/ratelimit"
	"github.com/akave-ai/akavelog/internal/store"
	"github.com/akave-ai/akavelog/internal/tenant"
)

// Server holds the Echo app and the wired subsystems.
type Server struct {
	Echo *echo.Echo

	cfg *config.Config

	store         *store.Store
	tenants       *tenant.Registry
	authenticator *auth.Authenticator
	limiter       *ratelimit.Limiter
	pipeline      *ingest.Pipeline
	scheduler     *maintenance.Scheduler
	queryService  *query.Service
}

// New builds the Echo server, wires every subsystem and registers routes.
func New(cfg *config.Config, st *store.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Logger())

	tenants := tenant.New(st.Pool())
	tenants.Timeout = time.Duration(cfg.Database.LookupTimeoutMS) * time.Millisecond

	authenticator := auth.New(tenants, cfg.Auth.HMACSecret, cfg.Auth.AdminToken)
	limiter := ratelimit.New(st)
	scheduler := maintenance.New(st)
	pipeline := ingest.New(st, scheduler, cfg.Limits.MaxEventsPerPost)
	queryService := query.New(st)

	s := &Server{
		Echo:          e,
		cfg:           cfg,
		store:         st,
		tenants:       tenants,
		authenticator: authenticator,
		limiter:       limiter,
		pipeline:      pipeline,
		scheduler:     scheduler,
		queryService:  queryService,
	}

	s.routes()
	return s
}

// routes registers the public /healthz liveness check, the tenant-scoped
// /api/log ingest and query routes, and the /admin maintenance-trigger
// route.
func (s *Server) routes() {
	s.Echo.GET("/healthz", s.handleHealthz)

	api := s.Echo.Group("/api")
	api.Use(middleware.BodyLimit(strconv.Itoa(s.cfg.Limits.MaxPayloadBytes) + "B"))
	api.Use(captureRawBody)
	api.Use(s.apiAuth)
	api.POST("/log", s.handleIngest)
	api.GET("/log", s.handleQuery)

	admin := s.Echo.Group("/admin")
	admin.Use(s.adminAuth)
	admin.POST("/maintenance/run", s.handleAdminMaintenanceRun)
}

// Start starts the HTTP server. Blocks until the context is cancelled or
// the server fails; on cancel it calls Shutdown so in-flight requests
// drain before the pool closes.
func (s *Server) Start(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
		close(drained)
	}()
	err := s.Echo.Start(":" + s.cfg.Server.Port)
	if errors.Is(err, http.ErrServerClosed) && ctx.Err() != nil {
		<-drained
	}
	return err
}

// Shutdown gracefully drains in-flight requests. Pending maintenance tasks
// may be abandoned; abandonment is safe because every maintenance step is
// idempotent (DELETE WHERE < cutoff).
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
