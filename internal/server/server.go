// Package server wires handlers, middleware and routes into an HTTP server.
//
// This is the composition root of the HTTP side: main builds the
// dependencies (store, pipeline, services, live leaderboard) and hands them
// over in Deps; New decides which URL goes where.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/analytics"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/handler"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/leaderboard"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/middleware"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/service"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/signup"
)

type Config struct {
	Addr        string
	CORSOrigins []string
}

// Deps are the components the routes are served by.
type Deps struct {
	Signups     signup.Submitter
	Hackathons  *service.HackathonService
	Leaderboard *leaderboard.Live
	Analytics   *analytics.Recorder
	Checks      map[string]handler.Checker
	Metrics     prometheus.Gatherer
}

type Server struct {
	router *chi.Mux
	srv    *http.Server
	logger *slog.Logger

	onShutdown []func()
}

func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
	}
	s.setupRoutes(cfg, deps)

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	for _, f := range s.onShutdown {
		s.srv.RegisterOnShutdown(f)
	}
	return s
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	POST /api/signups/{variant}             lead forms (newsletter, contact, ...)
//	GET  /api/hackathons                    list, ?status=upcoming|live|ended
//	GET  /api/hackathons/{id}               one hackathon
//	GET  /api/hackathons/{id}/teams         teams of a hackathon
//	POST /api/hackathons/{id}/registrations register a participant
//	POST /api/hackathons/{id}/teams         create a team
//	POST /api/hackathons/{id}/submissions   submit a project
//	PUT  /api/registrations/{id}/team       join a team
//	GET  /api/leaderboard                   current board
//	GET  /api/leaderboard/events            board as server-sent events
//	GET  /api/analytics/recent              recent analytics events
//	GET  /metrics                           prometheus
//	GET  /healthz                           health checks
//
// MIDDLEWARE ORDER: request id first so the logger can print it, recoverer
// inside the logger so a panic is still logged as a 500.
func (s *Server) setupRoutes(cfg Config, deps Deps) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(cfg.CORSOrigins))

	signups := handler.NewSignupHandler(deps.Signups, s.logger)
	hackathons := handler.NewHackathonHandler(deps.Hackathons, s.logger)
	board := handler.NewLeaderboardHandler(deps.Leaderboard, s.logger)
	s.onShutdown = append(s.onShutdown, board.Close)
	recent := handler.NewAnalyticsHandler(deps.Analytics)
	health := handler.NewHealthHandler(deps.Checks, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/signups/{variant}", signups.HandleSubmit)

		r.Route("/hackathons", func(r chi.Router) {
			r.Get("/", hackathons.HandleList)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", hackathons.HandleGet)
				r.Get("/teams", hackathons.HandleListTeams)
				r.Post("/registrations", hackathons.HandleRegister)
				r.Post("/teams", hackathons.HandleCreateTeam)
				r.Post("/submissions", hackathons.HandleSubmit)
			})
		})
		r.Put("/registrations/{id}/team", hackathons.HandleJoinTeam)

		r.Get("/leaderboard", board.HandleGet)
		r.Get("/leaderboard/events", board.HandleEvents)

		r.Get("/analytics/recent", recent.HandleRecent)
	})

	s.router.Get("/healthz", health.HandleHealth)
	if deps.Metrics != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until Shutdown is called.
func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("http server listening", slog.String("addr", ln.Addr().String()))

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, ends open event streams and waits
// up to 10 seconds for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
