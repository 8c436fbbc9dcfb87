package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/botfarm/internal/api/handler"
	mw "github.com/edvin/botfarm/internal/api/middleware"
	"github.com/edvin/botfarm/internal/core"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	pool     *pgxpool.Pool
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, services *core.Services) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		pool:     pool,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// Auth (no token required)
	auth := handler.NewAuth(s.services.Auth)
	s.router.Post("/auth/register", auth.Register)
	s.router.Post("/auth/login", auth.Login)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.services.Auth))

		r.Get("/me", auth.Me)

		// Bot lifecycle
		bot := handler.NewBot(s.services.Bot)
		r.Get("/bots", bot.List)
		r.Post("/bots", bot.Deploy)
		r.Get("/bots/{id}", bot.Get)
		r.Post("/bots/{id}/start", bot.Start)
		r.Post("/bots/{id}/stop", bot.Stop)
		r.Post("/bots/{id}/restart", bot.Restart)
		r.Delete("/bots/{id}", bot.Delete)

		// Logs
		botLog := handler.NewBotLog(s.services.BotLog)
		r.Get("/bots/{id}/logs", botLog.List)

		// Env vars
		envVar := handler.NewBotEnvVar(s.services.BotEnvVar)
		r.Get("/bots/{id}/env-vars", envVar.List)
		r.Put("/bots/{id}/env-vars", envVar.Set)

		// Resource history
		sample := handler.NewResourceSample(s.services.ResourceSample)
		r.Get("/bots/{id}/samples", sample.List)

		// Metrics overview
		metrics := handler.NewMetrics(s.services.Metrics)
		r.Get("/metrics/overview", metrics.Overview)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
