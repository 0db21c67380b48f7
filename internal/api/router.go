package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spotmap/internal/api/handlers/http/alerts"
	"spotmap/internal/api/handlers/http/spots"
	"spotmap/internal/api/handlers/http/system"
	"spotmap/internal/config"
	"spotmap/internal/middleware"
	"spotmap/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

// NewServer wires the handlers. ctx bounds the rate limiter's cleanup loop.
func NewServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	svc *service.Service,
	clock clockwork.Clock,
	ready map[string]system.ReadinessChecker,
) *Server {
	spotHandler := spots.NewHandler(logger, svc.Spots, svc.Alerts)
	alertHandler := alerts.NewHandler(logger, svc.Alerts, svc.AlertCreator)
	systemHandler := system.NewHandler(logger, ready)

	limit := middleware.Limit(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TTL, clock, logger)

	r := InitRouter(cfg, spotHandler, alertHandler, systemHandler, limit)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(
	cfg *config.Config,
	spotHandler *spots.Handler,
	alertHandler *alerts.Handler,
	systemHandler *system.Handler,
	limit func(http.Handler) http.Handler,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Get("/health", systemHandler.SystemHealth)
	r.Get("/ready", systemHandler.SystemReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Identity(cfg.Http.IdentityHeader))
		api.Use(limit)

		api.Route("/spots", func(sr chi.Router) {
			sr.Post("/", spotHandler.SpotCreate)
			sr.Get("/", spotHandler.SpotList)
			sr.Get("/nearby", spotHandler.SpotNearby)

			sr.Route("/{id}", func(ir chi.Router) {
				ir.Get("/", spotHandler.SpotGet)
				ir.Put("/", spotHandler.SpotUpdate)
				ir.Patch("/", spotHandler.SpotUpdate)
				ir.Delete("/", spotHandler.SpotDelete)
				ir.Get("/alerts", spotHandler.SpotAlertList)
			})
		})

		api.Route("/alerts", func(ar chi.Router) {
			ar.Post("/", alertHandler.AlertCreate)
			ar.Get("/", alertHandler.AlertList)
			ar.Get("/recent", alertHandler.AlertRecent)
			ar.Get("/types", alertHandler.AlertTypes)
			ar.Get("/timerange", alertHandler.AlertTimeRange)
			ar.Get("/aggregation", alertHandler.AlertAggregation)
			ar.Get("/spot/{spotId}", alertHandler.AlertsBySpot)
		})
	})

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
