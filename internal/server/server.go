// Package server wires the catalog resources into one chi router and runs
// it as a long-lived HTTP server.
//
// Routes:
//
//	/filters   FilterHandler (GET, PUT, OPTIONS)
//	/models    ModelHandler  (GET, POST, DELETE, OPTIONS)
//	/healthz   datastore ping
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/model-catalog/internal/handler"
	"github.com/sakif/model-catalog/internal/middleware"
	"github.com/sakif/model-catalog/internal/service"
	"github.com/sakif/model-catalog/internal/store"
)

type Config struct {
	Port                 int
	ShutdownTimeout      time.Duration
	ResetSequenceOnEmpty bool
}

// Server owns the router. The store is borrowed: whoever opened it closes it
// after Start returns.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  store.Store
}

func New(cfg Config, logger *slog.Logger, st store.Store) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  st,
	}
	s.setupRoutes()
	return s
}

// Router exposes the handler for tests and for embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes installs the middleware chain and mounts each resource.
// Recoverer runs inside AllowAnyOrigin so a recovered panic still carries
// the CORS header.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.UserID)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.AllowAnyOrigin)
	s.router.Use(chimiddleware.Recoverer)

	s.router.NotFound(handler.NotFound)
	s.router.MethodNotAllowed(handler.MethodNotAllowed)

	filterService := service.NewFilterService(s.store.Filters(), s.logger)
	modelService := service.NewModelService(s.store.Models(), service.ModelServiceConfig{
		ResetSequenceOnEmpty: s.config.ResetSequenceOnEmpty,
	}, s.logger)

	s.router.Mount("/filters", handler.NewFilterHandler(filterService, s.logger).Routes())
	s.router.Mount("/models", handler.NewModelHandler(modelService, s.logger).Routes())
	s.router.Get("/healthz", handler.NewHealthHandler(s.store, s.logger).HandleHealth)
}

// Start serves until ctx is cancelled, then gives in-flight requests
// ShutdownTimeout to finish.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
