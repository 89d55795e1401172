// Package server wires the HTTP server, router, and all route definitions.
//
// This package is the composition root: the database, token and password
// services, the domain services, and the handlers are all constructed and
// connected here. Each layer only receives what it needs — handlers never
// see the database, services never see HTTP.
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

	"github.com/sabdelkhalek/studyplanner/internal/auth"
	"github.com/sabdelkhalek/studyplanner/internal/config"
	"github.com/sabdelkhalek/studyplanner/internal/handler"
	"github.com/sabdelkhalek/studyplanner/internal/middleware"
	sqliteRepo "github.com/sabdelkhalek/studyplanner/internal/repository/sqlite"
	"github.com/sabdelkhalek/studyplanner/internal/service"
)

// Server owns the router and the resources that must be released on
// shutdown — chiefly the database connection.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// The sqlite repository packages satisfy the repository interfaces, the
// services receive those interfaces, and the handlers receive the
// services.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
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

// setupRoutes configures middleware, builds the service and handler
// layers, and registers every route.
//
// MIDDLEWARE ORDER:
// 1. RequestID — unique ID per request for tracing
// 2. RealIP — real client IP from proxy headers
// 3. Recoverer — panics become 500s instead of crashing the process
// 4. Logger — structured request log
// Auth middleware is applied per route group, not globally: register and
// login must stay reachable without a token.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.AccessTokenTTL, s.config.RefreshTokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	subjectService := service.NewSubjectService(s.db.Subjects(), s.logger)
	taskService := service.NewTaskService(s.db.Tasks(), s.db.Subjects(), s.logger)
	scheduleService := service.NewScheduleService(s.db.Schedules(), s.logger)
	planningService := service.NewPlanningService(s.db.Plannings(), s.db.Tasks(), s.logger)
	notificationService := service.NewNotificationService(s.db.Notifications(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	subjectHandler := handler.NewSubjectHandler(subjectService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, s.logger)
	planningHandler := handler.NewPlanningHandler(planningService, s.logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, s.logger)

	requireAccess := auth.RequireAccess(tokens)
	requireRefresh := auth.RequireRefresh(tokens)

	s.router.Route("/api", func(r chi.Router) {
		// === Auth routes ===
		r.Route("/auth", func(r chi.Router) {
			// Public: no token yet at this point in the flow
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)

			// Refresh is the one route keyed on the refresh token
			r.With(requireRefresh).Post("/refresh", authHandler.HandleRefresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAccess)
				r.Post("/logout", authHandler.HandleLogout)
				r.Get("/me", authHandler.HandleMe)
				r.Put("/me", authHandler.HandleUpdateMe)
				r.Post("/change-password", authHandler.HandleChangePassword)
			})
		})

		// === Domain routes (all require an access token) ===
		r.Group(func(r chi.Router) {
			r.Use(requireAccess)

			r.Get("/subjects", subjectHandler.HandleList)
			r.Post("/subjects", subjectHandler.HandleCreate)
			r.Get("/subjects/{id}", subjectHandler.HandleGetByID)
			r.Put("/subjects/{id}", subjectHandler.HandleUpdate)
			r.Delete("/subjects/{id}", subjectHandler.HandleDelete)

			r.Get("/tasks", taskHandler.HandleList)
			r.Post("/tasks", taskHandler.HandleCreate)
			r.Get("/tasks/{id}", taskHandler.HandleGetByID)
			r.Put("/tasks/{id}", taskHandler.HandleUpdate)
			r.Delete("/tasks/{id}", taskHandler.HandleDelete)

			r.Get("/schedules", scheduleHandler.HandleList)
			r.Post("/schedules", scheduleHandler.HandleImport)
			r.Get("/schedules/{id}", scheduleHandler.HandleGetByID)
			r.Delete("/schedules/{id}", scheduleHandler.HandleDelete)

			r.Get("/plannings", planningHandler.HandleList)
			r.Post("/plannings", planningHandler.HandleCreate)
			r.Get("/plannings/{id}", planningHandler.HandleGetByID)
			r.Delete("/plannings/{id}", planningHandler.HandleDelete)
			r.Put("/plannings/{id}/sessions/{sessionID}/complete", planningHandler.HandleCompleteSession)

			r.Get("/notifications", notificationHandler.HandleList)
			r.Post("/notifications", notificationHandler.HandleCreate)
			r.Put("/notifications/{id}/read", notificationHandler.HandleMarkRead)
			r.Delete("/notifications/{id}", notificationHandler.HandleDelete)
		})
	})

	return nil
}

// Handler returns the root handler, mainly for tests that drive the full
// router through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without starting it.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, wait up to 30s for in-flight
// requests, close the database (flushes WAL, releases the file lock).
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
