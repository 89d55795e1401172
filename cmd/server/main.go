// Package main is the entry point for the study planner API server.
//
// main stays minimal: load configuration, build the logger, make sure the
// database directory exists, then hand off to internal/server. All actual
// logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sabdelkhalek/studyplanner/internal/config"
	"github.com/sabdelkhalek/studyplanner/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Configuration comes from the environment. JWT_SECRET is required —
	// generate one with: openssl rand -hex 32
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create the database directory if needed (like mkdir -p).
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
