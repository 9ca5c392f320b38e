package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Anthanoess/task-app/internal/config"
	"github.com/Anthanoess/task-app/internal/server"
)

// @title           Task Board API
// @version         1.0
// @description     Sprints, tasks and batch status transitions for a team task board.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	s, err := server.Init(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("server initialization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := s.Run(); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
