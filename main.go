package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hireloop/backend/services"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	config := services.LoadConfig()

	server := services.NewServer(config)
	if err := server.InitializeServices(context.Background()); err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	server.Start()
}
