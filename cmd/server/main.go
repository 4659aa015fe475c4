package main

import (
	"context"
	"log"
	"os"

	"github.com/julianrazif/kanban-mono-repo/internal/logging"
	"github.com/julianrazif/kanban-mono-repo/internal/server"
	"github.com/julianrazif/kanban-mono-repo/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewJSON(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
