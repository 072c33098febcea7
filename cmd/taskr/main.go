// Package main is the entry point for the taskr CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"taskr/internal/backend/googletasks"
	"taskr/internal/backend/rest"
	"taskr/internal/cli"
	"taskr/internal/commands"
	"taskr/internal/config"
	"taskr/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// newService picks the backend named in config.yaml.
func newService(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendREST:
		return rest.New(ctx, cfg, logger)
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
