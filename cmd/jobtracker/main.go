package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/target/jobtracker-ui/config"
	"github.com/target/jobtracker-ui/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(os.Getenv("LOG_LEVEL"))
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	// .env may have changed the level.
	logger = bootstrap.InitLogger(cfg.LogLevel)
	logStartupInfo(ctx, logger, &cfg)

	storage, err := bootstrap.OpenStorage(ctx, bootstrap.StorageConfig{
		Storage: cfg.Storage,
		Redis:   cfg.Redis,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close storage failed", "error", cerr)
		}
	}()

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cfg,
		KV:     storage.KV,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting jobtracker ui",
		"addr", cfg.HTTP.Addr,
		"storage", cfg.Storage.Backend,
		"dev", cfg.IsDev,
		"login_delay", cfg.Auth.LoginDelay,
		"workspace_cache", cfg.Workspace.CacheSize)
}
