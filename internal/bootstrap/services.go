package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/target/jobtracker-ui/config"
	"github.com/target/jobtracker-ui/internal/adapters/directory"
	httpx "github.com/target/jobtracker-ui/internal/http"
	"github.com/target/jobtracker-ui/internal/ports"
	"github.com/target/jobtracker-ui/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Workspaces   *service.Workspaces
	Directory    *directory.Memory
	DemoAccounts []httpx.DemoAccount
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	KV     ports.KVStore
	Logger *slog.Logger
}

// NewServices builds the user directory and the workspace registry.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps require config")
	}
	if deps.KV == nil {
		return ServiceContainer{}, errors.New("service deps require a KV store")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	auth := deps.Config.Auth

	dir, err := directory.NewMemory(directory.Options{
		Secret: auth.SharedSecret,
		Cost:   auth.BcryptCost,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build user directory: %w", err)
	}

	workspaces := service.NewWorkspaces(service.WorkspacesOptions{
		KV:         deps.KV,
		Directory:  dir,
		LoginDelay: loginDelay(auth.LoginDelay),
		CacheSize:  deps.Config.Workspace.CacheSize,
		Shared:     deps.Config.Storage.Shared(),
		Logger:     logger,
	})

	return ServiceContainer{
		Workspaces:   workspaces,
		Directory:    dir,
		DemoAccounts: demoAccounts(auth.SharedSecret),
	}, nil
}

// loginDelay maps the config convention (0 disables) onto the service one (negative disables).
func loginDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return -1
	}
	return d
}

// demoAccounts lists the sign-in shortcuts. They are only shown while the
// directory still uses the published demo password.
func demoAccounts(secret string) []httpx.DemoAccount {
	if secret != directory.DefaultSecret {
		return nil
	}
	users := directory.DemoUsers(time.Time{})
	out := make([]httpx.DemoAccount, 0, len(users))
	for _, u := range users {
		out = append(out, httpx.DemoAccount{Role: u.Role.Label(), Email: u.Email, Password: secret})
	}
	return out
}

// ServiceOrchestrationConfig contains everything needed to run the server.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until a shutdown
// signal arrives, ctx is canceled, or the server fails.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		quit:       quit,
		errCh:      errCh,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	quit       <-chan os.Signal
	errCh      <-chan error
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal or a server error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down services...")
		return gracefulStop(cfg)
	case <-cfg.ctx.Done():
		cfg.logger.Info("context canceled, shutting down services...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains in-flight requests.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
	defer cancel()

	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}
