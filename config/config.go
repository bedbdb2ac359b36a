package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: demo sign-in and cookie configuration
//   - storage.go: workspace storage backend and Redis configuration
//   - http.go: HTTP server configuration
//   - workspace.go: in-memory workspace cache configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, static caching, insecure cookies).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Auth      AuthConfig      `envPrefix:"AUTH_"`
	Storage   StorageConfig   `envPrefix:"STORAGE_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	HTTP      HTTPConfig
	Workspace WorkspaceConfig `envPrefix:"WORKSPACE_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Storage.Sanitize()
	c.Workspace.Sanitize()

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
