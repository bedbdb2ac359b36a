package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageBackend selects where workspace snapshots are persisted.
type StorageBackend string

const (
	// StorageSQLite stores snapshots in a local SQLite file.
	StorageSQLite StorageBackend = "sqlite"
	// StorageRedis stores snapshots in Redis so several instances can share them.
	StorageRedis StorageBackend = "redis"
	// StorageMemory keeps snapshots in process memory (development only).
	StorageMemory StorageBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch StorageBackend(v) {
	case StorageSQLite, StorageRedis, StorageMemory:
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: sqlite, redis, memory)", v)
	}
}

// StorageConfig contains workspace storage configuration.
type StorageConfig struct {
	Backend StorageBackend `env:"BACKEND" envDefault:"sqlite"`

	// SQLitePath is the database file used when Backend=sqlite.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"jobtracker.db"`

	// RedisPrefix namespaces keys when Backend=redis.
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"jobtracker:"`

	// RedisTTL expires idle snapshots when Backend=redis. Zero keeps them forever.
	RedisTTL time.Duration `env:"REDIS_TTL" envDefault:"0s"`
}

// Shared reports whether other instances may write the same snapshots,
// in which case cached workspaces must be reloaded on every request.
func (s StorageConfig) Shared() bool {
	return s.Backend == StorageRedis
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StorageSQLite
	}
	if strings.TrimSpace(s.SQLitePath) == "" {
		s.SQLitePath = "jobtracker.db"
	}
	if s.RedisTTL < 0 {
		s.RedisTTL = 0
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
