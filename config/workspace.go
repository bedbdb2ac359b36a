package config

// WorkspaceConfig bounds the in-memory workspace cache.
type WorkspaceConfig struct {
	// CacheSize is how many client workspaces stay in memory. Evicted ones reload from storage.
	CacheSize int `env:"CACHE_SIZE" envDefault:"1024"`
}

// Sanitize applies guardrails to workspace configuration values.
func (w *WorkspaceConfig) Sanitize() {
	if w.CacheSize <= 0 {
		w.CacheSize = 1024
	}
}
