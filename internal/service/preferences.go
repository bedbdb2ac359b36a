package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/target/jobtracker-ui/internal/domain/prefs"
	"github.com/target/jobtracker-ui/internal/ports"
)

const uiStorageSuffix = "ui-storage"

// UIStorageKey returns the KV key holding a client's UI preferences.
func UIStorageKey(clientID string) string {
	return clientID + ":" + uiStorageSuffix
}

// PreferenceStoreOptions groups dependencies for PreferenceStore.
type PreferenceStoreOptions struct {
	KV ports.KVStore
	// Key is the storage key, usually UIStorageKey(clientID).
	Key     string
	Surface ports.ThemeSurface
	Logger  *slog.Logger
}

// PreferenceStore holds the theme and sidebar state for one client.
type PreferenceStore struct {
	kv      ports.KVStore
	key     string
	surface ports.ThemeSurface
	logger  *slog.Logger

	mu      sync.RWMutex
	state   prefs.Preferences
	raw     []byte
	version uint64
	subs    observers[prefs.Preferences]
}

// NewPreferenceStore returns a store with default preferences. Call Load to rehydrate.
func NewPreferenceStore(opts PreferenceStoreOptions) *PreferenceStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceStore{
		kv:      opts.KV,
		key:     opts.Key,
		surface: opts.Surface,
		logger:  logger.With("component", "preference_store"),
		state:   prefs.Defaults(),
	}
}

// Snapshot returns the current preferences.
func (p *PreferenceStore) Snapshot() prefs.Preferences {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Subscribe registers fn to receive every new preference snapshot. The returned func unsubscribes.
func (p *PreferenceStore) Subscribe(fn func(prefs.Preferences)) func() {
	return p.subs.add(fn)
}

// ToggleTheme flips light/dark, persists, applies the theme to the surface and notifies.
func (p *PreferenceStore) ToggleTheme(ctx context.Context) (prefs.Theme, error) {
	p.mu.Lock()
	next := p.state
	next.Theme = next.Theme.Toggle()
	version, err := p.commitLocked(ctx, next)
	if err != nil {
		current := p.state.Theme
		p.mu.Unlock()
		return current, err
	}
	p.mu.Unlock()

	p.subs.notify(version, next)
	return next.Theme, nil
}

// SetSidebarOpen sets the sidebar flag, persists and notifies.
func (p *PreferenceStore) SetSidebarOpen(ctx context.Context, open bool) error {
	p.mu.Lock()
	next := p.state
	next.SidebarOpen = open
	version, err := p.commitLocked(ctx, next)
	p.mu.Unlock()
	if err != nil {
		return err
	}

	p.subs.notify(version, next)
	return nil
}

// Load reads persisted preferences and restyles the surface when the theme changes,
// so a stored dark theme is replayed on first load. Calling it again picks up writes
// made through another process sharing the store; subscribers are only notified on change.
// A missing snapshot means defaults and an unreadable one is removed. Only storage errors are returned.
func (p *PreferenceStore) Load(ctx context.Context) error {
	p.mu.RLock()
	seen := p.version
	p.mu.RUnlock()

	raw, err := p.kv.Get(ctx, p.key)
	if errors.Is(err, ports.ErrNotFound) {
		raw, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf("load ui preferences: %w", err)
	}
	loaded, ok := p.decode(ctx, raw)

	p.mu.Lock()
	if p.version != seen {
		p.mu.Unlock()
		return nil
	}
	if !ok {
		if delErr := p.kv.Delete(ctx, p.key); delErr != nil {
			p.logger.WarnContext(ctx, "failed to remove ui preferences", "key", p.key, "error", delErr)
		}
		raw = nil
	}
	if bytes.Equal(raw, p.raw) {
		p.mu.Unlock()
		return nil
	}
	if loaded.Theme != p.state.Theme {
		p.applyTheme(loaded.Theme)
	}
	p.state = loaded
	p.raw = raw
	p.version++
	version := p.version
	p.mu.Unlock()

	p.subs.notify(version, loaded)
	return nil
}

func (p *PreferenceStore) decode(ctx context.Context, raw []byte) (prefs.Preferences, bool) {
	loaded := prefs.Defaults()
	if raw == nil {
		return loaded, true
	}
	if err := json.Unmarshal(raw, &loaded); err != nil {
		p.logger.WarnContext(ctx, "discarding unreadable ui preferences", "key", p.key, "error", err)
		return prefs.Defaults(), false
	}
	return loaded, true
}

// commitLocked persists next, then swaps it in and applies its theme. Callers hold p.mu.
func (p *PreferenceStore) commitLocked(ctx context.Context, next prefs.Preferences) (uint64, error) {
	data, err := json.Marshal(next)
	if err != nil {
		return 0, fmt.Errorf("marshal ui preferences: %w", err)
	}
	if err := p.kv.Set(ctx, p.key, data); err != nil {
		return 0, fmt.Errorf("persist ui preferences: %w", err)
	}
	if next.Theme != p.state.Theme {
		p.applyTheme(next.Theme)
	}
	p.state = next
	p.raw = data
	p.version++
	return p.version, nil
}

func (p *PreferenceStore) applyTheme(t prefs.Theme) {
	if p.surface != nil {
		p.surface.ApplyTheme(t)
	}
}
