// Package assets maps logical static asset names to their fingerprinted paths.
package assets

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

// StaticPrefix is the URL prefix static files are served under.
const StaticPrefix = "/static/"

// AssetResolver resolves logical asset names to hashed filenames using manifest.json.
// A resolver with no manifest resolves every name to itself.
type AssetResolver struct {
	mu          sync.RWMutex
	manifest    map[string]string
	path        string
	diskPath    string
	fsys        fs.FS
	lastModTime time.Time
	logger      *slog.Logger
}

// NewAssetResolverFromDisk reads the manifest from the local filesystem and
// picks up changes to it on later lookups.
func NewAssetResolverFromDisk(manifestPath string) (*AssetResolver, error) {
	ar := &AssetResolver{path: manifestPath, diskPath: manifestPath, logger: slog.Default()}
	return ar, ar.Reload()
}

// NewAssetResolverFromFS reads the manifest once from fsys.
func NewAssetResolverFromFS(fsys fs.FS, manifestPath string) (*AssetResolver, error) {
	ar := &AssetResolver{path: manifestPath, fsys: fsys, logger: slog.Default()}
	return ar, ar.Reload()
}

// SetLogger replaces the logger. A nil logger restores slog.Default().
func (ar *AssetResolver) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ar.mu.Lock()
	ar.logger = logger
	ar.mu.Unlock()
}

// Reload re-reads the manifest. A missing manifest is not an error.
func (ar *AssetResolver) Reload() error {
	data, modTime, err := ar.read()
	if err != nil {
		return err
	}

	manifest := map[string]string{}
	if len(data) > 0 {
		if jsonErr := json.Unmarshal(data, &manifest); jsonErr != nil {
			return jsonErr
		}
	}

	ar.mu.Lock()
	ar.manifest = manifest
	ar.lastModTime = modTime
	ar.mu.Unlock()
	return nil
}

func (ar *AssetResolver) read() ([]byte, time.Time, error) {
	switch {
	case ar.diskPath != "":
		info, err := os.Stat(ar.diskPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, nil
		}
		if err != nil {
			return nil, time.Time{}, err
		}
		data, err := os.ReadFile(ar.diskPath)
		return data, info.ModTime(), err
	case ar.fsys != nil:
		data, err := fs.ReadFile(ar.fsys, ar.path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, nil
		}
		return data, time.Time{}, err
	default:
		return nil, time.Time{}, nil
	}
}

// ReloadIfChanged reloads a disk manifest whose modification time moved forward.
func (ar *AssetResolver) ReloadIfChanged() {
	if ar == nil || ar.diskPath == "" {
		return
	}
	info, err := os.Stat(ar.diskPath)
	if err != nil {
		return
	}

	ar.mu.RLock()
	stale := info.ModTime().After(ar.lastModTime)
	logger := ar.logger
	ar.mu.RUnlock()
	if !stale {
		return
	}

	if reloadErr := ar.Reload(); reloadErr != nil {
		logger.Error("failed to reload asset manifest",
			slog.String("manifest", ar.path),
			slog.Any("error", reloadErr),
		)
	}
}

// Resolve returns the public URL for a logical asset name.
func (ar *AssetResolver) Resolve(logicalName string) string {
	if ar == nil {
		return StaticPrefix + logicalName
	}
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	if hashed, ok := ar.manifest[logicalName]; ok {
		return StaticPrefix + hashed
	}
	return StaticPrefix + logicalName
}

// ResolveAsset is the template entry point. In dev mode the disk manifest is checked for changes first.
func ResolveAsset(resolver *AssetResolver, logicalName string, devMode bool) string {
	if resolver == nil {
		return StaticPrefix + logicalName
	}
	if devMode {
		resolver.ReloadIfChanged()
	}
	return resolver.Resolve(logicalName)
}
