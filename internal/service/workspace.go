package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/target/jobtracker-ui/internal/domain/prefs"
	"github.com/target/jobtracker-ui/internal/ports"
)

// ErrClientIDRequired is returned when a workspace is requested without a client id.
var ErrClientIDRequired = errors.New("client id is required")

// Workspace is the per-browser pair of stores plus the surface the theme is applied to.
type Workspace struct {
	ClientID string
	Session  *SessionStore
	Prefs    *PreferenceStore
	Surface  *prefs.Surface
}

// WorkspacesOptions groups dependencies for Workspaces.
type WorkspacesOptions struct {
	KV         ports.KVStore
	Directory  ports.UserDirectory
	LoginDelay time.Duration
	CacheSize  int
	// Shared reports that other processes write to KV too. Cached workspaces
	// are then reloaded from storage on every Get.
	Shared bool
	Logger *slog.Logger
	Now    func() time.Time
}

// Workspaces creates, loads and caches workspaces by client id.
// Evicted workspaces are rebuilt from storage on next use.
type Workspaces struct {
	opts   WorkspacesOptions
	logger *slog.Logger
	cache  *workspaceCache
	loads  singleflight.Group
	logins singleflight.Group
}

// NewWorkspaces constructs a workspace registry.
func NewWorkspaces(opts WorkspacesOptions) *Workspaces {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Logger = logger
	return &Workspaces{
		opts:   opts,
		logger: logger.With("component", "workspaces"),
		cache:  newWorkspaceCache(opts.CacheSize),
	}
}

// Get returns the workspace for clientID, loading both stores from storage on a cache miss.
func (w *Workspaces) Get(ctx context.Context, clientID string) (*Workspace, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	if ws, ok := w.cache.Get(clientID); ok {
		if !w.opts.Shared {
			return ws, nil
		}
		if err := w.reload(ctx, ws); err != nil {
			w.cache.Delete(clientID)
			return nil, err
		}
		return ws, nil
	}

	v, err, _ := w.loads.Do(clientID, func() (any, error) {
		if ws, ok := w.cache.Get(clientID); ok {
			return ws, nil
		}
		// the load is shared, so one caller cancelling must not fail the rest
		ws, loadErr := w.load(context.WithoutCancel(ctx), clientID)
		if loadErr != nil {
			return nil, loadErr
		}
		return w.cache.Add(clientID, ws), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Workspace), nil
}

func (w *Workspaces) load(ctx context.Context, clientID string) (*Workspace, error) {
	surface := prefs.NewSurface()
	ws := &Workspace{
		ClientID: clientID,
		Surface:  surface,
		Session: NewSessionStore(SessionStoreOptions{
			Directory:  w.opts.Directory,
			KV:         w.opts.KV,
			Key:        AuthStorageKey(clientID),
			LoginDelay: w.opts.LoginDelay,
			Logger:     w.opts.Logger,
			Now:        w.opts.Now,
		}),
		Prefs: NewPreferenceStore(PreferenceStoreOptions{
			KV:      w.opts.KV,
			Key:     UIStorageKey(clientID),
			Surface: surface,
			Logger:  w.opts.Logger,
		}),
	}

	if err := w.reload(ctx, ws); err != nil {
		return nil, err
	}
	w.logger.DebugContext(ctx, "workspace loaded", "client_id", clientID)
	return ws, nil
}

func (w *Workspaces) reload(ctx context.Context, ws *Workspace) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ws.Session.Load(gctx) })
	g.Go(func() error { return ws.Prefs.Load(gctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}
	return nil
}

// Login signs in on the client's workspace. Concurrent submissions of the same
// client, email and password share a single attempt and its result. A caller
// whose ctx ends stops waiting; the shared attempt runs to completion.
func (w *Workspaces) Login(ctx context.Context, clientID, email, password string) (LoginResult, error) {
	ws, err := w.Get(ctx, clientID)
	if err != nil {
		return LoginResult{}, err
	}
	attempt := context.WithoutCancel(ctx)
	ch := w.logins.DoChan(loginKey(clientID, email, password), func() (any, error) {
		return ws.Session.Login(attempt, email, password)
	})

	select {
	case <-ctx.Done():
		return LoginResult{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			w.logger.DebugContext(ctx, "login attempt shared", "client_id", clientID)
		}
		if res.Err != nil {
			return LoginResult{}, res.Err
		}
		return res.Val.(LoginResult), nil
	}
}

// loginKey never holds the password itself, only its digest.
func loginKey(clientID, email, password string) string {
	sum := sha256.Sum256([]byte(password))
	return clientID + "\x00" + email + "\x00" + hex.EncodeToString(sum[:])
}

// Stats reports cache counters.
func (w *Workspaces) Stats() CacheStats {
	return w.cache.Stats()
}
