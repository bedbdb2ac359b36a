package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	jobtracker "github.com/target/jobtracker-ui"
	"github.com/target/jobtracker-ui/internal/domain/routing"
	"github.com/target/jobtracker-ui/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Workspaces   *service.Workspaces
	Users        UserLister
	Composer     *routing.Composer // nil uses the default route table
	DemoAccounts []DemoAccount
	CookieDomain string
	// ClientCookieMaxAge is the lifetime of the client id cookie.
	ClientCookieMaxAge time.Duration
	IsDev              bool         // Serve templates and static files from disk
	Logger             *slog.Logger // Logger for template and HTTP errors (optional)
	// TemplateFS and StaticFS override the embedded or on-disk trees (tests).
	TemplateFS fs.FS
	StaticFS   fs.FS
	Now        func() time.Time
}

// NewRouter builds the application handler.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Workspaces == nil {
		return nil, errors.New("router: Workspaces is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	composer := services.Composer
	if composer == nil {
		composer = routing.NewComposer(nil)
	}

	templateFS, staticFS, err := resolveAssetFS(services)
	if err != nil {
		return nil, err
	}
	resolver := newResolver(staticFS, services.IsDev, logger)

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Resolver:   resolver,
		DevMode:    services.IsDev,
		Logger:     logger,
		Now:        services.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	ui := &UIHandlers{
		T:            tr,
		Composer:     composer,
		Users:        services.Users,
		DemoAccounts: services.DemoAccounts,
		IsDev:        services.IsDev,
		Logger:       logger,
	}
	authHandlers := &AuthHandlers{Logins: services.Workspaces, UI: ui, Logger: logger}
	prefsHandlers := &PrefsHandlers{UI: ui, Logger: logger}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	health := healthHandler(services.Workspaces)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	app := appChain(services, logger)
	registerUIRoutes(mux, ui, app)
	registerAuthRoutes(mux, authHandlers, app)
	registerPrefsRoutes(mux, prefsHandlers, app)

	return BrowserDetection()(mux), nil
}

// appChain wraps handlers that need a workspace: CSRF is checked before the workspace loads.
func appChain(services RouterServices, logger *slog.Logger) func(http.Handler) http.Handler {
	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Logger: logger})
	withWS := WithWorkspace(WorkspaceConfig{
		Workspaces:   services.Workspaces,
		CookieDomain: services.CookieDomain,
		MaxAge:       services.ClientCookieMaxAge,
		Logger:       logger,
	})
	return func(h http.Handler) http.Handler {
		return csrf(withWS(h))
	}
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, app func(http.Handler) http.Handler) {
	// Every other GET goes through the shell composer.
	mux.Handle("GET /", app(http.HandlerFunc(h.Shell)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, app func(http.Handler) http.Handler) {
	mux.Handle("POST /login", app(http.HandlerFunc(h.Login)))
	mux.Handle("POST /register", app(http.HandlerFunc(h.Register)))
	mux.Handle("POST /logout", app(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /auth/status", app(http.HandlerFunc(h.Status)))
	mux.Handle("GET /api/me", app(RequireAuth()(http.HandlerFunc(h.Me))))
}

func registerPrefsRoutes(mux *http.ServeMux, h *PrefsHandlers, app func(http.Handler) http.Handler) {
	mux.Handle("POST /ui/theme", app(http.HandlerFunc(h.ToggleTheme)))
	mux.Handle("POST /ui/sidebar", app(http.HandlerFunc(h.SetSidebar)))
}

// resolveAssetFS picks template and static trees: explicit overrides, then disk in dev mode,
// then the embedded copies.
func resolveAssetFS(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(filepath.Join("frontend", "static"))
		}
		return templateFS, staticFS, nil
	}

	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(jobtracker.TemplateFS, TemplatePathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded templates: %w", err)
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(jobtracker.StaticFS, "frontend/static"); err != nil {
			return nil, nil, fmt.Errorf("embedded static assets: %w", err)
		}
	}
	return templateFS, staticFS, nil
}

func newResolver(staticFS fs.FS, isDev bool, logger *slog.Logger) *AssetResolver {
	var (
		resolver *AssetResolver
		err      error
	)
	if isDev {
		resolver, err = NewAssetResolverFromDisk(filepath.Join("frontend", "static", "manifest.json"))
	} else {
		resolver, err = NewAssetResolverFromFS(staticFS, "manifest.json")
	}
	if err != nil {
		logger.Warn("failed to load asset manifest; falling back to logical asset names", "error", err)
		return nil
	}
	resolver.SetLogger(logger)
	return resolver
}

//nolint:gochecknoglobals // compiled once
var hashedAssetPattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches fingerprinted assets for a year and everything else not at all.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedAssetPattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}
