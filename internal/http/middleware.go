package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/target/jobtracker-ui/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.LogAttrs(r.Context(), slog.LevelInfo, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Bool("htmx", IsHTMX(r)),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection records whether the request should get HTML or JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats /api/, /auth/status and /static/ as non-browser,
// htmx as browser, and otherwise trusts the Accept header.
func isBrowserRequest(r *http.Request) bool {
	p := r.URL.Path
	if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/static/") || p == "/auth/status" {
		return false
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// WorkspaceProvider resolves the per-browser workspace for a client id.
type WorkspaceProvider interface {
	Get(ctx context.Context, clientID string) (*service.Workspace, error)
}

// WorkspaceConfig configures WithWorkspace.
type WorkspaceConfig struct {
	Workspaces   WorkspaceProvider
	CookieName   string
	CookieDomain string
	// MaxAge is the client cookie lifetime. Zero means one year.
	MaxAge time.Duration
	Logger *slog.Logger
}

const defaultClientCookieMaxAge = 365 * 24 * time.Hour

// WithWorkspace identifies the browser by its client cookie, issuing a new id when
// the cookie is missing or malformed, and attaches the loaded workspace to the context.
func WithWorkspace(cfg WorkspaceConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultClientCookieName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultClientCookieMaxAge
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, issued := clientIDFromRequest(r, cfg.CookieName)
			if issued {
				setClientCookie(w, r, cfg, clientID)
			}

			ws, err := cfg.Workspaces.Get(r.Context(), clientID)
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "workspace load failed",
					"client_id", clientID, "error", err)
				writeUnavailable(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetWorkspaceInContext(r.Context(), ws)))
		})
	}
}

// clientIDFromRequest returns the cookie's client id, or a fresh one and true when it must be issued.
func clientIDFromRequest(r *http.Request, name string) (string, bool) {
	if c, err := r.Cookie(name); err == nil {
		if id, parseErr := uuid.Parse(c.Value); parseErr == nil {
			return id.String(), false
		}
	}
	return uuid.NewString(), true
}

func setClientCookie(w http.ResponseWriter, r *http.Request, cfg WorkspaceConfig, clientID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    clientID,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		HttpOnly: true,
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cfg.MaxAge / time.Second),
	})
}

func writeUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if IsBrowserRequest(r) {
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusServiceUnavailable,
		ErrCode: "workspace_unavailable",
		Err:     errors.New("workspace unavailable"),
	})
}

// RequireAuth rejects unauthenticated JSON requests with 401.
// It must run after WithWorkspace.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsGuestUser(r.Context()) {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// isForwardedHTTPS checks X-Forwarded-Proto, including comma-separated proxy chains.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
