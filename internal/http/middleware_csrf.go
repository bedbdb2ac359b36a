package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultCSRFCookieName is the cookie, and form field, carrying the token.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header htmx sends the token in (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the number of random bytes in a token.
	DefaultCSRFTokenLength = 32
	// DefaultCSRFMaxAge is the token cookie lifetime.
	DefaultCSRFMaxAge = 12 * time.Hour
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
	TokenLength   int
	MaxAge        time.Duration
	Logger        *slog.Logger
}

func (cfg *CSRFConfig) applyDefaults() {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeaderName
	}
	if cfg.FormFieldName == "" {
		cfg.FormFieldName = DefaultCSRFCookieName
	}
	if cfg.TokenLength <= 0 {
		cfg.TokenLength = DefaultCSRFTokenLength
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultCSRFMaxAge
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

// CSRFProtection implements the double-submit cookie pattern. Unsafe methods must echo the
// cookie value in the X-Csrf-Token header (htmx) or the csrf_token form field (plain forms).
// The token is exposed to templates through GetCSRFToken.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg.applyDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookieValue(r, cfg.CookieName)
			if token == "" {
				fresh, err := generateCSRFToken(cfg.TokenLength)
				if err != nil {
					cfg.Logger.ErrorContext(r.Context(), "csrf token generation failed", "error", err)
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				token = fresh
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					HttpOnly: false, // read by htmx config script
					Secure:   r.TLS != nil || isForwardedHTTPS(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   int(cfg.MaxAge / time.Second),
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if requiresCSRFValidation(r.Method) && !validCSRFToken(r, token, cfg) {
				cfg.Logger.WarnContext(r.Context(), "csrf validation failed",
					"path", r.URL.Path, "method", r.Method)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// generateCSRFToken fails closed: no predictable fallback token.
func generateCSRFToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// validCSRFToken compares the submitted token against the cookie in constant time.
// A freshly issued cookie never validates because the client could not have echoed it.
func validCSRFToken(r *http.Request, cookieToken string, cfg CSRFConfig) bool {
	if cookieValue(r, cfg.CookieName) == "" {
		return false
	}

	submitted := r.Header.Get(cfg.HeaderName)
	if submitted == "" {
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
			if err := r.ParseForm(); err != nil {
				return false
			}
			submitted = r.PostFormValue(cfg.FormFieldName)
		}
	}
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

// csrfTokenKey is an unexported context key type for CSRF token storage.
type csrfTokenKey struct{}

// GetCSRFToken returns the token for the current request, for templates and forms.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
