package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(t *testing.T, cfg CSRFConfig) (http.Handler, *string) {
	t.Helper()
	var seen string
	h := CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCSRFToken(r)
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

// issueCSRFToken performs a GET and returns the issued token.
func issueCSRFToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	c := csrfCookie(t, rec)
	require.NotNil(t, c, "csrf cookie not issued")
	require.NotEmpty(t, c.Value)
	return c.Value
}

func TestCSRFProtection_IssuesTokenOnGet(t *testing.T) {
	h, seen := csrfHandler(t, CSRFConfig{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := csrfCookie(t, rec)
	require.NotNil(t, c)
	assert.Equal(t, c.Value, *seen, "context token should match the cookie")
	assert.Equal(t, "/", c.Path)
	assert.False(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int(DefaultCSRFMaxAge.Seconds()), c.MaxAge)
}

func TestCSRFProtection_ReusesExistingCookie(t *testing.T) {
	h, seen := csrfHandler(t, CSRFConfig{})
	token := issueCSRFToken(t, h)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Nil(t, csrfCookie(t, rec))
	assert.Equal(t, token, *seen)
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	h, _ := csrfHandler(t, CSRFConfig{CookieDomain: "jobs.example.com"})

	t.Run("tls", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "https://jobs.example.com/", nil))
		c := csrfCookie(t, rec)
		require.NotNil(t, c)
		assert.True(t, c.Secure)
		assert.Equal(t, "jobs.example.com", c.Domain)
	})

	t.Run("forwarded proto", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://jobs.example.com/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		c := csrfCookie(t, rec)
		require.NotNil(t, c)
		assert.True(t, c.Secure)
	})
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	h, _ := csrfHandler(t, CSRFConfig{})
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/settings", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestCSRFProtection_UnsafeRequests(t *testing.T) {
	h, _ := csrfHandler(t, CSRFConfig{})
	token := issueCSRFToken(t, h)

	formBody := func(v string) *strings.Reader {
		return strings.NewReader(url.Values{DefaultCSRFCookieName: {v}}.Encode())
	}

	tests := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{
			name: "no cookie no token",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/login", nil)
			},
			status: http.StatusForbidden,
		},
		{
			name: "header token matches cookie",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/ui/theme", nil)
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				req.Header.Set(DefaultCSRFHeaderName, token)
				return req
			},
			status: http.StatusOK,
		},
		{
			name: "form token matches cookie",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/login", formBody(token))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return req
			},
			status: http.StatusOK,
		},
		{
			name: "token mismatch",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/logout", nil)
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				req.Header.Set(DefaultCSRFHeaderName, "forged")
				return req
			},
			status: http.StatusForbidden,
		},
		{
			name: "token without cookie is never accepted",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/login", formBody(token))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			status: http.StatusForbidden,
		},
		{
			name: "json body ignores form field",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"csrf_token":"`+token+`"}`))
				req.Header.Set("Content-Type", "application/json")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return req
			},
			status: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.build())
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "CSRF token validation failed")
			}
		})
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
