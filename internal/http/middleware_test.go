package httpx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobtracker-ui/internal/service"
)

type workspaceProviderFunc func(ctx context.Context, clientID string) (*service.Workspace, error)

func (f workspaceProviderFunc) Get(ctx context.Context, clientID string) (*service.Workspace, error) {
	return f(ctx, clientID)
}

func TestWithWorkspace_IssuesClientCookie(t *testing.T) {
	ws := newContextWorkspace(t)
	var gotID string
	provider := workspaceProviderFunc(func(_ context.Context, clientID string) (*service.Workspace, error) {
		gotID = clientID
		return ws, nil
	})

	var attached *service.Workspace
	h := WithWorkspace(WorkspaceConfig{Workspaces: provider})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attached, _ = GetWorkspaceFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		cookie string
		issued bool
	}{
		{name: "no cookie", issued: true},
		{name: "malformed cookie", cookie: "not-a-uuid", issued: true},
		{name: "valid cookie", cookie: "6f1c2a8e-0b5e-4c1f-9a9b-1d2e3f4a5b6c", issued: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultClientCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Same(t, ws, attached)
			cookies := rec.Result().Cookies()
			if !tt.issued {
				assert.Empty(t, cookies)
				assert.Equal(t, tt.cookie, gotID)
				return
			}
			require.Len(t, cookies, 1)
			c := cookies[0]
			assert.Equal(t, DefaultClientCookieName, c.Name)
			assert.Equal(t, gotID, c.Value)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			assert.False(t, c.Secure)
			_, err := uuid.Parse(c.Value)
			assert.NoError(t, err)
		})
	}
}

func TestWithWorkspace_SecureBehindTLSProxy(t *testing.T) {
	provider := workspaceProviderFunc(func(context.Context, string) (*service.Workspace, error) {
		return newContextWorkspace(t), nil
	})
	h := WithWorkspace(WorkspaceConfig{Workspaces: provider})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "http, https")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestWithWorkspace_LoadFailure(t *testing.T) {
	provider := workspaceProviderFunc(func(context.Context, string) (*service.Workspace, error) {
		return nil, errors.New("redis down")
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	called := false
	h := BrowserDetection()(WithWorkspace(WorkspaceConfig{Workspaces: provider, Logger: logger})(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })))

	t.Run("browser", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "Service temporarily unavailable")
	})

	t.Run("api", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"workspace_unavailable"`)
	})

	assert.False(t, called)
	assert.Contains(t, logs.String(), "workspace load failed")
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "boom")
}

func TestLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.Header.Set("Hx-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := logs.String()
	assert.Contains(t, out, "path=/register")
	assert.Contains(t, out, "status=201")
	assert.Contains(t, out, "htmx=true")
}
