package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobtracker-ui/internal/domain/routing"
	"github.com/target/jobtracker-ui/internal/service"
)

type loginFunc func(ctx context.Context, clientID, email, password string) (service.LoginResult, error)

func (f loginFunc) Login(ctx context.Context, clientID, email, password string) (service.LoginResult, error) {
	return f(ctx, clientID, email, password)
}

func newAuthHandlersForTest(t *testing.T, logins LoginService) *AuthHandlers {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("templates not available")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest), Logger: logger})
	require.NoError(t, err)
	ui := &UIHandlers{T: tr, Composer: routing.NewComposer(nil), Logger: logger}
	return &AuthHandlers{Logins: logins, UI: ui, Logger: logger}
}

func loginRequest(t *testing.T, ws *service.Workspace, accept string) *http.Request {
	t.Helper()
	form := url.Values{FormFieldEmail: {"student@example.com"}, FormFieldPassword: {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return req.WithContext(SetWorkspaceInContext(req.Context(), ws))
}

func TestAuthHandlers_LoginPassesClientID(t *testing.T) {
	ws := newContextWorkspace(t)
	var gotClient, gotEmail string
	h := newAuthHandlersForTest(t, loginFunc(func(_ context.Context, clientID, email, _ string) (service.LoginResult, error) {
		gotClient, gotEmail = clientID, email
		return service.LoginResult{}, nil
	}))

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, ws, ""))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "c1", gotClient)
	assert.Equal(t, "student@example.com", gotEmail)
}

func TestAuthHandlers_LoginBackendFailure(t *testing.T) {
	ws := newContextWorkspace(t)
	h := newAuthHandlersForTest(t, loginFunc(func(context.Context, string, string, string) (service.LoginResult, error) {
		return service.LoginResult{}, errors.New("kv unavailable")
	}))

	t.Run("browser gets the error page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, loginRequest(t, ws, "text/html"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), MsgTryAgain)
		assert.NotContains(t, rec.Body.String(), "kv unavailable")
	})

	t.Run("api client gets json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, loginRequest(t, ws, "application/json"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal server error")
	})
}

func TestAuthHandlers_LoginCanceled(t *testing.T) {
	ws := newContextWorkspace(t)
	h := newAuthHandlersForTest(t, loginFunc(func(context.Context, string, string, string) (service.LoginResult, error) {
		return service.LoginResult{}, context.Canceled
	}))

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, ws, ""))
	assert.Zero(t, rec.Body.Len(), "nothing is written for a client that went away")
}

func TestAuthHandlers_MissingWorkspace(t *testing.T) {
	h := newAuthHandlersForTest(t, loginFunc(func(context.Context, string, string, string) (service.LoginResult, error) {
		t.Fatal("login must not be attempted")
		return service.LoginResult{}, nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAuthHandlers_MeAnonymous(t *testing.T) {
	h := newAuthHandlersForTest(t, nil)
	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseRegisterForm(t *testing.T) {
	form := url.Values{
		"name":     {"Ada Lovelace"},
		"email":    {"ada@example.com"},
		"role":     {"Recruiter"},
		"location": {"  London  "},
		"skills":   {" math ,, engines,"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, req.ParseForm())

	in := parseRegisterForm(req)
	assert.Equal(t, "Ada Lovelace", in.Name)
	assert.Equal(t, "Recruiter", in.Role)
	assert.Equal(t, "London", in.Location)
	assert.Equal(t, []string{"math", "engines"}, in.Skills)
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                       "/",
		"/settings":              "/settings",
		"/jobs?page=2":           "/jobs?page=2",
		"https://evil.example/x": "/",
		"//evil.example/x":       "/",
		"relative":               "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), in)
	}
}
