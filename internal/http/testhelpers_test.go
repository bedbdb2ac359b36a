package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/target/jobtracker-ui/internal/adapters/directory"
	"github.com/target/jobtracker-ui/internal/mocks/store"
	"github.com/target/jobtracker-ui/internal/service"
)

// testNow is the fixed clock used by router tests.
var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

// testApp is a fully wired router backed by in-memory storage.
type testApp struct {
	Handler    http.Handler
	KV         *store.MemoryKV
	Directory  *directory.Memory
	Workspaces *service.Workspaces
}

// testAppConfig is what a testAppOption may adjust before the app is built.
type testAppConfig struct {
	Workspaces service.WorkspacesOptions
	Router     RouterServices
}

// testAppOption tweaks the workspace and router wiring before the router is built.
type testAppOption func(*testAppConfig)

// newTestApp builds the router over the on-disk templates and static assets.
func newTestApp(t *testing.T, opts ...testAppOption) *testApp {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("templates not available, skipping router test")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := store.NewMemoryKV()
	dir, err := directory.NewMemory(directory.Options{
		Cost: bcrypt.MinCost,
		Now:  func() time.Time { return testNow },
	})
	require.NoError(t, err)

	cfg := testAppConfig{
		Workspaces: service.WorkspacesOptions{
			KV:         kv,
			Directory:  dir,
			LoginDelay: -1,
			Logger:     logger,
			Now:        func() time.Time { return testNow },
		},
		Router: RouterServices{
			Users: dir,
			DemoAccounts: []DemoAccount{
				{Role: "Student", Email: "student@example.com", Password: directory.DefaultSecret},
				{Role: "Recruiter", Email: "recruiter@example.com", Password: directory.DefaultSecret},
				{Role: "Admin", Email: "admin@example.com", Password: directory.DefaultSecret},
			},
			Logger:     logger,
			TemplateFS: os.DirFS(TemplatePathFromTest),
			StaticFS:   os.DirFS(filepath.Join("..", "..", "frontend", "static")),
			Now:        func() time.Time { return testNow },
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	workspaces := service.NewWorkspaces(cfg.Workspaces)
	services := cfg.Router
	services.Workspaces = workspaces

	h, err := NewRouter(services)
	require.NoError(t, err)
	return &testApp{Handler: h, KV: kv, Directory: dir, Workspaces: workspaces}
}

// testBrowser keeps cookies between requests the way a browser would.
type testBrowser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (a *testApp) browser(t *testing.T) *testBrowser {
	t.Helper()
	return &testBrowser{t: t, handler: a.Handler, cookies: make(map[string]*http.Cookie)}
}

// Do sends req with the stored cookies and records any cookies set in the response.
func (b *testBrowser) Do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

// Get issues a plain GET.
func (b *testBrowser) Get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

// GetHTMX issues a GET the way htmx does for a targeted swap.
func (b *testBrowser) GetHTMX(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Hx-Request", "true")
	req.Header.Set("Hx-Target", "content")
	return b.Do(req)
}

// Post submits a form with the current CSRF token. A first GET is made when no token exists yet.
func (b *testBrowser) Post(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	b.t.Helper()
	token := b.CSRFToken()
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, token)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("Hx-Request", "true")
		req.Header.Set(DefaultCSRFHeaderName, token)
	}
	return b.Do(req)
}

// CSRFToken returns the stored token, fetching the landing page first if needed.
func (b *testBrowser) CSRFToken() string {
	b.t.Helper()
	if c, ok := b.cookies[DefaultCSRFCookieName]; ok {
		return c.Value
	}
	b.Get("/")
	c, ok := b.cookies[DefaultCSRFCookieName]
	require.True(b.t, ok, "csrf cookie was not issued")
	return c.Value
}

// ClientID returns the workspace cookie value, or "".
func (b *testBrowser) ClientID() string {
	if c, ok := b.cookies[DefaultClientCookieName]; ok {
		return c.Value
	}
	return ""
}

// LoginAs signs in with the shared demo password and fails the test on anything but a redirect.
func (b *testBrowser) LoginAs(email string) {
	b.t.Helper()
	rec := b.Post("/login", url.Values{
		FormFieldEmail:    {email},
		FormFieldPassword: {directory.DefaultSecret},
	}, false)
	require.Equal(b.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(b.t, "/dashboard", rec.Header().Get("Location"))
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
