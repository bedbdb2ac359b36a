package httpx

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/target/jobtracker-ui/internal/domain/auth"
	"github.com/target/jobtracker-ui/internal/domain/routing"
)

// UserLister lists known users for the admin users view.
type UserLister interface {
	List(ctx context.Context) ([]auth.User, error)
}

// DemoAccount is a sign-in shortcut shown under the login form.
type DemoAccount struct {
	Role     string
	Email    string
	Password string
}

// UIHandlers serves browser-facing pages.
type UIHandlers struct {
	T            *TemplateRenderer
	Composer     *routing.Composer
	Users        UserLister
	DemoAccounts []DemoAccount
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Shell is the catch-all GET handler: it asks the composer what to do with the path
// and either redirects or renders the chosen layout and view.
func (h *UIHandlers) Shell(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	out := h.Composer.Resolve(r.URL.Path, session)
	if out.IsRedirect() {
		redirect(w, r, out.Location)
		return
	}

	status := http.StatusOK
	if out.Kind == routing.DecisionForbidden {
		status = http.StatusForbidden
	}

	b := h.pageData(r, out, session)
	if err := h.fetchViewData(r, out, b); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.logger().ErrorContext(r.Context(), "loading view data failed",
			"view", out.View, "error", err)
		b.WithError(MsgTryAgain)
	}
	h.renderPage(w, r, status, b.Build())
}

// pageData builds the template data shared by the shell and the form handlers.
func (h *UIHandlers) pageData(r *http.Request, out routing.Outcome, s auth.Session) *TemplateDataBuilder {
	meta := PageMeta{Title: out.Title, View: out.View, Shell: out.Layout}
	if out.Layout == routing.LayoutApp {
		meta.Nav = buildNav(h.Composer.Registry, s.Role(), routing.CleanPath(r.URL.Path))
	}

	b := NewTemplateData(r, meta).With("Params", out.Match.Params)
	switch out.View {
	case routing.ViewLogin:
		b.With("DemoAccounts", h.DemoAccounts)
	case routing.ViewAccessDenied:
		b.With("RequiredRole", out.Match.Route.RequiredRole.Label())
	}
	if ContentTemplateFor(string(out.View)) == PlaceholderTemplate {
		b.With("Placeholder", PlaceholderMessage(out.View))
	}
	if s.User != nil {
		b.With("Profile", s.User.Clone())
	}
	return b
}

// fetchViewData loads what a view needs beyond the session.
func (h *UIHandlers) fetchViewData(r *http.Request, out routing.Outcome, b *TemplateDataBuilder) error {
	if out.View != routing.ViewAdminUsers || h.Users == nil {
		return nil
	}
	users, err := h.Users.List(r.Context())
	if err != nil {
		return err
	}
	b.With("Users", users)
	return nil
}

// formPage describes a public form re-render after a failed submission.
type formPage struct {
	Path   string
	Status int
	Fill   func(*TemplateDataBuilder)
}

// renderForm re-renders a public form page. htmx swaps only the form fragment and
// needs a 2xx to do so; plain posts get the real status.
func (h *UIHandlers) renderForm(w http.ResponseWriter, r *http.Request, fp formPage) {
	anon := auth.Anonymous()
	out := h.Composer.Resolve(fp.Path, anon)
	b := h.pageData(r, out, anon)
	if fp.Fill != nil {
		fp.Fill(b)
	}

	if IsHTMX(r) {
		name := string(out.View) + "-form"
		if err := h.T.RenderFragment(w, Fragment{Name: name, Status: http.StatusOK, Data: b.Build()}); err != nil {
			h.logAndRenderTemplateError(w, r, err, "form fragment render")
		}
		return
	}
	if err := h.T.RenderFull(w, fp.Status, b.Build()); err != nil {
		h.logAndRenderTemplateError(w, r, err, "form page render")
	}
}

// renderPage renders a full document, or just the content area for targeted htmx requests.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, status, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	HTMX(w).
		Trigger("nav:activate", map[string]string{"path": r.URL.Path}).
		PushURL(r.URL.RequestURI())
	if err := h.T.RenderPartial(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
		`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
	if _, writeErr := w.Write([]byte(body)); writeErr != nil {
		h.logger().Error("failed to write template error response", "error", writeErr)
	}
}

// renderServerError shows the standalone error page, or a JSON body for API clients.
func (h *UIHandlers) renderServerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	h.logger().ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	if !IsBrowserRequest(r) {
		WriteAppError(w, err)
		return
	}
	data := map[string]any{
		"Title":         "Something went wrong - JobTracker",
		"Code":          "500",
		"Message":       MsgTryAgain,
		"DocumentClass": documentClass(r),
	}
	if renderErr := h.T.RenderError(w, http.StatusInternalServerError, data); renderErr != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func documentClass(r *http.Request) string {
	if ws, ok := GetWorkspaceFromContext(r.Context()); ok {
		return ws.Surface.DocumentClass()
	}
	return ""
}

// safeRedirectPath keeps redirects inside the app: only rooted relative paths pass.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return candidate
}

// backPath returns where a preference change should send a non-htmx browser.
func backPath(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	return safeRedirectPath(u.RequestURI())
}
