package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
)

// PrefsHandlers toggles per-browser UI preferences.
type PrefsHandlers struct {
	UI     *UIHandlers
	Logger *slog.Logger
}

type themeChanged struct {
	Theme         string `json:"theme"`
	DocumentClass string `json:"documentClass"`
}

// ToggleTheme handles POST /ui/theme. htmx callers get the re-rendered toggle
// and a theme-changed event carrying the new document class.
func (h *PrefsHandlers) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	ws, ok := GetWorkspaceFromContext(r.Context())
	if !ok {
		h.UI.renderServerError(w, r, errors.New("workspace missing from request"))
		return
	}

	theme, err := ws.Prefs.ToggleTheme(r.Context())
	if err != nil {
		h.UI.renderServerError(w, r, err)
		return
	}

	if !IsHTMX(r) {
		http.Redirect(w, r, backPath(r), http.StatusSeeOther)
		return
	}
	HTMX(w).Trigger("theme-changed", themeChanged{
		Theme:         string(theme),
		DocumentClass: ws.Surface.DocumentClass(),
	})
	data := map[string]any{"Theme": string(theme), "CSRFToken": GetCSRFToken(r)}
	if err := h.UI.T.RenderFragment(w, Fragment{Name: "theme-toggle", Data: data}); err != nil {
		h.UI.logAndRenderTemplateError(w, r, err, "theme toggle render")
	}
}

// SetSidebar handles POST /ui/sidebar with form field open=true|false.
func (h *PrefsHandlers) SetSidebar(w http.ResponseWriter, r *http.Request) {
	ws, ok := GetWorkspaceFromContext(r.Context())
	if !ok {
		h.UI.renderServerError(w, r, errors.New("workspace missing from request"))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	open, err := strconv.ParseBool(r.PostFormValue(FormFieldOpen))
	if err != nil {
		http.Error(w, "open must be true or false", http.StatusBadRequest)
		return
	}

	if err := ws.Prefs.SetSidebarOpen(r.Context(), open); err != nil {
		h.UI.renderServerError(w, r, err)
		return
	}

	if !IsHTMX(r) {
		http.Redirect(w, r, backPath(r), http.StatusSeeOther)
		return
	}
	HTMX(w).Trigger("sidebar-changed", map[string]bool{"open": open})
	w.WriteHeader(http.StatusNoContent)
}
