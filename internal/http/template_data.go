package httpx

import (
	"net/http"
	"strings"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
	"github.com/target/jobtracker-ui/internal/domain/prefs"
	"github.com/target/jobtracker-ui/internal/domain/routing"
	"github.com/target/jobtracker-ui/internal/http/ui/viewmodel"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title     string
	PageTitle string
	View      routing.View
	Shell     routing.Layout
	Nav       []viewmodel.NavSection
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// WithForm echoes submitted values back into the form.
func (b *TemplateDataBuilder) WithForm(values map[string]string) *TemplateDataBuilder {
	b.data["Form"] = values
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// buildLayout constructs shared layout metadata from the request's workspace.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPath: routing.CleanPath(r.URL.Path),
		Shell:       string(meta.Shell),
		View:        string(meta.View),
		CSRFToken:   GetCSRFToken(r),
		Nav:         meta.Nav,
		Theme:       string(prefs.ThemeLight),
		SidebarOpen: true,
	}
	if layout.PageTitle == "" {
		layout.PageTitle = layout.Title
	}

	ws, ok := GetWorkspaceFromContext(r.Context())
	if !ok {
		return layout
	}

	p := ws.Prefs.Snapshot()
	layout.Theme = string(p.Theme)
	layout.SidebarOpen = p.SidebarOpen
	layout.DocumentClass = ws.Surface.DocumentClass()

	if s := ws.Session.Snapshot(); s.IsAuthenticated {
		layout.IsAuthenticated = true
		layout.User = userView(*s.User)
	}
	return layout
}

func userView(u domainauth.User) *viewmodel.User {
	return &viewmodel.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		RoleLabel: u.Role.Label(),
		Avatar:    u.Avatar,
		Initials:  u.Initials(),
	}
}

// basePageData flattens the layout into the map every template receives.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPath":     layout.CurrentPath,
		"Shell":           layout.Shell,
		"View":            layout.View,
		"IsAuthenticated": layout.IsAuthenticated,
		"Nav":             layout.Nav,
		"Theme":           layout.Theme,
		"DocumentClass":   layout.DocumentClass,
		"SidebarOpen":     layout.SidebarOpen,
		"CSRFToken":       layout.CSRFToken,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// buildNav groups the role's navigable routes by section and marks the active link.
func buildNav(reg *routing.Registry, role domainauth.Role, currentPath string) []viewmodel.NavSection {
	var sections []viewmodel.NavSection
	for _, rt := range reg.NavFor(role) {
		if len(sections) == 0 || sections[len(sections)-1].Title != rt.Section {
			sections = append(sections, viewmodel.NavSection{Title: rt.Section})
		}
		last := &sections[len(sections)-1]
		last.Items = append(last.Items, viewmodel.NavItem{
			Label:  rt.NavLabel,
			Href:   rt.Pattern,
			Active: rt.Pattern == currentPath || strings.HasPrefix(currentPath, rt.Pattern+"/"),
		})
	}
	return sections
}
