package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	httpassets "github.com/target/jobtracker-ui/internal/http/assets"
	assetfuncs "github.com/target/jobtracker-ui/internal/http/templates/assets"
	corefuncs "github.com/target/jobtracker-ui/internal/http/templates/core"
)

// AssetResolver aliases the asset resolver so callers only import httpx.
type AssetResolver = httpassets.AssetResolver

// NewAssetResolverFromDisk creates an asset resolver that reads the manifest from the local filesystem.
func NewAssetResolverFromDisk(manifestPath string) (*AssetResolver, error) {
	return httpassets.NewAssetResolverFromDisk(manifestPath)
}

// NewAssetResolverFromFS creates an asset resolver that reads the manifest from an fs.FS implementation.
func NewAssetResolverFromFS(fsys fs.FS, manifestPath string) (*AssetResolver, error) {
	return httpassets.NewAssetResolverFromFS(fsys, manifestPath)
}

// Template names the renderer executes.
const (
	tmplLayout  = "layout"
	tmplContent = "content"
	tmplError   = "error-layout"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS          // Filesystem containing templates (required)
	Resolver   *AssetResolver // Asset resolver for hashed filenames (optional)
	DevMode    bool           // Re-check the asset manifest on each lookup
	Logger     *slog.Logger   // Logger for template errors (optional)
	Now        func() time.Time
}

// NewTemplateRenderer parses every template under TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{logger: logger}

	var t *template.Template
	funcs := template.FuncMap{}
	mergeTemplateFuncs(funcs,
		corefuncs.Funcs(corefuncs.Deps{
			Template:           &t,
			ContentTemplateFor: ContentTemplateFor,
			Now:                cfg.Now,
		}),
		assetfuncs.Funcs(assetfuncs.Options{
			Resolver: cfg.Resolver,
			DevMode:  cfg.DevMode,
		}),
	)

	var err error
	t, err = template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the whole document (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, Fragment{Name: tmplLayout, Status: status, Data: data})
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, Fragment{Name: tmplContent, Status: status, Data: data})
}

// RenderError renders the standalone error page.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, Fragment{Name: tmplError, Status: status, Data: data})
}

// Fragment names a single template to render, typically a form swapped by htmx.
type Fragment struct {
	Name   string
	Status int
	Data   any
}

// RenderFragment renders one named template.
func (r *TemplateRenderer) RenderFragment(w http.ResponseWriter, f Fragment) error {
	return r.renderTemplate(w, f)
}

// renderTemplate buffers output so a failed execution never leaves a half-written page.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, f Fragment) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, f.Name, f.Data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", f.Name),
			slog.Any("error", err),
		)
		return err
	}

	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", f.Name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// HasTemplate reports whether name is defined in the parsed set.
func (r *TemplateRenderer) HasTemplate(name string) bool {
	return r.t.Lookup(name) != nil
}

func mergeTemplateFuncs(dst template.FuncMap, sources ...template.FuncMap) {
	for _, src := range sources {
		for key, val := range src {
			dst[key] = val
		}
	}
}
