package httpx

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobtracker-ui/internal/domain/routing"
)

func requireRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("templates not available")
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	require.NoError(t, err)
	return tr
}

func TestTemplateRenderer_EveryViewHasContent(t *testing.T) {
	tr := requireRenderer(t)

	views := []routing.View{routing.ViewLanding, routing.ViewLogin, routing.ViewRegister, routing.ViewAccessDenied}
	for _, rt := range routing.DefaultRoutes() {
		views = append(views, rt.View)
	}
	for _, v := range views {
		name := ContentTemplateFor(string(v))
		assert.True(t, tr.HasTemplate(name), "view %s needs template %s", v, name)
	}

	for _, name := range []string{"layout", "content", "error-layout", "login-form", "register-form", "theme-toggle"} {
		assert.True(t, tr.HasTemplate(name), name)
	}
}

func TestTemplateRenderer_Fragment(t *testing.T) {
	tr := requireRenderer(t)

	rec := httptest.NewRecorder()
	err := tr.RenderFragment(rec, Fragment{Name: "theme-toggle", Data: map[string]any{"Theme": "dark", "CSRFToken": "tok"}})
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Switch to light theme")
	assert.Contains(t, rec.Body.String(), `value="tok"`)
}

func TestTemplateRenderer_FailedExecutionWritesNothing(t *testing.T) {
	tr := requireRenderer(t)

	rec := httptest.NewRecorder()
	err := tr.RenderFragment(rec, Fragment{Name: "no-such-template", Status: 400})
	require.Error(t, err)
	assert.Zero(t, rec.Body.Len())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestTemplateRenderer_ErrorPage(t *testing.T) {
	tr := requireRenderer(t)

	rec := httptest.NewRecorder()
	require.NoError(t, tr.RenderError(rec, 503, map[string]any{
		"Title": "Unavailable", "Code": "503", "Message": "Back soon", "DocumentClass": "dark",
	}))
	body := rec.Body.String()
	assert.Equal(t, 503, rec.Code)
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.Contains(t, body, `class="dark"`)
	assert.Contains(t, body, "Back soon")
}

func TestNewTemplateRenderer_MissingDirectories(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fstest.MapFS{
		"layout.tmpl": {Data: []byte(`{{define "layout"}}x{{end}}`)},
	}})
	assert.Error(t, err)
}
