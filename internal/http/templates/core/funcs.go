// Package core provides the template helpers every page uses.
package core

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/target/jobtracker-ui/internal/http/uiutil"
)

// Deps holds the late-bound template set and the view-to-template mapping.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns the shared template.FuncMap.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": friendlyTime,
		"relativeTime": func(t time.Time) string { return uiutil.FriendlyRelativeTime(t, now()) },
		"memberSince":  uiutil.MemberSince,
		"truncate":     uiutil.TruncateWithEllipsis,
		"join":         strings.Join,
		"fieldError":   FieldError,
		"hasPrefix":    strings.HasPrefix,
	}

	funcs["renderSection"] = func(view string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(view), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

func friendlyTime(ts any) string {
	switch v := ts.(type) {
	case time.Time:
		return uiutil.FormatFriendlyDateTime(v)
	case *time.Time:
		if v != nil {
			return uiutil.FormatFriendlyDateTime(*v)
		}
	}
	return ""
}

// FieldError looks up a field message in an errors map of any supported shape.
func FieldError(errs any, field string) string {
	switch m := errs.(type) {
	case map[string]string:
		return m[field]
	case map[string]any:
		if s, ok := m[field].(string); ok {
			return s
		}
	}
	return ""
}
