// Package prefs holds UI preference types: theme and navigation chrome visibility.
package prefs

import (
	"fmt"
	"strings"
	"sync"
)

// Theme is the rendering theme for the whole document.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme. Unknown values toggle to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// UnmarshalText accepts only light or dark.
func (t *Theme) UnmarshalText(text []byte) error {
	switch v := Theme(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case ThemeLight, ThemeDark:
		*t = v
		return nil
	default:
		return fmt.Errorf("invalid theme %q (valid options: light, dark)", string(text))
	}
}

// Preferences is the persisted UI preference snapshot.
type Preferences struct {
	Theme       Theme `json:"theme"`
	SidebarOpen bool  `json:"sidebarOpen"`
}

// Defaults returns the first-run preferences.
func Defaults() Preferences {
	return Preferences{Theme: ThemeLight, SidebarOpen: true}
}

// Surface is the presentation target the theme is applied to.
// The layout template reads DocumentClass when rendering the <html> element.
// Safe for concurrent use.
type Surface struct {
	mu    sync.RWMutex
	theme Theme
}

// NewSurface returns a surface in the default light state.
func NewSurface() *Surface {
	return &Surface{theme: ThemeLight}
}

// ApplyTheme restyles the surface.
func (s *Surface) ApplyTheme(t Theme) {
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
}

// Theme returns the theme currently applied.
func (s *Surface) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// DocumentClass returns the class attribute for the document root.
func (s *Surface) DocumentClass() string {
	if s.Theme() == ThemeDark {
		return "dark"
	}
	return ""
}
