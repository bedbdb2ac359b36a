// Package viewmodel holds the template-facing shapes shared by every page.
package viewmodel

// User is the signed-in user as templates see it.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	RoleLabel string
	Avatar    string
	Initials  string
}

// NavItem is one sidebar link.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// NavSection groups sidebar links under a heading.
type NavSection struct {
	Title string
	Items []NavItem
}

// Layout captures shared chrome metadata (titles, navigation, theme and auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPath     string
	Shell           string
	View            string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	Nav             []NavSection
	Theme           string
	DocumentClass   string
	SidebarOpen     bool
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
