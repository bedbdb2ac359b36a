// Package routing maps request paths to views and decides access.
// Everything here is pure; callers supply session state explicitly.
package routing

import (
	"strings"

	"github.com/target/jobtracker-ui/internal/domain/auth"
)

// View identifies the content template rendered for a route.
type View string

const (
	ViewLanding        View = "landing"
	ViewLogin          View = "login"
	ViewRegister       View = "register"
	ViewDashboard      View = "dashboard"
	ViewProfile        View = "profile"
	ViewResume         View = "resume"
	ViewJobs           View = "jobs"
	ViewJobDetail      View = "job-detail"
	ViewApplications   View = "applications"
	ViewNotifications  View = "notifications"
	ViewSettings       View = "settings"
	ViewJobCreate      View = "job-create"
	ViewJobManage      View = "job-manage"
	ViewCandidates     View = "candidates"
	ViewAnalytics      View = "analytics"
	ViewAdminDashboard View = "admin-dashboard"
	ViewAdminUsers     View = "admin-users"
	ViewAdminJobs      View = "admin-jobs"
	ViewAdminAnalytics View = "admin-analytics"
	ViewAdminSecurity  View = "admin-security"
	ViewAdminSettings  View = "admin-settings"
	ViewAccessDenied   View = "access-denied"
)

// Route describes one authenticated view.
// An empty RequiredRole means any signed-in user may see it.
// NavRole only decides whose sidebar lists the route; it never restricts access.
type Route struct {
	Pattern      string
	RequiredRole auth.Role
	NavRole      auth.Role
	View         View
	Title        string
	NavLabel     string
	Section      string
}

// Match is a resolved route plus captured path parameters.
type Match struct {
	Route  Route
	Params map[string]string
}

// Param returns a captured path parameter or "".
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Registry is an immutable route table.
type Registry struct {
	routes []compiledRoute
}

type compiledRoute struct {
	Route
	segments []string
}

// NewRegistry compiles routes. The slice is copied.
func NewRegistry(routes []Route) *Registry {
	r := &Registry{routes: make([]compiledRoute, 0, len(routes))}
	for _, rt := range routes {
		r.routes = append(r.routes, compiledRoute{Route: rt, segments: splitPath(rt.Pattern)})
	}
	return r
}

// DefaultRegistry returns the application route table.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultRoutes())
}

// DefaultRoutes lists every authenticated view. Only the student views are
// role-guarded; recruiter and admin pages are open to any signed-in user.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/dashboard", RequiredRole: auth.RoleStudent, NavRole: auth.RoleStudent, View: ViewDashboard, Title: "Dashboard", NavLabel: "Dashboard", Section: "Student"},
		{Pattern: "/profile", RequiredRole: auth.RoleStudent, NavRole: auth.RoleStudent, View: ViewProfile, Title: "Profile", NavLabel: "Profile", Section: "Student"},
		{Pattern: "/resume", RequiredRole: auth.RoleStudent, NavRole: auth.RoleStudent, View: ViewResume, Title: "Resume", NavLabel: "Resume", Section: "Student"},
		{Pattern: "/jobs", RequiredRole: auth.RoleStudent, NavRole: auth.RoleStudent, View: ViewJobs, Title: "Jobs", NavLabel: "Jobs", Section: "Student"},
		{Pattern: "/jobs/{id}", RequiredRole: auth.RoleStudent, View: ViewJobDetail, Title: "Job Details", Section: "Student"},
		{Pattern: "/applications", RequiredRole: auth.RoleStudent, NavRole: auth.RoleStudent, View: ViewApplications, Title: "Applications", NavLabel: "Applications", Section: "Student"},
		{Pattern: "/notifications", RequiredRole: auth.RoleStudent, NavRole: auth.RoleStudent, View: ViewNotifications, Title: "Notifications", NavLabel: "Notifications", Section: "Student"},
		{Pattern: "/settings", RequiredRole: auth.RoleStudent, NavRole: auth.RoleStudent, View: ViewSettings, Title: "Settings", NavLabel: "Settings", Section: "Student"},

		{Pattern: "/jobs/new", NavRole: auth.RoleRecruiter, View: ViewJobCreate, Title: "Post a Job", NavLabel: "Post a Job", Section: "Recruiter"},
		{Pattern: "/jobs/manage", NavRole: auth.RoleRecruiter, View: ViewJobManage, Title: "Manage Jobs", NavLabel: "Manage Jobs", Section: "Recruiter"},
		{Pattern: "/candidates", NavRole: auth.RoleRecruiter, View: ViewCandidates, Title: "Candidates", NavLabel: "Candidates", Section: "Recruiter"},
		{Pattern: "/analytics", NavRole: auth.RoleRecruiter, View: ViewAnalytics, Title: "Analytics", NavLabel: "Analytics", Section: "Recruiter"},

		{Pattern: "/admin/dashboard", NavRole: auth.RoleAdmin, View: ViewAdminDashboard, Title: "Admin Dashboard", NavLabel: "Overview", Section: "Admin"},
		{Pattern: "/admin/users", NavRole: auth.RoleAdmin, View: ViewAdminUsers, Title: "Users", NavLabel: "Users", Section: "Admin"},
		{Pattern: "/admin/jobs", NavRole: auth.RoleAdmin, View: ViewAdminJobs, Title: "Job Moderation", NavLabel: "Jobs", Section: "Admin"},
		{Pattern: "/admin/analytics", NavRole: auth.RoleAdmin, View: ViewAdminAnalytics, Title: "Platform Analytics", NavLabel: "Analytics", Section: "Admin"},
		{Pattern: "/admin/security", NavRole: auth.RoleAdmin, View: ViewAdminSecurity, Title: "Security", NavLabel: "Security", Section: "Admin"},
		{Pattern: "/admin/settings", NavRole: auth.RoleAdmin, View: ViewAdminSettings, Title: "System Settings", NavLabel: "Settings", Section: "Admin"},
	}
}

// Routes returns a copy of the table in declaration order.
func (r *Registry) Routes() []Route {
	out := make([]Route, 0, len(r.routes))
	for _, c := range r.routes {
		out = append(out, c.Route)
	}
	return out
}

// Lookup finds the most specific route for path.
// When several patterns match, the one with more literal segments wins.
func (r *Registry) Lookup(path string) (Match, bool) {
	segs := splitPath(path)
	best := -1
	bestScore := -1
	var bestParams map[string]string

	for i, c := range r.routes {
		params, score, ok := matchSegments(c.segments, segs)
		if !ok || score <= bestScore {
			continue
		}
		best, bestScore, bestParams = i, score, params
	}
	if best < 0 {
		return Match{}, false
	}
	return Match{Route: r.routes[best].Route, Params: bestParams}, true
}

// NavFor returns the routes listed in a role's sidebar, in table order.
// Routes without a NavLabel are reachable but not listed.
func (r *Registry) NavFor(role auth.Role) []Route {
	var out []Route
	for _, c := range r.routes {
		if c.NavLabel == "" {
			continue
		}
		if c.NavRole != "" && c.NavRole != role {
			continue
		}
		out = append(out, c.Route)
	}
	return out
}

func matchSegments(pattern, path []string) (map[string]string, int, bool) {
	if len(pattern) != len(path) {
		return nil, 0, false
	}
	var params map[string]string
	literals := 0
	for i, p := range pattern {
		if name, ok := paramName(p); ok {
			if path[i] == "" {
				return nil, 0, false
			}
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[name] = path[i]
			continue
		}
		if p != path[i] {
			return nil, 0, false
		}
		literals++
	}
	return params, literals, true
}

func paramName(seg string) (string, bool) {
	if len(seg) > 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

// splitPath drops the leading slash and a single trailing slash.
func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// CleanPath normalizes a request path for lookup: "/jobs/" becomes "/jobs".
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
