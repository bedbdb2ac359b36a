package routing

import "github.com/target/jobtracker-ui/internal/domain/auth"

// Layout selects the page chrome.
type Layout string

const (
	LayoutPublic Layout = "public"
	LayoutApp    Layout = "app"
)

// Well-known paths.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
)

// Outcome is what the shell should do for a path.
type Outcome struct {
	Kind     DecisionKind
	Layout   Layout
	View     View
	Title    string
	Match    Match
	Location string
}

// IsRedirect reports whether the outcome is a redirect.
func (o Outcome) IsRedirect() bool { return o.Kind == DecisionRedirect }

// Composer picks a layout for the current path and session.
type Composer struct {
	Registry *Registry
	Guard    Guard
}

// NewComposer wires a composer over reg. A nil reg uses DefaultRegistry.
func NewComposer(reg *Registry) *Composer {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Composer{Registry: reg}
}

// Resolve maps path to a render or redirect outcome.
func (c *Composer) Resolve(path string, s auth.Session) Outcome {
	path = CleanPath(path)
	if !s.IsAuthenticated {
		return c.resolvePublic(path)
	}
	return c.resolveApp(path, s)
}

func (c *Composer) resolvePublic(path string) Outcome {
	switch path {
	case PathRoot:
		return Outcome{Kind: DecisionRender, Layout: LayoutPublic, View: ViewLanding, Title: "JobTracker"}
	case PathLogin:
		return Outcome{Kind: DecisionRender, Layout: LayoutPublic, View: ViewLogin, Title: "Sign in"}
	case PathRegister:
		return Outcome{Kind: DecisionRender, Layout: LayoutPublic, View: ViewRegister, Title: "Create account"}
	default:
		return redirect(PathRoot)
	}
}

func (c *Composer) resolveApp(path string, s auth.Session) Outcome {
	switch path {
	case PathRoot, PathLogin, PathRegister:
		return redirect(PathDashboard)
	}

	m, ok := c.Registry.Lookup(path)
	if !ok {
		return redirect(PathDashboard)
	}

	d := c.Guard.Decide(s.IsAuthenticated, s.Role(), m.Route.RequiredRole)
	switch d.Kind {
	case DecisionRedirect:
		return redirect(d.Location)
	case DecisionForbidden:
		return Outcome{Kind: DecisionForbidden, Layout: LayoutApp, View: ViewAccessDenied, Title: "Access denied", Match: m}
	default:
		return Outcome{Kind: DecisionRender, Layout: LayoutApp, View: m.Route.View, Title: m.Route.Title, Match: m}
	}
}

func redirect(loc string) Outcome {
	return Outcome{Kind: DecisionRedirect, Location: loc}
}
