package routing

import "github.com/target/jobtracker-ui/internal/domain/auth"

// DecisionKind enumerates guard outcomes.
type DecisionKind int

const (
	DecisionRender DecisionKind = iota
	DecisionRedirect
	DecisionForbidden
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionRender:
		return "render"
	case DecisionRedirect:
		return "redirect"
	case DecisionForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is the result of a guard check.
type Decision struct {
	Kind     DecisionKind
	Location string // set for DecisionRedirect
}

// DefaultLoginPath is where unauthenticated users are sent.
const DefaultLoginPath = "/login"

// Guard protects a view behind authentication and an optional role.
// The zero value redirects to DefaultLoginPath.
type Guard struct {
	LoginPath string
}

// Decide is pure: same inputs, same decision, no side effects.
func (g Guard) Decide(authenticated bool, role, required auth.Role) Decision {
	if !authenticated {
		loc := g.LoginPath
		if loc == "" {
			loc = DefaultLoginPath
		}
		return Decision{Kind: DecisionRedirect, Location: loc}
	}
	if required != "" && role != required {
		return Decision{Kind: DecisionForbidden}
	}
	return Decision{Kind: DecisionRender}
}
