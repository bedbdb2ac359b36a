package auth

// Package auth contains domain-level types for users and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below; anything else is a contract violation.
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleRecruiter, RoleAdmin}
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	default:
		return false
	}
}

// Label returns the human readable role name.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleRecruiter:
		return "Recruiter"
	case RoleAdmin:
		return "Admin"
	default:
		return ""
	}
}

// ParseRole converts raw input to a Role. Input is trimmed and lower-cased.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return r, nil
}

// UnmarshalText rejects roles outside the closed set so persisted snapshots cannot smuggle one in.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is a member of the known-user directory.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Avatar     string    `json:"avatar"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
	IsVerified bool      `json:"isVerified"`
	Location   string    `json:"location,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate directory or session state through shared slices.
func (u User) Clone() User {
	c := u
	if u.Skills != nil {
		c.Skills = append([]string(nil), u.Skills...)
	}
	return c
}

// Initials returns up to two upper-case initials for avatar fallbacks.
func (u User) Initials() string {
	var out []rune
	for _, part := range strings.Fields(u.Name) {
		for _, r := range part {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

// Session is the persisted record of which user, if any, is signed in for a client.
// IsAuthenticated is derived: it is true iff User is set.
type Session struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}

// Anonymous returns the signed-out session.
func Anonymous() Session { return Session{} }

// SignedIn returns an authenticated session for u.
func SignedIn(u User) Session {
	c := u.Clone()
	return Session{User: &c, IsAuthenticated: true}
}

// Validate checks the session invariants.
func (s Session) Validate() error {
	if s.IsAuthenticated != (s.User != nil) {
		return errors.New("session: authenticated flag disagrees with current user")
	}
	if s.User != nil && !s.User.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, s.User.Role)
	}
	return nil
}

// Role returns the signed-in user's role, or "" when anonymous.
func (s Session) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
