package testutil

import (
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
)

// UserBuilder provides a fluent interface for building users in tests.
type UserBuilder struct {
	u domainauth.User
}

// NewUser creates a UserBuilder with a verified student and fixed timestamps.
func NewUser() *UserBuilder {
	return &UserBuilder{
		u: domainauth.User{
			ID:         uuid.NewString(),
			Name:       "Test Student",
			Email:      "test.student@example.com",
			Role:       domainauth.RoleStudent,
			CreatedAt:  TestTime(),
			LastActive: TestTime(),
			IsVerified: true,
		},
	}
}

// WithID sets the user id.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.u.ID = id
	return b
}

// WithName sets the display name.
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.u.Name = name
	return b
}

// WithEmail sets the email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.u.Email = email
	return b
}

// WithRole sets the role.
func (b *UserBuilder) WithRole(role domainauth.Role) *UserBuilder {
	b.u.Role = role
	return b
}

// WithSkills sets the skills list.
func (b *UserBuilder) WithSkills(skills ...string) *UserBuilder {
	b.u.Skills = skills
	return b
}

// LastActiveAt sets LastActive.
func (b *UserBuilder) LastActiveAt(t time.Time) *UserBuilder {
	b.u.LastActive = t
	return b
}

// Build returns the user.
func (b *UserBuilder) Build() domainauth.User {
	return b.u.Clone()
}

// Session returns a signed-in session for the built user.
func (b *UserBuilder) Session() domainauth.Session {
	return domainauth.SignedIn(b.u)
}
