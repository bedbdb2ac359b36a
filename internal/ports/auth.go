package ports

import (
	"context"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
	"github.com/target/jobtracker-ui/internal/domain/prefs"
)

// UserDirectory is the known-user list consulted on login and extended on register.
type UserDirectory interface {
	// Authenticate returns the user for email when password matches the directory secret.
	// Unknown email or wrong password both yield domainauth.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (domainauth.User, error)

	// Add appends a user. Emails are unique ignoring case (domainauth.ErrEmailTaken).
	Add(ctx context.Context, u domainauth.User) error

	List(ctx context.Context) ([]domainauth.User, error)
}

// ThemeSurface receives theme changes so the rendered document follows the preference.
type ThemeSurface interface {
	ApplyTheme(t prefs.Theme)
}
