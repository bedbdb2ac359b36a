package config

import "time"

const (
	defaultLoginDelay   = time.Second
	maxLoginDelay       = 30 * time.Second
	defaultClientMaxAge = 365 * 24 * time.Hour
)

// AuthConfig controls the demo sign-in flow and the client cookie.
type AuthConfig struct {
	// LoginDelay simulates backend latency on login and register. "0s" disables it.
	LoginDelay time.Duration `env:"LOGIN_DELAY" envDefault:"1s"`

	// SharedSecret is the password every directory user signs in with.
	SharedSecret string `env:"SHARED_SECRET" envDefault:"password123"`

	// BcryptCost is the cost used to hash SharedSecret at startup.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// ClientCookieMaxAge is how long the client_id cookie lives.
	ClientCookieMaxAge time.Duration `env:"CLIENT_COOKIE_MAX_AGE" envDefault:"8760h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.LoginDelay < 0 {
		a.LoginDelay = defaultLoginDelay
	}
	if a.LoginDelay > maxLoginDelay {
		a.LoginDelay = maxLoginDelay
	}
	if a.SharedSecret == "" {
		a.SharedSecret = "password123"
	}
	// Hashing runs once per boot; keep it within 4..14.
	if a.BcryptCost < 4 {
		a.BcryptCost = 4
	}
	if a.BcryptCost > 14 {
		a.BcryptCost = 14
	}
	if a.ClientCookieMaxAge <= 0 {
		a.ClientCookieMaxAge = defaultClientMaxAge
	}
}
