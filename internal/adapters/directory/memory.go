// Package directory provides the known-user directory used for demo sign-in.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
)

// DefaultSecret is the password every directory user signs in with.
const DefaultSecret = "password123"

// Options configures a Memory directory.
type Options struct {
	// Secret is the shared password. Defaults to DefaultSecret.
	Secret string
	// Cost is the bcrypt cost used to hash Secret. Defaults to bcrypt.DefaultCost.
	Cost int
	// Seed replaces the built-in demo users when non-nil.
	Seed []domainauth.User
	// Now stamps LastActive on seeded users. Defaults to time.Now.
	Now func() time.Time
}

// Memory is an in-process user directory guarded by a mutex.
// Users added at runtime live until the process exits.
type Memory struct {
	mu         sync.RWMutex
	users      []domainauth.User
	secretHash []byte
}

// NewMemory hashes the shared secret and seeds the directory.
func NewMemory(opts Options) (*Memory, error) {
	secret := opts.Secret
	if secret == "" {
		secret = DefaultSecret
	}
	cost := opts.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, fmt.Errorf("hash directory secret: %w", err)
	}

	seed := opts.Seed
	if seed == nil {
		seed = DemoUsers(now())
	}

	m := &Memory{secretHash: hash, users: make([]domainauth.User, 0, len(seed))}
	for _, u := range seed {
		if err := m.add(u); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	return m, nil
}

// DemoUsers returns the three built-in accounts, one per role.
func DemoUsers(now time.Time) []domainauth.User {
	return []domainauth.User{
		{
			ID:         "1",
			Name:       "John Doe",
			Email:      "student@example.com",
			Role:       domainauth.RoleStudent,
			Avatar:     "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150",
			CreatedAt:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			LastActive: now,
			IsVerified: true,
			Location:   "San Francisco, CA",
			Skills:     []string{"React", "TypeScript", "Node.js"},
		},
		{
			ID:         "2",
			Name:       "Sarah Chen",
			Email:      "recruiter@example.com",
			Role:       domainauth.RoleRecruiter,
			Avatar:     "https://images.unsplash.com/photo-1494790108755-2616b612b47c?w=150",
			CreatedAt:  time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
			LastActive: now,
			IsVerified: true,
			Location:   "New York, NY",
		},
		{
			ID:         "3",
			Name:       "Admin User",
			Email:      "admin@example.com",
			Role:       domainauth.RoleAdmin,
			Avatar:     "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150",
			CreatedAt:  time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			LastActive: now,
			IsVerified: true,
			Location:   "Remote",
		},
	}
}

// Authenticate checks password against the shared secret and returns a copy of the user.
func (m *Memory) Authenticate(ctx context.Context, email, password string) (domainauth.User, error) {
	if err := ctx.Err(); err != nil {
		return domainauth.User{}, err
	}

	m.mu.RLock()
	u, ok := m.find(email)
	m.mu.RUnlock()

	// Compare even for unknown emails so timing does not reveal membership.
	cmpErr := bcrypt.CompareHashAndPassword(m.secretHash, []byte(password))
	if !ok {
		return domainauth.User{}, domainauth.ErrInvalidCredentials
	}
	if cmpErr != nil {
		if errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
			return domainauth.User{}, domainauth.ErrInvalidCredentials
		}
		return domainauth.User{}, fmt.Errorf("compare secret: %w", cmpErr)
	}
	return u.Clone(), nil
}

// Add appends u. The email must be unique ignoring case.
func (m *Memory) Add(ctx context.Context, u domainauth.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add(u)
}

// List returns a snapshot of every user in insertion order.
func (m *Memory) List(ctx context.Context) ([]domainauth.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domainauth.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (m *Memory) add(u domainauth.User) error {
	if !u.Role.Valid() {
		return fmt.Errorf("%w: %q", domainauth.ErrInvalidRole, u.Role)
	}
	if _, exists := m.find(u.Email); exists {
		return domainauth.ErrEmailTaken
	}
	m.users = append(m.users, u.Clone())
	return nil
}

// find expects the caller to hold mu.
func (m *Memory) find(email string) (domainauth.User, bool) {
	email = strings.TrimSpace(email)
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return domainauth.User{}, false
}
