package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
)

func newTestDirectory(t *testing.T) *Memory {
	t.Helper()
	d, err := NewMemory(Options{Cost: bcrypt.MinCost})
	require.NoError(t, err)
	return d
}

func TestMemory_Authenticate(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantRole domainauth.Role
		wantErr  error
	}{
		{name: "student", email: "student@example.com", password: "password123", wantRole: domainauth.RoleStudent},
		{name: "recruiter", email: "recruiter@example.com", password: "password123", wantRole: domainauth.RoleRecruiter},
		{name: "admin", email: "admin@example.com", password: "password123", wantRole: domainauth.RoleAdmin},
		{name: "case insensitive", email: "Student@Example.com", password: "password123", wantRole: domainauth.RoleStudent},
		{name: "wrong password", email: "student@example.com", password: "wrong", wantErr: domainauth.ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@example.com", password: "password123", wantErr: domainauth.ErrInvalidCredentials},
		{name: "empty", wantErr: domainauth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := d.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, u.Role)
		})
	}
}

func TestMemory_AddEnforcesUniqueEmail(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	err := d.Add(ctx, domainauth.User{ID: "x", Email: "STUDENT@example.com", Role: domainauth.RoleStudent})
	require.ErrorIs(t, err, domainauth.ErrEmailTaken)

	err = d.Add(ctx, domainauth.User{ID: "x", Email: "new@example.com", Role: "guest"})
	require.ErrorIs(t, err, domainauth.ErrInvalidRole)

	require.NoError(t, d.Add(ctx, domainauth.User{ID: "4", Email: "new@example.com", Role: domainauth.RoleStudent}))

	u, err := d.Authenticate(ctx, "new@example.com", DefaultSecret)
	require.NoError(t, err)
	assert.Equal(t, "4", u.ID)

	users, err := d.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	u, err := d.Authenticate(ctx, "student@example.com", DefaultSecret)
	require.NoError(t, err)
	u.Skills[0] = "COBOL"

	again, err := d.Authenticate(ctx, "student@example.com", DefaultSecret)
	require.NoError(t, err)
	assert.Equal(t, "React", again.Skills[0])
}

func TestMemory_CustomSecretAndSeed(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d, err := NewMemory(Options{
		Secret: "hunter2",
		Cost:   bcrypt.MinCost,
		Seed:   []domainauth.User{{ID: "a", Email: "a@b.c", Role: domainauth.RoleAdmin, LastActive: now}},
	})
	require.NoError(t, err)

	_, err = d.Authenticate(context.Background(), "a@b.c", DefaultSecret)
	assert.ErrorIs(t, err, domainauth.ErrInvalidCredentials)

	u, err := d.Authenticate(context.Background(), "a@b.c", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, now, u.LastActive)
}

func TestMemory_CancelledContext(t *testing.T) {
	d := newTestDirectory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Authenticate(ctx, "student@example.com", DefaultSecret)
	assert.ErrorIs(t, err, context.Canceled)
}
