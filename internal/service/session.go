package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
	apperrors "github.com/target/jobtracker-ui/internal/errors"
	"github.com/target/jobtracker-ui/internal/ports"
)

const (
	// DefaultLoginDelay simulates the round trip to an auth backend.
	DefaultLoginDelay = time.Second

	// DefaultAvatar is assigned to registered users that do not supply one.
	DefaultAvatar = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150"

	authStorageSuffix = "auth-storage"
)

// AuthStorageKey returns the KV key holding a client's session snapshot.
func AuthStorageKey(clientID string) string {
	return clientID + ":" + authStorageSuffix
}

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Directory ports.UserDirectory
	KV        ports.KVStore
	// Key is the storage key for the snapshot, usually AuthStorageKey(clientID).
	Key string
	// LoginDelay is applied before login and register. Negative disables it; zero uses DefaultLoginDelay.
	LoginDelay time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
	NewID      func() (string, error)
}

// LoginResult is returned by successful login and register calls.
type LoginResult struct {
	User domainauth.User
}

// RegisterInput carries the fields accepted by Register.
type RegisterInput struct {
	Name       string   `json:"name" validate:"required,max=120"`
	Email      string   `json:"email" validate:"required,email"`
	Role       string   `json:"role" validate:"omitempty,oneof=student recruiter admin"`
	Avatar     string   `json:"avatar" validate:"omitempty,url"`
	Location   string   `json:"location" validate:"max=120"`
	Skills     []string `json:"skills" validate:"max=50,dive,required,max=60"`
	IsVerified *bool    `json:"isVerified"`
}

// SessionStore holds which user, if any, is signed in for one client.
// Every mutation is persisted before it becomes visible, then subscribers are notified.
type SessionStore struct {
	directory ports.UserDirectory
	kv        ports.KVStore
	key       string
	delay     time.Duration
	logger    *slog.Logger
	now       func() time.Time
	newID     func() (string, error)
	validate  *validator.Validate

	mu      sync.RWMutex
	state   domainauth.Session
	raw     []byte
	version uint64
	subs    observers[domainauth.Session]
}

// NewSessionStore constructs an anonymous SessionStore. Call Load to rehydrate persisted state.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	delay := opts.LoginDelay
	switch {
	case delay == 0:
		delay = DefaultLoginDelay
	case delay < 0:
		delay = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = newUserID
	}
	return &SessionStore{
		directory: opts.Directory,
		kv:        opts.KV,
		key:       opts.Key,
		delay:     delay,
		logger:    logger.With("component", "session_store"),
		now:       now,
		newID:     newID,
		validate:  newValidator(),
		state:     domainauth.Anonymous(),
	}
}

func newUserID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.state)
}

// Subscribe registers fn to receive every new session. The returned func unsubscribes.
func (s *SessionStore) Subscribe(fn func(domainauth.Session)) func() {
	return s.subs.add(fn)
}

// Login authenticates email/password against the directory after the configured delay.
// On failure the session is left unchanged.
func (s *SessionStore) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if err := s.wait(ctx); err != nil {
		return LoginResult{}, err
	}

	user, err := s.directory.Authenticate(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if errors.Is(err, domainauth.ErrInvalidCredentials) {
			s.logger.InfoContext(ctx, "login rejected", "email", email)
			return LoginResult{}, err
		}
		return LoginResult{}, fmt.Errorf("authenticate: %w", err)
	}

	if err := s.commit(ctx, domainauth.SignedIn(user)); err != nil {
		return LoginResult{}, err
	}
	s.logger.InfoContext(ctx, "user signed in", "user_id", user.ID, "role", user.Role)
	return LoginResult{User: user.Clone()}, nil
}

// Logout clears the session. It is idempotent; only a storage failure returns an error.
func (s *SessionStore) Logout(ctx context.Context) error {
	return s.commit(ctx, domainauth.Anonymous())
}

// Register validates in, appends a new user to the directory and signs it in.
func (s *SessionStore) Register(ctx context.Context, in RegisterInput) (LoginResult, error) {
	if err := s.wait(ctx); err != nil {
		return LoginResult{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := s.validate.Struct(in); err != nil {
		return LoginResult{}, apperrors.ValidationFields("invalid registration", fieldErrors(err))
	}

	user, err := s.buildUser(in)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.directory.Add(ctx, user); err != nil {
		if errors.Is(err, domainauth.ErrEmailTaken) {
			return LoginResult{}, err
		}
		return LoginResult{}, fmt.Errorf("add user: %w", err)
	}

	if err := s.commit(ctx, domainauth.SignedIn(user)); err != nil {
		return LoginResult{}, err
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return LoginResult{User: user.Clone()}, nil
}

func (s *SessionStore) buildUser(in RegisterInput) (domainauth.User, error) {
	id, err := s.newID()
	if err != nil {
		return domainauth.User{}, fmt.Errorf("generate user id: %w", err)
	}

	role := domainauth.RoleStudent
	if in.Role != "" {
		parsed, parseErr := domainauth.ParseRole(in.Role)
		if parseErr != nil {
			return domainauth.User{}, apperrors.ValidationFields("invalid registration", map[string]string{"role": parseErr.Error()})
		}
		role = parsed
	}

	now := s.now().UTC()
	u := domainauth.User{
		ID:         id,
		Name:       in.Name,
		Email:      in.Email,
		Role:       role,
		Avatar:     DefaultAvatar,
		CreatedAt:  now,
		LastActive: now,
		IsVerified: false,
		Location:   strings.TrimSpace(in.Location),
	}
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if in.IsVerified != nil {
		u.IsVerified = *in.IsVerified
	}
	if len(in.Skills) > 0 {
		u.Skills = append([]string(nil), in.Skills...)
	}
	return u, nil
}

// Load replaces in-memory state with the persisted snapshot. It may be called
// again at any time to pick up writes made through another process sharing the
// store; subscribers are only notified when the snapshot changed.
// A missing snapshot means anonymous and an unreadable one is removed. Only storage errors are returned.
func (s *SessionStore) Load(ctx context.Context) error {
	s.mu.RLock()
	seen := s.version
	s.mu.RUnlock()

	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ports.ErrNotFound) {
		raw, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf("load session snapshot: %w", err)
	}
	next, ok := s.decode(ctx, raw)

	s.mu.Lock()
	// a commit that raced the read wins
	if s.version != seen {
		s.mu.Unlock()
		return nil
	}
	if !ok {
		if delErr := s.kv.Delete(ctx, s.key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove session snapshot", "key", s.key, "error", delErr)
		}
		raw = nil
	}
	if bytes.Equal(raw, s.raw) {
		s.mu.Unlock()
		return nil
	}
	s.raw = raw
	s.state = next
	s.version++
	version := s.version
	s.mu.Unlock()

	s.subs.notify(version, copySession(next))
	return nil
}

func (s *SessionStore) decode(ctx context.Context, raw []byte) (domainauth.Session, bool) {
	if raw == nil {
		return domainauth.Anonymous(), true
	}
	var sess domainauth.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable session snapshot", "key", s.key, "error", err)
		return domainauth.Anonymous(), false
	}
	if err := sess.Validate(); err != nil {
		s.logger.WarnContext(ctx, "discarding invalid session snapshot", "key", s.key, "error", err)
		return domainauth.Anonymous(), false
	}
	return sess, true
}

// commit persists next and only then swaps it in and notifies.
func (s *SessionStore) commit(ctx context.Context, next domainauth.Session) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	if setErr := s.kv.Set(ctx, s.key, data); setErr != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", setErr)
	}
	s.state = next
	s.raw = data
	s.version++
	version := s.version
	s.mu.Unlock()

	s.subs.notify(version, copySession(next))
	return nil
}

func (s *SessionStore) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func copySession(s domainauth.Session) domainauth.Session {
	if s.User == nil {
		return s
	}
	return domainauth.SignedIn(*s.User)
}
