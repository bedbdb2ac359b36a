package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
	"github.com/target/jobtracker-ui/internal/domain/prefs"
	"github.com/target/jobtracker-ui/internal/mocks/store"
	"github.com/target/jobtracker-ui/internal/service"
)

func newContextWorkspace(t *testing.T) *service.Workspace {
	t.Helper()
	kv := store.NewMemoryKV()
	surface := prefs.NewSurface()
	return &service.Workspace{
		ClientID: "c1",
		Session:  service.NewSessionStore(service.SessionStoreOptions{KV: kv, Key: service.AuthStorageKey("c1"), LoginDelay: -1}),
		Prefs:    service.NewPreferenceStore(service.PreferenceStoreOptions{KV: kv, Key: service.UIStorageKey("c1"), Surface: surface}),
		Surface:  surface,
	}
}

func TestGetWorkspaceFromContext(t *testing.T) {
	ws, ok := GetWorkspaceFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, ws)

	assert.Equal(t, context.Background(), SetWorkspaceInContext(context.Background(), nil))

	want := newContextWorkspace(t)
	ctx := SetWorkspaceInContext(context.Background(), want)
	got, ok := GetWorkspaceFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, want, got)
}

func TestGetSessionFromContext(t *testing.T) {
	assert.Equal(t, domainauth.Anonymous(), GetSessionFromContext(context.Background()))
	assert.True(t, IsGuestUser(context.Background()))

	ws := newContextWorkspace(t)
	ctx := SetWorkspaceInContext(context.Background(), ws)
	assert.True(t, IsGuestUser(ctx))
	assert.False(t, GetSessionFromContext(ctx).IsAuthenticated)
}
