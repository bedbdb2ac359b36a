package httpx

import (
	"context"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
	"github.com/target/jobtracker-ui/internal/service"
)

// workspaceKey is an unexported context key type to avoid collisions across packages.
type workspaceKey struct{}

// SetWorkspaceInContext returns a child context carrying ws.
// If ws is nil, the original ctx is returned unchanged.
func SetWorkspaceInContext(ctx context.Context, ws *service.Workspace) context.Context {
	if ws == nil {
		return ctx
	}
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// GetWorkspaceFromContext returns the request's workspace and whether one was attached.
func GetWorkspaceFromContext(ctx context.Context) (*service.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*service.Workspace)
	return ws, ok && ws != nil
}

// GetSessionFromContext returns a snapshot of the request's session.
// Requests without a workspace are anonymous.
func GetSessionFromContext(ctx context.Context) domainauth.Session {
	ws, ok := GetWorkspaceFromContext(ctx)
	if !ok {
		return domainauth.Anonymous()
	}
	return ws.Session.Snapshot()
}

// IsGuestUser reports whether the current request context is unauthenticated.
func IsGuestUser(ctx context.Context) bool {
	return !GetSessionFromContext(ctx).IsAuthenticated
}
