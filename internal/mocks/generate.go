// Package mocks provides gomock implementations of the ports used by the workspace services.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	kv := mocks.NewMockKVStore(ctrl)
//	kv.EXPECT().Get(gomock.Any(), "c1:auth-storage").Return(nil, ports.ErrNotFound)
package mocks

// Generate mock for KVStore interface from internal/ports package.
// This creates MockKVStore with methods: Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=kv_store_mock.go github.com/target/jobtracker-ui/internal/ports KVStore

// Generate mock for UserDirectory interface from internal/ports package.
// This creates MockUserDirectory with methods: Authenticate, Add, List
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_directory_mock.go github.com/target/jobtracker-ui/internal/ports UserDirectory

// Generate mock for ThemeSurface interface from internal/ports package.
// This creates MockThemeSurface with methods: ApplyTheme
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=theme_surface_mock.go github.com/target/jobtracker-ui/internal/ports ThemeSurface
