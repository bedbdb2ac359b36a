//go:build tools

// Package tools lists development tools used with this repo.
// None are imported, so go.mod does not track them.
package tools

// mockgen regenerates internal/mocks; go generate pins it:
//   go generate ./internal/mocks
//
// Air reloads the server on Go changes. With DEV=true templates and static
// files are already read from disk on every request:
//   go install github.com/air-verse/air@v1.63.0
//   DEV=true STORAGE_BACKEND=memory air --build.cmd "go build -o tmp/jobtracker ./cmd/jobtracker" --build.bin tmp/jobtracker
