//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools run through `go run` or are installed globally via `go install`
// and are not tracked in go.mod since they are development tools, not runtime dependencies.
package tools

// Development tools:
//
// mockgen - Regenerates internal/mocks (see internal/mocks/generate.go)
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock v0.6.0 (matches go.mod)
//   Docs: https://github.com/uber-go/mock
//
// golangci-lint - Static analysis honoured by the //nolint directives in the tree
//   Install: go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@v2.4.0
//   Docs: https://golangci-lint.run
