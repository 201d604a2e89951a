//go:build tools
// +build tools

// Package consultoria_tcp pins the tools run by go generate (mockgen for the
// mocks package) so that go.mod and go.sum track them.
package consultoria_tcp

import (
	_ "go.uber.org/mock/mockgen"
)
