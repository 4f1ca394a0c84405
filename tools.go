//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// Tools used by this repository:
// - github.com/pressly/goose/v3/cmd/goose (migrations)
// - github.com/matryer/moq (interface mocks, checked in by hand)
