// Package testutil provides testing utilities for cargo-protologic.
//
// This package contains mock errors used across test files to simulate
// failures of external tools. It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockSpawn simulates an executable that could not be started.
	ErrMockSpawn = errors.New("exec: executable file not found in $PATH")

	// ErrMockPermissionDenied simulates an executable without execute permission.
	ErrMockPermissionDenied = errors.New("permission denied")

	// ErrMockDiskFull simulates a tool that failed writing its output.
	ErrMockDiskFull = errors.New("no space left on device")
)
