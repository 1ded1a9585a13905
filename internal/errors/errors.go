// Package errors provides centralized error handling for cargo-protologic.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrMetadataUnavailable indicates that `cargo metadata` could not be run
	// or exited with a non-zero status.
	ErrMetadataUnavailable = errors.New("workspace metadata unavailable")

	// ErrMetadataParse indicates that the `cargo metadata` response was malformed.
	ErrMetadataParse = errors.New("workspace metadata malformed")

	// ErrNoPackages indicates a build was requested with no fleet packages selected.
	ErrNoPackages = errors.New("no fleet packages to build")

	// ErrBuildFailed indicates that the toolchain exited non-zero for a package.
	ErrBuildFailed = errors.New("fleet build failed")

	// ErrBuildLocked indicates another build holds the workspace build lock.
	ErrBuildLocked = errors.New("another build is already running")

	// ErrOutputDirMissing indicates the toolchain output directory does not exist.
	ErrOutputDirMissing = errors.New("toolchain output directory missing")

	// ErrMissingFileName indicates an artifact path has no file name component.
	ErrMissingFileName = errors.New("artifact path has no file name")

	// ErrNonUnicodeName indicates an artifact file name is not valid UTF-8.
	ErrNonUnicodeName = errors.New("artifact name is not valid unicode")

	// ErrOptimizeFailed indicates that the binary optimizer rejected a fleet binary.
	ErrOptimizeFailed = errors.New("fleet optimization failed")

	// ErrWrongFleetCount indicates the fleet output directory does not hold exactly two fleets.
	ErrWrongFleetCount = errors.New("battle requires exactly two fleets")

	// ErrSimulatorFailed indicates the simulator could not be started or exited non-zero.
	ErrSimulatorFailed = errors.New("simulator failed")

	// ErrPlayerFailed indicates the replay player could not be launched.
	ErrPlayerFailed = errors.New("player launch failed")

	// ErrUnsupportedPlatform indicates the simulator or player has no build for this OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrProtologicPathRequired indicates the Protologic release directory was not configured.
	ErrProtologicPathRequired = errors.New("protologic path not configured")

	// ErrReplayCorrupt indicates a replay file could not be inflated or decoded.
	ErrReplayCorrupt = errors.New("replay file corrupt")

	// ErrCommandFailed indicates that an external command exited non-zero.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandNotConfigured indicates that a fake command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidCargo indicates an invalid cargo configuration value.
	ErrConfigInvalidCargo = errors.New("invalid cargo configuration")

	// ErrConfigInvalidOptimizer indicates an invalid optimizer configuration value.
	ErrConfigInvalidOptimizer = errors.New("invalid optimizer configuration")

	// ErrConfigInvalidFleets indicates an invalid fleets configuration value.
	ErrConfigInvalidFleets = errors.New("invalid fleets configuration")

	// ErrConfigInvalidBattle indicates an invalid battle configuration value.
	ErrConfigInvalidBattle = errors.New("invalid battle configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrMissingRequiredTools indicates that required tools are missing or outdated.
	ErrMissingRequiredTools = errors.New("required tools are missing or outdated")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
