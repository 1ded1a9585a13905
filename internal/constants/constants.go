// Package constants provides centralized constant values used throughout cargo-protologic.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Directory names and paths used by cargo-protologic.
const (
	// ProtologicHome is the hidden directory name where cargo-protologic keeps its
	// global config and logs. It is created in the user's home directory.
	ProtologicHome = ".protologic"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// FleetOutputDir is the default directory, relative to the working directory,
	// holding optimized fleets. Its contents are the fleet registry.
	FleetOutputDir = "target/protologic_fleets"

	// BuildLockFileName is the lock file taken by a running build. It lives next to
	// the fleet output directory so that it never counts as a fleet.
	BuildLockFileName = ".protologic-build.lock"
)

// Fleet artifact naming.
const (
	// WasmExtension is the extension of raw and optimized fleet binaries.
	WasmExtension = ".wasm"

	// ReplayExtension is the extension the simulator appends to its compressed replay.
	ReplayExtension = "json.deflate"

	// TempArtifactPattern is the os.CreateTemp pattern for in-flight optimizer output.
	// The leading dot keeps half-written files out of the fleet registry.
	TempArtifactPattern = ".%s-*.wasm.tmp"

	// BattleFleetCount is the number of fleets a battle requires.
	BattleFleetCount = 2
)

// Log file rotation settings for the global CLI log.
const (
	// CLILogFileName is the name of the global CLI log file.
	CLILogFileName = "cargo-protologic.log"

	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days to keep rotated logs.
	LogMaxAgeDays = 14

	// LogCompress enables gzip compression of rotated logs.
	LogCompress = true
)

// Configuration file names.
const (
	// ConfigFileName is the name of both the global and project config files.
	ConfigFileName = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (PROTOLOGIC_*).
	EnvPrefix = "PROTOLOGIC"
)
