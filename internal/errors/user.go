package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Workspace & Build
	// ===================
	{
		err: ErrMetadataUnavailable,
		info: ErrorInfo{
			Message: "Could not query the cargo workspace.",
			Action:  "Run this command from inside a cargo workspace and check that 'cargo' is on your PATH.",
		},
	},
	{
		err: ErrMetadataParse,
		info: ErrorInfo{
			Message: "The output of 'cargo metadata' could not be understood.",
			Action:  "Check your cargo version with 'cargo protologic doctor'.",
		},
	},
	{
		err: ErrNoPackages,
		info: ErrorInfo{
			Message: "There are no fleet packages to build.",
			Action:  "Pass --package, or add your fleets to 'default-members' in the workspace Cargo.toml.",
		},
	},
	{
		err: ErrBuildFailed,
		info: ErrorInfo{
			Message: "A fleet failed to compile.",
			Action:  "Fix the compiler errors shown above and build again.",
		},
	},
	{
		err: ErrBuildLocked,
		info: ErrorInfo{
			Message: "Another fleet build is running in this workspace.",
			Action:  "Wait for it to finish, then retry.",
		},
	},
	{
		err: ErrOutputDirMissing,
		info: ErrorInfo{
			Message: "The build produced no output directory.",
			Action:  "Install the wasm target with 'rustup target add wasm32-wasi' (or the target set in your config).",
		},
	},

	// ===================
	// Fleet artifacts
	// ===================
	{
		err: ErrMissingFileName,
		info: ErrorInfo{
			Message: "A fleet artifact path has no file name.",
		},
	},
	{
		err: ErrNonUnicodeName,
		info: ErrorInfo{
			Message: "A fleet file name is not valid unicode.",
			Action:  "Rename your fleet package using unicode characters.",
		},
	},
	{
		err: ErrOptimizeFailed,
		info: ErrorInfo{
			Message: "wasm-opt could not optimize a fleet.",
			Action:  "Check the optimizer output above and your wasm-opt version with 'cargo protologic doctor'.",
		},
	},

	// ===================
	// Battles
	// ===================
	{
		err: ErrWrongFleetCount,
		info: ErrorInfo{
			Message: "A battle needs exactly two built fleets.",
			Action:  "Run 'cargo protologic list' and remove or build fleets until exactly two remain.",
		},
	},
	{
		err: ErrSimulatorFailed,
		info: ErrorInfo{
			Message: "The Protologic simulator failed.",
			Action:  "Check the simulator output above.",
		},
	},
	{
		err: ErrPlayerFailed,
		info: ErrorInfo{
			Message: "The Protologic player could not be opened.",
			Action:  "Open the .json.deflate replay in the player manually.",
		},
	},
	{
		err: ErrUnsupportedPlatform,
		info: ErrorInfo{
			Message: "Protologic has no build for this operating system.",
			Action:  "Run the simulator on Windows or Linux; the player is Windows only.",
		},
	},
	{
		err: ErrProtologicPathRequired,
		info: ErrorInfo{
			Message: "The Protologic release directory is not configured.",
			Action:  "Pass --protologic-path or set PROTOLOGIC_PATH.",
		},
	},
	{
		err: ErrReplayCorrupt,
		info: ErrorInfo{
			Message: "The replay file could not be read.",
			Action:  "Run the battle again to regenerate it.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigInvalidCargo,
		info: ErrorInfo{
			Message: "The cargo section of your configuration is invalid.",
			Action:  "Run 'cargo protologic config show' to review the merged configuration.",
		},
	},
	{
		err: ErrConfigInvalidOptimizer,
		info: ErrorInfo{
			Message: "The optimizer section of your configuration is invalid.",
			Action:  "Run 'cargo protologic config show' to review the merged configuration.",
		},
	},
	{
		err: ErrConfigInvalidFleets,
		info: ErrorInfo{
			Message: "The fleets section of your configuration is invalid.",
			Action:  "Run 'cargo protologic config show' to review the merged configuration.",
		},
	},
	{
		err: ErrConfigInvalidBattle,
		info: ErrorInfo{
			Message: "The battle section of your configuration is invalid.",
			Action:  "Run 'cargo protologic config show' to review the merged configuration.",
		},
	},
	{
		err: ErrMissingRequiredTools,
		info: ErrorInfo{
			Message: "Required tools are missing or outdated.",
			Action:  "Install cargo and binaryen's wasm-opt, then run 'cargo protologic doctor'.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel matches.
//
//nolint:gochecknoglobals // Pre-built lookup for efficiency
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo returns the info for the first sentinel found in the error chain.
// Errors with no known sentinel fall back to their own message.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for the error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns the user-facing message and suggested action for the error.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
