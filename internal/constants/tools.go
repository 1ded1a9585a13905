package constants

import "time"

// Toolchain defaults.
const (
	// DefaultCargoBinary is the cargo executable used for metadata queries and builds.
	DefaultCargoBinary = "cargo"

	// DefaultTarget is the target triple fleets are compiled for.
	DefaultTarget = "wasm32-wasi"

	// DefaultCrateType makes rustc emit a .wasm artifact for library packages.
	DefaultCrateType = "cdylib"

	// MetadataFormatVersion is the `cargo metadata --format-version` value.
	MetadataFormatVersion = "1"

	// ProfileDebug and ProfileRelease name cargo's output subdirectories.
	ProfileDebug   = "debug"
	ProfileRelease = "release"
)

// Optimizer defaults.
const (
	// DefaultOptimizerBinary is binaryen's wasm-opt executable.
	DefaultOptimizerBinary = "wasm-opt"

	// DefaultYieldImport is the WASI import rewritten by asyncify so the simulator
	// can suspend a fleet when it yields.
	DefaultYieldImport = "wasi_snapshot_preview1.sched_yield"
)

// Tool detection.
const (
	// ToolDetectionTimeout bounds the concurrent tool version probes.
	ToolDetectionTimeout = 5 * time.Second

	// ToolCargo is the cargo build tool.
	ToolCargo = "cargo"

	// ToolRustc is the Rust compiler.
	ToolRustc = "rustc"

	// ToolWasmOpt is binaryen's optimizer.
	ToolWasmOpt = "wasm-opt"

	// VersionFlagStandard is the standard version flag.
	VersionFlagStandard = "--version"

	// MinVersionCargo is the first cargo release with `cargo rustc --crate-type`.
	MinVersionCargo = "1.64.0"

	// MinVersionRustc matches MinVersionCargo.
	MinVersionRustc = "1.64.0"

	// MinVersionWasmOpt is the oldest binaryen release with --strip-dwarf and asyncify pass args.
	MinVersionWasmOpt = "105"
)

// WebAssembly features the Protologic runtime accepts.
const (
	FeatureBulkMemory = "bulk-memory"
	FeatureSIMD       = "simd"
)

// Optional tooling.
const (
	// ToolRustup manages the wasm32-wasi target.
	ToolRustup = "rustup"
)
