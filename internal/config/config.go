// Package config provides configuration management for cargo-protologic with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (PROTOLOGIC_* prefix, plus PROTOLOGIC_PATH)
//  3. Project config (.protologic/config.yaml)
//  4. Global config (~/.protologic/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants, internal/ctxutil and
// internal/errors, but MUST NOT import other internal packages.
package config

// Config is the root configuration structure for cargo-protologic.
type Config struct {
	// ProtologicPath is the root of the unpacked Protologic release holding the
	// simulator and player. Required only by the run command.
	ProtologicPath string `yaml:"protologic_path" mapstructure:"protologic_path" json:"protologic_path"`

	// Cargo contains settings for the Rust toolchain.
	Cargo CargoConfig `yaml:"cargo" mapstructure:"cargo" json:"cargo"`

	// Optimizer contains settings for wasm-opt.
	Optimizer OptimizerConfig `yaml:"optimizer" mapstructure:"optimizer" json:"optimizer"`

	// Fleets contains settings for the fleet output directory.
	Fleets FleetsConfig `yaml:"fleets" mapstructure:"fleets" json:"fleets"`

	// Battle contains settings for simulator runs.
	Battle BattleConfig `yaml:"battle" mapstructure:"battle" json:"battle"`
}

// CargoConfig contains settings for compiling fleets.
type CargoConfig struct {
	// Binary is the cargo executable.
	// Default: "cargo"
	Binary string `yaml:"binary" mapstructure:"binary" json:"binary"`

	// Target is the compilation target triple.
	// Default: "wasm32-wasi"
	Target string `yaml:"target" mapstructure:"target" json:"target"`

	// CrateType is passed to `cargo rustc --crate-type`.
	// Default: "cdylib"
	CrateType string `yaml:"crate_type" mapstructure:"crate_type" json:"crate_type"`
}

// OptimizerConfig contains settings for wasm-opt.
type OptimizerConfig struct {
	// Binary is the wasm-opt executable.
	// Default: "wasm-opt"
	Binary string `yaml:"binary" mapstructure:"binary" json:"binary"`

	// Features are the WebAssembly proposals enabled for both profiles.
	// Valid values: "bulk-memory", "simd"
	Features []string `yaml:"features" mapstructure:"features" json:"features"`

	// YieldImport is the module.field import instrumented by asyncify.
	// Default: "wasi_snapshot_preview1.sched_yield"
	YieldImport string `yaml:"yield_import" mapstructure:"yield_import" json:"yield_import"`

	// AsyncifyDebug keeps the asyncify rewrite in debug builds. Fleets built
	// without it cannot yield and stall the simulator.
	// Default: true
	AsyncifyDebug bool `yaml:"asyncify_debug" mapstructure:"asyncify_debug" json:"asyncify_debug"`
}

// FleetsConfig contains settings for the fleet registry.
type FleetsConfig struct {
	// OutputDir is the fleet output directory. Relative paths are resolved
	// against the working directory.
	// Default: "target/protologic_fleets"
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir" json:"output_dir"`
}

// BattleConfig contains settings for battles.
type BattleConfig struct {
	// ReplayExtension replaces the extension of the simulator output path to
	// find the compressed replay.
	// Default: "json.deflate"
	ReplayExtension string `yaml:"replay_extension" mapstructure:"replay_extension" json:"replay_extension"`

	// OpenPlayer launches the replay player after a battle.
	// Default: true on Windows, false elsewhere (no player build exists)
	OpenPlayer bool `yaml:"open_player" mapstructure:"open_player" json:"open_player"`
}
