package config

import (
	"runtime"

	"github.com/protologic/cargo-protologic/internal/constants"
)

// DefaultConfig returns a new Config with the built-in default values.
func DefaultConfig() *Config {
	return &Config{
		Cargo: CargoConfig{
			Binary:    constants.DefaultCargoBinary,
			Target:    constants.DefaultTarget,
			CrateType: constants.DefaultCrateType,
		},
		Optimizer: OptimizerConfig{
			Binary:        constants.DefaultOptimizerBinary,
			Features:      defaultFeatures(),
			YieldImport:   constants.DefaultYieldImport,
			AsyncifyDebug: true,
		},
		Fleets: FleetsConfig{
			OutputDir: constants.FleetOutputDir,
		},
		Battle: BattleConfig{
			ReplayExtension: constants.ReplayExtension,
			OpenPlayer:      defaultOpenPlayer(),
		},
	}
}

func defaultFeatures() []string {
	return []string{constants.FeatureBulkMemory, constants.FeatureSIMD}
}

// defaultOpenPlayer is true only where a player build exists.
func defaultOpenPlayer() bool {
	return runtime.GOOS == "windows"
}
