package config

import (
	"slices"
	"strings"

	"github.com/protologic/cargo-protologic/internal/constants"
	"github.com/protologic/cargo-protologic/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - cargo binary, target and crate type must not be empty
//   - optimizer binary and yield import must not be empty
//   - optimizer features must be known WebAssembly features
//   - fleet output directory must not be empty
//   - replay extension must not be empty
//
// protologic_path is not validated here; only the run command needs it.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateCargoConfig(&cfg.Cargo); err != nil {
		return err
	}
	if err := validateOptimizerConfig(&cfg.Optimizer); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Fleets.OutputDir) == "" {
		return errors.Wrap(errors.ErrConfigInvalidFleets, "fleets.output_dir must not be empty")
	}
	if strings.Trim(cfg.Battle.ReplayExtension, ". ") == "" {
		return errors.Wrap(errors.ErrConfigInvalidBattle, "battle.replay_extension must not be empty")
	}

	return nil
}

func validateCargoConfig(cfg *CargoConfig) error {
	if cfg.Binary == "" {
		return errors.Wrap(errors.ErrConfigInvalidCargo, "cargo.binary must not be empty")
	}
	if cfg.Target == "" {
		return errors.Wrap(errors.ErrConfigInvalidCargo, "cargo.target must not be empty")
	}
	if cfg.CrateType == "" {
		return errors.Wrap(errors.ErrConfigInvalidCargo, "cargo.crate_type must not be empty")
	}
	return nil
}

func validateOptimizerConfig(cfg *OptimizerConfig) error {
	if cfg.Binary == "" {
		return errors.Wrap(errors.ErrConfigInvalidOptimizer, "optimizer.binary must not be empty")
	}
	if cfg.YieldImport == "" || !strings.Contains(cfg.YieldImport, ".") {
		return errors.Wrapf(errors.ErrConfigInvalidOptimizer,
			"optimizer.yield_import must be module.field, got %q", cfg.YieldImport)
	}

	known := []string{constants.FeatureBulkMemory, constants.FeatureSIMD}
	for _, f := range cfg.Features {
		if !slices.Contains(known, f) {
			return errors.Wrapf(errors.ErrConfigInvalidOptimizer,
				"optimizer.features: unknown feature %q (valid: %s)", f, strings.Join(known, ", "))
		}
	}
	return nil
}
