package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/protologic/cargo-protologic/internal/constants"
	"github.com/protologic/cargo-protologic/internal/errors"
)

// protologicPathEnv is read for protologic_path in addition to the prefixed form.
const protologicPathEnv = "PROTOLOGIC_PATH"

// newViperInstance creates a new Viper instance with the PROTOLOGIC_ env prefix,
// key replacer and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PROTOLOGIC_PATH predates the prefixed scheme and is what users already export.
	_ = v.BindEnv("protologic_path", constants.EnvPrefix+"_PROTOLOGIC_PATH", protologicPathEnv)
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("cargo.target", cfg.Cargo.Target).
		Strs("optimizer.features", cfg.Optimizer.Features).
		Str("fleets.output_dir", cfg.Fleets.OutputDir).
		Bool("protologic_path_set", cfg.ProtologicPath != "").
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig loads ~/.protologic/config.yaml when it exists.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if it exists.
func getGlobalConfigPathIfExists() (string, bool) {
	globalDir, err := GlobalConfigDir()
	if err != nil {
		return "", false
	}

	globalConfigPath := filepath.Join(globalDir, constants.ConfigFileName)
	if !fileExists(globalConfigPath) {
		return "", false
	}
	return globalConfigPath, true
}

// loadProjectConfig merges .protologic/config.yaml when it exists.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("protologic_path", "")

	v.SetDefault("cargo.binary", d.Cargo.Binary)
	v.SetDefault("cargo.target", d.Cargo.Target)
	v.SetDefault("cargo.crate_type", d.Cargo.CrateType)

	v.SetDefault("optimizer.binary", d.Optimizer.Binary)
	v.SetDefault("optimizer.features", d.Optimizer.Features)
	v.SetDefault("optimizer.yield_import", d.Optimizer.YieldImport)
	v.SetDefault("optimizer.asyncify_debug", d.Optimizer.AsyncifyDebug)

	v.SetDefault("fleets.output_dir", d.Fleets.OutputDir)

	v.SetDefault("battle.replay_extension", d.Battle.ReplayExtension)
	v.SetDefault("battle.open_player", d.Battle.OpenPlayer)
}

// applyOverrides merges non-zero override values into the config.
//
// IMPORTANT: Boolean fields cannot be overridden to false here because the zero
// value is indistinguishable from "not set". The CLI handles bool flags with
// cmd.Flags().Changed.
func applyOverrides(cfg, overrides *Config) {
	if overrides.ProtologicPath != "" {
		cfg.ProtologicPath = overrides.ProtologicPath
	}

	if overrides.Cargo.Binary != "" {
		cfg.Cargo.Binary = overrides.Cargo.Binary
	}
	if overrides.Cargo.Target != "" {
		cfg.Cargo.Target = overrides.Cargo.Target
	}

	if overrides.Optimizer.Binary != "" {
		cfg.Optimizer.Binary = overrides.Optimizer.Binary
	}
	if len(overrides.Optimizer.Features) > 0 {
		cfg.Optimizer.Features = overrides.Optimizer.Features
	}

	if overrides.Fleets.OutputDir != "" {
		cfg.Fleets.OutputDir = overrides.Fleets.OutputDir
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Comma-separated env values such as PROTOLOGIC_OPTIMIZER_FEATURES=simd,bulk-memory
// decode into string slices.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
