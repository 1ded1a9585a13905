package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/protologic/cargo-protologic/internal/constants"
	"github.com/protologic/cargo-protologic/internal/errors"
)

// GlobalConfigDir returns the path to the global configuration directory.
// This is typically ~/.protologic on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.ProtologicHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
func ProjectConfigDir() string {
	return constants.ProtologicHome
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .protologic/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.ConfigFileName)
}

// ResolveFleetDir returns the fleet output directory relative to base, which is
// normally the working directory. Absolute configured directories are returned unchanged.
func (c *Config) ResolveFleetDir(base string) string {
	if filepath.IsAbs(c.Fleets.OutputDir) {
		return c.Fleets.OutputDir
	}
	return filepath.Join(base, c.Fleets.OutputDir)
}
