package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/protologic/cargo-protologic/internal/config"
)

// ExecutionContext holds the resolved directory and config a command runs with.
type ExecutionContext struct {
	// WorkDir is the directory the command operates on. Battle output is
	// written here and cargo runs here.
	WorkDir string

	// FleetDir is the absolute fleet output directory.
	FleetDir string

	// Config is the merged configuration.
	Config *config.Config
}

// resolveExecutionContext loads configuration with flag overrides and resolves
// paths against the working directory.
func resolveExecutionContext(ctx context.Context, d *deps, flags *GlobalFlags, overrides *config.Config) (*ExecutionContext, error) {
	workDir := d.workDir
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		workDir = cwd
	}

	if overrides == nil {
		overrides = &config.Config{}
	}
	if flags.ProtologicPath != "" {
		overrides.ProtologicPath = flags.ProtologicPath
	}

	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &ExecutionContext{
		WorkDir:  workDir,
		FleetDir: cfg.ResolveFleetDir(workDir),
		Config:   cfg,
	}, nil
}
