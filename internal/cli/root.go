// Package cli provides the command-line interface for cargo-protologic.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/protologic/cargo-protologic/internal/battle"
	"github.com/protologic/cargo-protologic/internal/clock"
	"github.com/protologic/cargo-protologic/internal/errors"
	"github.com/protologic/cargo-protologic/internal/process"
	"github.com/protologic/cargo-protologic/internal/tui"
)

// cargoSubcommand is the extra first argument cargo passes when the binary is
// invoked as `cargo protologic`.
const cargoSubcommand = "protologic"

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Calling it before initialization will
// return a zero-value logger that discards all log output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// deps are the collaborators commands reach the outside world through.
// Tests replace them with fakes.
type deps struct {
	runner   process.Runner
	clock    clock.Clock
	platform battle.Platform
	// workDir is the directory commands run in. Empty means os.Getwd.
	workDir string
	// initLogger builds the command logger from the verbosity flags.
	initLogger func(verbose, quiet bool) zerolog.Logger
}

// defaultDeps returns the collaborators used by the real binary.
func defaultDeps() *deps {
	return &deps{
		runner:     process.NewExecRunner(),
		clock:      clock.RealClock{},
		platform:   battle.CurrentPlatform(),
		initLogger: InitLogger,
	}
}

// newRootCmd creates and returns the root command for the cargo-protologic CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo, d *deps) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "cargo-protologic",
		Short: "Build Protologic fleets and battle them",
		Long: `cargo-protologic compiles the fleets of a cargo workspace to WebAssembly,
optimizes them for the Protologic runtime and runs battles between them.

Usage as a cargo subcommand:
  cargo protologic build            # build and optimize every default member
  cargo protologic build -p alpha   # build one fleet
  cargo protologic list             # show built fleets
  cargo protologic run              # battle the two built fleets`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			logger := d.initLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Lock()
			globalLogger = logger
			globalLoggerMu.Unlock()

			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddBuildCommand(cmd, flags, d)
	AddListCommand(cmd, flags, d)
	AddRunCommand(cmd, flags, d)
	AddReplayCommand(cmd, flags)
	AddDoctorCommand(cmd, flags, d)
	AddConfigCommand(cmd, flags, d)
	AddCompletionCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// normalizeArgs drops the subcommand name cargo inserts when it runs
// `cargo-protologic protologic <args>` on behalf of `cargo protologic <args>`.
func normalizeArgs(args []string) []string {
	if len(args) > 0 && args[0] == cargoSubcommand {
		return args[1:]
	}
	return args
}

// Execute runs the root command with the process arguments.
// Errors are reported to the user before being returned.
func Execute(ctx context.Context, info BuildInfo) error {
	return execute(ctx, info, defaultDeps(), os.Args[1:], os.Stdout, os.Stderr)
}

// execute runs the CLI with explicit collaborators and streams.
func execute(ctx context.Context, info BuildInfo, d *deps, args []string, stdout, stderr io.Writer) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, d)
	cmd.SetArgs(normalizeArgs(args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(err, flags.Output, stdout, stderr)
	}
	return err
}

// reportError prints err with its suggested action. JSON errors go to stdout so
// scripts read them from the same stream as results.
func reportError(err error, format string, stdout, stderr io.Writer) {
	if stderrors.Is(err, errors.ErrJSONErrorOutput) {
		return
	}
	if format == tui.FormatJSON {
		tui.NewOutput(stdout, format).Error(err)
		return
	}
	tui.NewOutput(stderr, format).Error(err)
}

// jsonReported marks err as already written into a JSON result.
func jsonReported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", err, errors.ErrJSONErrorOutput)
}
