// Package build compiles fleet packages to WebAssembly with cargo.
package build

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/protologic/cargo-protologic/internal/ctxutil"
	perrors "github.com/protologic/cargo-protologic/internal/errors"
	"github.com/protologic/cargo-protologic/internal/process"
	"github.com/protologic/cargo-protologic/internal/workspace"
)

// Config selects what a build compiles.
type Config struct {
	// Packages are cargo package specs, built in order.
	Packages []string
	// Debug compiles without --release. It also selects the debug optimizer profile.
	Debug bool
}

// Toolchain describes how cargo is invoked.
type Toolchain struct {
	// Cargo is the cargo executable.
	Cargo string
	// Target is the target triple, e.g. wasm32-wasi.
	Target string
	// CrateType forces the artifact kind; cdylib makes rustc emit a .wasm file.
	CrateType string
	// Dir is the workspace directory cargo runs in.
	Dir string
}

// Failure reports the package whose compilation failed.
type Failure struct {
	Package  string
	ExitCode int
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("cargo exited with status %d building %s: %s",
		f.ExitCode, workspace.DisplayName(f.Package), perrors.ErrBuildFailed)
}

// Unwrap lets errors.Is match ErrBuildFailed.
func (f *Failure) Unwrap() error {
	return perrors.ErrBuildFailed
}

// Driver runs cargo once per package.
type Driver struct {
	runner    process.Runner
	toolchain Toolchain
	logger    zerolog.Logger
	stdout    io.Writer
	stderr    io.Writer
}

// NewDriver creates a Driver. Compiler output is streamed to stdout/stderr;
// nil writers fall through to the terminal.
func NewDriver(runner process.Runner, toolchain Toolchain, logger zerolog.Logger, stdout, stderr io.Writer) *Driver {
	return &Driver{
		runner:    runner,
		toolchain: toolchain,
		logger:    logger,
		stdout:    stdout,
		stderr:    stderr,
	}
}

// Build compiles each package in order. Builds never overlap: cargo shares one
// target directory and lock between invocations. The first failure stops the
// remaining packages.
func (d *Driver) Build(ctx context.Context, cfg Config) error {
	if len(cfg.Packages) == 0 {
		return perrors.ErrNoPackages
	}

	for _, pkg := range cfg.Packages {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		cmd := d.Command(pkg, cfg.Debug)
		log := d.logger.With().Str("package", workspace.DisplayName(pkg)).Logger()
		log.Info().Bool("debug", cfg.Debug).Msg("building fleet")
		log.Debug().Str("command", cmd.String()).Msg("running toolchain")

		outcome, err := d.runner.Run(ctx, cmd)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to run cargo for %s: %w: %w", pkg, err, perrors.ErrBuildFailed)
		}
		if !outcome.Success() {
			log.Error().Int("exit_code", outcome.ExitCode).Msg("fleet build failed")
			return &Failure{Package: pkg, ExitCode: outcome.ExitCode}
		}
	}

	return nil
}

// Command returns the cargo invocation for one package.
// `cargo rustc` is used instead of `cargo build` because only it accepts --crate-type.
func (d *Driver) Command(pkg string, debug bool) process.Command {
	args := []string{
		"rustc",
		"-p", pkg,
		"--crate-type", d.toolchain.CrateType,
		"--target", d.toolchain.Target,
	}
	if !debug {
		args = append(args, "--release")
	}

	return process.Command{
		Name:   d.toolchain.Cargo,
		Args:   args,
		Dir:    d.toolchain.Dir,
		Stdout: d.stdout,
		Stderr: d.stderr,
	}
}
