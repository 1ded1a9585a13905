package optimize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/protologic/cargo-protologic/internal/constants"
	"github.com/protologic/cargo-protologic/internal/ctxutil"
	perrors "github.com/protologic/cargo-protologic/internal/errors"
	"github.com/protologic/cargo-protologic/internal/fleet"
	"github.com/protologic/cargo-protologic/internal/process"
)

// errEmptyOutput is the cause recorded when wasm-opt succeeds without writing anything.
var errEmptyOutput = errors.New("optimizer produced an empty binary")

// Failure reports the fleet whose optimization failed.
type Failure struct {
	Fleet string
	Cause error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("failed to optimize fleet %q: %v", f.Fleet, f.Cause)
}

// Unwrap exposes both ErrOptimizeFailed and the underlying cause to errors.Is.
func (f *Failure) Unwrap() []error {
	return []error{perrors.ErrOptimizeFailed, f.Cause}
}

// Result describes one optimized fleet.
type Result struct {
	Fleet     fleet.Artifact `json:"fleet"`
	InputSize int64          `json:"input_size"`
}

// Pipeline runs wasm-opt over raw binaries and publishes the results into the
// fleet output directory.
type Pipeline struct {
	runner    process.Runner
	binary    string
	outputDir string
	logger    zerolog.Logger
	stdout    io.Writer
	stderr    io.Writer
}

// NewPipeline creates a Pipeline that writes fleets to outputDir.
func NewPipeline(runner process.Runner, binary, outputDir string, logger zerolog.Logger, stdout, stderr io.Writer) *Pipeline {
	return &Pipeline{
		runner:    runner,
		binary:    binary,
		outputDir: outputDir,
		logger:    logger,
		stdout:    stdout,
		stderr:    stderr,
	}
}

// OutputDir returns the fleet output directory.
func (p *Pipeline) OutputDir() string {
	return p.outputDir
}

// OptimizeAll optimizes each artifact in order and stops at the first failure.
// Fleets optimized before the failure stay published.
func (p *Pipeline) OptimizeAll(ctx context.Context, raws []fleet.RawArtifact, profile Profile) ([]Result, error) {
	results := make([]Result, 0, len(raws))
	for _, raw := range raws {
		if err := ctxutil.Canceled(ctx); err != nil {
			return results, err
		}
		res, err := p.Optimize(ctx, raw, profile)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// Optimize runs wasm-opt on one raw binary.
//
// wasm-opt writes to a hidden temp file in the fleet directory which is renamed
// over the final name only on success, so a failed run never leaves a fleet
// behind and never clobbers the previous good build.
func (p *Pipeline) Optimize(ctx context.Context, raw fleet.RawArtifact, profile Profile) (*Result, error) {
	name, err := fleet.ExtractName(raw.Path)
	if err != nil {
		return nil, err
	}
	log := p.logger.With().Str("fleet", name).Str("profile", profile.Name()).Logger()

	if err := os.MkdirAll(p.outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create fleet output directory: %w", err)
	}

	tmp, err := os.CreateTemp(p.outputDir, fmt.Sprintf(constants.TempArtifactPattern, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp output for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	published := false
	defer func() {
		if !published {
			_ = os.Remove(tmpPath)
		}
	}()

	cmd := process.Command{
		Name:   p.binary,
		Args:   Args(profile, raw.Path, tmpPath),
		Stdout: p.stdout,
		Stderr: p.stderr,
	}
	log.Debug().Str("command", cmd.String()).Msg("running optimizer")

	outcome, err := p.runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Failure{Fleet: name, Cause: err}
	}
	if !outcome.Success() {
		return nil, &Failure{Fleet: name, Cause: fmt.Errorf("%s exited with status %d", p.binary, outcome.ExitCode)}
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		return nil, &Failure{Fleet: name, Cause: err}
	}
	if info.Size() == 0 {
		return nil, &Failure{Fleet: name, Cause: errEmptyOutput}
	}

	finalPath := filepath.Join(p.outputDir, filepath.Base(raw.Path))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return nil, &Failure{Fleet: name, Cause: err}
	}
	published = true

	log.Info().
		Str("input_size", humanize.Bytes(uint64(max(raw.Size, 0)))).
		Str("output_size", humanize.Bytes(uint64(info.Size()))).
		Msg("optimized fleet")

	return &Result{
		Fleet: fleet.Artifact{
			Name:    name,
			Path:    finalPath,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		},
		InputSize: raw.Size,
	}, nil
}
