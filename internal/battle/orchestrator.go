// Package battle pits two built fleets against each other in the Protologic simulator.
package battle

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/protologic/cargo-protologic/internal/clock"
	"github.com/protologic/cargo-protologic/internal/constants"
	perrors "github.com/protologic/cargo-protologic/internal/errors"
	"github.com/protologic/cargo-protologic/internal/fleet"
	"github.com/protologic/cargo-protologic/internal/process"
)

// CountError reports a fleet directory that does not hold exactly two fleets.
type CountError struct {
	Found int
}

// Error implements the error interface.
func (e *CountError) Error() string {
	return fmt.Sprintf("found %d fleets: %s", e.Found, perrors.ErrWrongFleetCount)
}

// Unwrap lets errors.Is match ErrWrongFleetCount.
func (e *CountError) Unwrap() error {
	return perrors.ErrWrongFleetCount
}

// SimulatorFailure reports a simulator run that exited non-zero.
type SimulatorFailure struct {
	ExitCode int
}

// Error implements the error interface.
func (e *SimulatorFailure) Error() string {
	return fmt.Sprintf("simulator exited with status %d: %s", e.ExitCode, perrors.ErrSimulatorFailed)
}

// Unwrap lets errors.Is match ErrSimulatorFailed.
func (e *SimulatorFailure) Unwrap() error {
	return perrors.ErrSimulatorFailed
}

// Pair is the two fleets of a battle, in fleet directory order.
type Pair [constants.BattleFleetCount]fleet.Artifact

// Run identifies one battle. OutputPath doubles as the battle's name.
type Run struct {
	Pair       Pair   `json:"fleets"`
	Timestamp  int64  `json:"timestamp"`
	OutputPath string `json:"output_path"`

	replayExtension string
}

// ReplayPath returns the compressed replay the simulator writes next to OutputPath.
func (r Run) ReplayPath() string {
	return ReplayPathFor(r.OutputPath, r.replayExtension)
}

// ReplayPathFor derives the compressed replay path from a simulator output path
// by replacing its extension, if any, with extension.
func ReplayPathFor(outputPath, extension string) string {
	if extension == "" {
		extension = constants.ReplayExtension
	}

	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	if ext == base {
		// A leading dot starts a hidden name, not an extension.
		ext = ""
	}
	return strings.TrimSuffix(outputPath, ext) + "." + strings.TrimPrefix(extension, ".")
}

// OutputName returns "<unix>_<fleet1>_<fleet2>".
func OutputName(timestamp int64, first, second string) string {
	return strconv.FormatInt(timestamp, 10) + "_" + first + "_" + second
}

// Options select how a battle runs.
type Options struct {
	// FleetDir is the fleet output directory.
	FleetDir string
	// Debug is forwarded to the simulator's --debug flag.
	Debug bool
	// OpenPlayer launches the replay player once the simulator finishes.
	OpenPlayer bool
	// ReplayExtension overrides the compressed replay extension.
	ReplayExtension string
}

// Outcome describes a completed battle.
type Outcome struct {
	Run            Run  `json:"run"`
	PlayerLaunched bool `json:"player_launched"`
}

// Orchestrator runs battles.
type Orchestrator struct {
	runner  process.Runner
	clock   clock.Clock
	locator Locator
	workDir string
	logger  zerolog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// NewOrchestrator creates an Orchestrator that writes battle output into workDir.
func NewOrchestrator(runner process.Runner, clk clock.Clock, locator Locator, workDir string, logger zerolog.Logger, stdout, stderr io.Writer) *Orchestrator {
	return &Orchestrator{
		runner:  runner,
		clock:   clk,
		locator: locator,
		workDir: workDir,
		logger:  logger,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// Run battles the two fleets in opts.FleetDir.
//
// The simulator is never retried: it may seed battles randomly, so a second run
// is a different battle. The player is launched detached and not waited on.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Outcome, error) {
	fleets, err := fleet.List(opts.FleetDir)
	if err != nil {
		return nil, err
	}
	if len(fleets) != constants.BattleFleetCount {
		return nil, &CountError{Found: len(fleets)}
	}
	pair := Pair{fleets[0], fleets[1]}

	simulator, err := o.locator.Simulator()
	if err != nil {
		return nil, err
	}

	// Resolve the player before the battle so an unsupported platform fails
	// fast instead of after a long simulation.
	var player string
	if opts.OpenPlayer {
		if player, err = o.locator.Player(); err != nil {
			return nil, err
		}
	}

	ts := o.clock.Now().Unix()
	run := Run{
		Pair:            pair,
		Timestamp:       ts,
		OutputPath:      filepath.Join(o.workDir, OutputName(ts, pair[0].Name, pair[1].Name)),
		replayExtension: opts.ReplayExtension,
	}

	cmd := process.Command{
		Name: simulator,
		Args: []string{
			"--fleets", pair[0].Path, pair[1].Path,
			"--debug", strconv.FormatBool(opts.Debug),
			"--output", run.OutputPath,
		},
		Stdout: o.stdout,
		Stderr: o.stderr,
	}

	log := o.logger.With().Str("fleet1", pair[0].Name).Str("fleet2", pair[1].Name).Logger()
	log.Info().Str("output", run.OutputPath).Msg("starting simulator")
	log.Debug().Str("command", cmd.String()).Msg("running simulator")

	outcome, err := o.runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", err, perrors.ErrSimulatorFailed)
	}
	if !outcome.Success() {
		return nil, &SimulatorFailure{ExitCode: outcome.ExitCode}
	}
	log.Info().Msg("simulator finished")

	result := &Outcome{Run: run}
	if !opts.OpenPlayer {
		return result, nil
	}

	playerCmd := process.Command{Name: player, Args: []string{run.ReplayPath()}}
	log.Info().Str("command", playerCmd.String()).Msg("opening player")
	if err := o.runner.Start(playerCmd); err != nil {
		return result, fmt.Errorf("%w: %w", err, perrors.ErrPlayerFailed)
	}
	result.PlayerLaunched = true

	return result, nil
}
