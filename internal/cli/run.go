package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/protologic/cargo-protologic/internal/battle"
	"github.com/protologic/cargo-protologic/internal/replay"
	"github.com/protologic/cargo-protologic/internal/tui"
)

// RunFlags holds flags specific to the run command.
type RunFlags struct {
	// Debug is forwarded to the simulator.
	Debug bool
	// OpenPlayer launches the replay player after the battle. Only applied when
	// set on the command line; battle.open_player is used otherwise.
	OpenPlayer bool
}

// runResponse is the JSON result of a battle.
type runResponse struct {
	*battle.Outcome
	ReplayPath string          `json:"replay_path"`
	Replay     *replay.Summary `json:"replay,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command, globals *GlobalFlags, d *deps) {
	flags := &RunFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Battle the two built fleets",
		Long: `Run the Protologic simulator with the two fleets in the fleet directory.

The battle is written to <timestamp>_<fleet1>_<fleet2> in the current
directory, with the compressed replay next to it. The fleet directory must hold
exactly two fleets.

The simulator is located through --protologic-path or PROTOLOGIC_PATH.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBattle(cmd.Context(), cmd, globals, flags, d)
		},
	}

	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "run the simulator in debug mode")
	cmd.Flags().BoolVar(&flags.OpenPlayer, "open-player", false, "open the replay player when the battle ends (Windows only)")

	root.AddCommand(cmd)
}

// runBattle runs one battle and reports its replay.
func runBattle(ctx context.Context, cmd *cobra.Command, globals *GlobalFlags, flags *RunFlags, d *deps) error {
	logger := GetLogger()

	ec, err := resolveExecutionContext(ctx, d, globals, nil)
	if err != nil {
		return err
	}

	openPlayer := ec.Config.Battle.OpenPlayer
	if cmd.Flags().Changed("open-player") {
		openPlayer = flags.OpenPlayer
	}

	stdout := cmd.OutOrStdout()
	if globals.Output == OutputJSON {
		stdout = cmd.ErrOrStderr()
	}

	locator := battle.NewReleaseLocator(ec.Config.ProtologicPath, d.platform)
	orchestrator := battle.NewOrchestrator(d.runner, d.clock, locator, ec.WorkDir, logger, stdout, cmd.ErrOrStderr())

	outcome, runErr := orchestrator.Run(ctx, battle.Options{
		FleetDir:        ec.FleetDir,
		Debug:           flags.Debug,
		OpenPlayer:      openPlayer,
		ReplayExtension: ec.Config.Battle.ReplayExtension,
	})
	if outcome == nil {
		return runErr
	}

	summary, err := replay.Inspect(outcome.Run.ReplayPath())
	if err != nil {
		logger.Warn().Err(err).Str("replay", outcome.Run.ReplayPath()).Msg("replay not readable")
	} else {
		logger.Info().
			Str("replay", summary.Path).
			Int64("compressed_size", summary.CompressedSize).
			Int64("inflated_size", summary.InflatedSize).
			Strs("keys", summary.Keys).
			Msg("replay written")
	}

	out := tui.NewOutput(cmd.OutOrStdout(), globals.Output)
	if globals.Output == OutputJSON {
		response := runResponse{Outcome: outcome, ReplayPath: outcome.Run.ReplayPath(), Replay: summary}
		if runErr != nil {
			response.Error = runErr.Error()
		}
		if err := out.JSON(response); err != nil {
			return err
		}
		return jsonReported(runErr)
	}

	run := outcome.Run
	out.Success(fmt.Sprintf("%s vs %s finished", run.Pair[0].Name, run.Pair[1].Name))
	out.Info("battle: " + run.OutputPath)
	if summary != nil {
		out.Info(fmt.Sprintf("replay: %s (%s)", summary.Path, humanize.Bytes(uint64(max(summary.CompressedSize, 0)))))
	} else {
		out.Warning("replay not found: " + run.ReplayPath())
	}
	if outcome.PlayerLaunched {
		out.Info("replay player opened")
	}

	return runErr
}
