package cli

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/protologic/cargo-protologic/internal/replay"
	"github.com/protologic/cargo-protologic/internal/tui"
)

// AddReplayCommand adds the replay command to the root command.
func AddReplayCommand(root *cobra.Command, globals *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Summarize a battle replay",
		Long: `Inflate a .json.deflate replay written by the simulator and show its
top-level structure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, globals, args[0])
		},
	}
	root.AddCommand(cmd)
}

// runReplay prints the summary of one replay file.
func runReplay(cmd *cobra.Command, globals *GlobalFlags, path string) error {
	summary, err := replay.Inspect(path)
	if err != nil {
		return err
	}

	out := tui.NewOutput(cmd.OutOrStdout(), globals.Output)
	if globals.Output == OutputJSON {
		return out.JSON(summary)
	}

	out.Info(summary.Path)
	out.Info("compressed: " + humanize.Bytes(uint64(max(summary.CompressedSize, 0))))
	out.Info("inflated:   " + humanize.Bytes(uint64(max(summary.InflatedSize, 0))))

	table := tui.NewTable(cmd.OutOrStdout(), []tui.TableColumn{
		{Name: "KEY"},
		{Name: "ENTRIES", Align: tui.AlignRight},
	})
	for _, key := range summary.Keys {
		entries := "-"
		if n, ok := summary.ArrayLengths[key]; ok {
			entries = strconv.Itoa(n)
		}
		table.AddRow(key, entries)
	}
	table.Render()

	return nil
}
