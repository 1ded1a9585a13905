package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/protologic/cargo-protologic/internal/fleet"
	"github.com/protologic/cargo-protologic/internal/tui"
)

// fleetEntry is one fleet in list output.
type fleetEntry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Modified    time.Time `json:"modified"`
	Fingerprint string    `json:"fingerprint"`
}

// AddListCommand adds the list command to the root command.
func AddListCommand(root *cobra.Command, globals *GlobalFlags, d *deps) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List built fleets",
		Long: `List the optimized fleets in the fleet directory.

Fingerprints identify byte-identical builds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, globals, d)
		},
	}
	root.AddCommand(cmd)
}

// runList prints the fleet registry.
func runList(ctx context.Context, cmd *cobra.Command, globals *GlobalFlags, d *deps) error {
	ec, err := resolveExecutionContext(ctx, d, globals, nil)
	if err != nil {
		return err
	}

	fleets, err := fleet.List(ec.FleetDir)
	if err != nil {
		return err
	}

	entries := make([]fleetEntry, 0, len(fleets))
	for _, f := range fleets {
		fp, err := fleet.Fingerprint(f.Path)
		if err != nil {
			return err
		}
		entries = append(entries, fleetEntry{
			Name:        f.Name,
			Path:        f.Path,
			Size:        f.Size,
			Modified:    f.ModTime,
			Fingerprint: fp,
		})
	}

	out := tui.NewOutput(cmd.OutOrStdout(), globals.Output)
	if globals.Output == OutputJSON {
		return out.JSON(entries)
	}

	if len(entries) == 0 {
		out.Info(fmt.Sprintf("no fleets in %s, try building them with 'cargo protologic build'", ec.FleetDir))
		return nil
	}

	table := tui.NewTable(cmd.OutOrStdout(), []tui.TableColumn{
		{Name: "NAME"},
		{Name: "SIZE", Align: tui.AlignRight},
		{Name: "MODIFIED"},
		{Name: "FINGERPRINT"},
	})
	for _, e := range entries {
		table.AddRow(
			e.Name,
			humanize.Bytes(uint64(max(e.Size, 0))),
			tui.RelativeTimeWith(e.Modified, d.clock),
			e.Fingerprint,
		)
	}
	table.Render()

	return nil
}
