package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/protologic/cargo-protologic/internal/build"
	"github.com/protologic/cargo-protologic/internal/config"
	"github.com/protologic/cargo-protologic/internal/constants"
	"github.com/protologic/cargo-protologic/internal/fleet"
	"github.com/protologic/cargo-protologic/internal/flock"
	"github.com/protologic/cargo-protologic/internal/optimize"
	"github.com/protologic/cargo-protologic/internal/tui"
	"github.com/protologic/cargo-protologic/internal/workspace"
)

// BuildFlags holds flags specific to the build command.
type BuildFlags struct {
	// Packages restricts the build to these packages. Empty builds every
	// workspace default member.
	Packages []string
	// Debug builds without --release and optimizes with the debug profile.
	Debug bool
	// Target overrides the configured target triple.
	Target string
}

// buildResponse is the JSON result of a build.
type buildResponse struct {
	Packages []string          `json:"packages"`
	Profile  string            `json:"profile"`
	FleetDir string            `json:"fleet_dir"`
	Fleets   []optimize.Result `json:"fleets"`
}

// AddBuildCommand adds the build command to the root command.
func AddBuildCommand(root *cobra.Command, globals *GlobalFlags, d *deps) {
	flags := &BuildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile and optimize fleets",
		Long: `Compile fleet packages to WebAssembly and optimize them with wasm-opt.

Without --package every workspace default member is built. Optimized fleets
are written to the fleet directory (target/protologic_fleets by default).

Examples:
  cargo protologic build
  cargo protologic build -p alpha -p beta
  cargo protologic build --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, globals, flags, d)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.Packages, "package", "p", nil, "package to build (repeatable)")
	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "build unoptimized with debug info")
	cmd.Flags().StringVar(&flags.Target, "target", "", "target triple (overrides cargo.target)")

	root.AddCommand(cmd)
}

// runBuild resolves the workspace, compiles each package and optimizes the results.
func runBuild(ctx context.Context, cmd *cobra.Command, globals *GlobalFlags, flags *BuildFlags, d *deps) error {
	logger := GetLogger()
	out := tui.NewOutput(cmd.OutOrStdout(), globals.Output)

	ec, err := resolveExecutionContext(ctx, d, globals, &config.Config{
		Cargo: config.CargoConfig{Target: flags.Target},
	})
	if err != nil {
		return err
	}
	cfg := ec.Config

	features, err := optimize.ParseFeatures(cfg.Optimizer.Features)
	if err != nil {
		return err
	}
	profile := optimize.NewProfile(flags.Debug, optimize.Options{
		Features:      features,
		YieldImport:   cfg.Optimizer.YieldImport,
		AsyncifyDebug: cfg.Optimizer.AsyncifyDebug,
	})

	lock, err := flock.Acquire(filepath.Join(filepath.Dir(ec.FleetDir), constants.BuildLockFileName))
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	meta, err := workspace.NewResolver(d.runner, cfg.Cargo.Binary, ec.WorkDir, logger).Resolve(ctx)
	if err != nil {
		return err
	}

	packages := flags.Packages
	if len(packages) == 0 {
		packages = meta.DefaultMembers
	}

	// Toolchain chatter must not corrupt JSON on stdout.
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if globals.Output == OutputJSON {
		stdout = stderr
	}

	driver := build.NewDriver(d.runner, build.Toolchain{
		Cargo:     cfg.Cargo.Binary,
		Target:    cfg.Cargo.Target,
		CrateType: cfg.Cargo.CrateType,
		Dir:       ec.WorkDir,
	}, logger, stdout, stderr)

	if err := driver.Build(ctx, build.Config{Packages: packages, Debug: flags.Debug}); err != nil {
		return err
	}

	raws, err := fleet.Scan(meta.OutputDir(cfg.Cargo.Target, flags.Debug))
	if err != nil {
		return err
	}

	response := buildResponse{
		Packages: displayNames(packages),
		Profile:  profile.Name(),
		FleetDir: ec.FleetDir,
		Fleets:   []optimize.Result{},
	}

	if len(raws) == 0 {
		if globals.Output == OutputJSON {
			return out.JSON(response)
		}
		out.Info("nothing to optimize")
		return nil
	}

	pipeline := optimize.NewPipeline(d.runner, cfg.Optimizer.Binary, ec.FleetDir, logger, stdout, stderr)
	results, err := pipeline.OptimizeAll(ctx, raws, profile)
	if err != nil {
		return err
	}
	response.Fleets = results

	if globals.Output == OutputJSON {
		return out.JSON(response)
	}
	printBuildResults(cmd.OutOrStdout(), out, results, profile.Name(), ec.FleetDir)
	return nil
}

// printBuildResults writes one line per optimized fleet.
func printBuildResults(w io.Writer, out tui.Output, results []optimize.Result, profile, fleetDir string) {
	table := tui.NewTable(w, []tui.TableColumn{
		{Name: "FLEET"},
		{Name: "RAW", Align: tui.AlignRight},
		{Name: "OPTIMIZED", Align: tui.AlignRight},
	})
	for _, r := range results {
		table.AddRow(
			r.Fleet.Name,
			humanize.Bytes(uint64(max(r.InputSize, 0))),
			humanize.Bytes(uint64(max(r.Fleet.Size, 0))),
		)
	}
	table.Render()

	out.Success(fmt.Sprintf("built %d fleet(s) with the %s profile into %s", len(results), profile, fleetDir))
}

// displayNames returns the bare package names for the given package specs.
func displayNames(packages []string) []string {
	names := make([]string, 0, len(packages))
	for _, p := range packages {
		names = append(names, workspace.DisplayName(p))
	}
	return names
}
