package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protologic/cargo-protologic/internal/config"
	"github.com/protologic/cargo-protologic/internal/errors"
	"github.com/protologic/cargo-protologic/internal/tui"
)

// doctorResponse is the JSON result of a tool check.
type doctorResponse struct {
	*config.ToolDetectionResult
	LogFile string `json:"log_file,omitempty"`
}

// AddDoctorCommand adds the doctor command to the root command.
func AddDoctorCommand(root *cobra.Command, globals *GlobalFlags, d *deps) {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the build toolchain",
		Long: `Check that cargo, rustc and wasm-opt are installed and recent enough.

The configured cargo and wasm-opt binaries are probed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ec, err := resolveExecutionContext(cmd.Context(), d, globals, nil)
			if err != nil {
				return err
			}
			detector := config.NewToolDetector(ec.Config.ToolBinaries())
			return runDoctor(cmd.Context(), cmd, globals, detector)
		},
	}
	root.AddCommand(cmd)
}

// runDoctor prints the detected tools and fails when a required one is missing.
func runDoctor(ctx context.Context, cmd *cobra.Command, globals *GlobalFlags, detector config.ToolDetector) error {
	result, err := detector.Detect(ctx)
	if err != nil {
		return err
	}

	out := tui.NewOutput(cmd.OutOrStdout(), globals.Output)
	if globals.Output == OutputJSON {
		logFile, _ := LogFilePath()
		if err := out.JSON(doctorResponse{ToolDetectionResult: result, LogFile: logFile}); err != nil {
			return err
		}
	} else {
		table := tui.NewTable(cmd.OutOrStdout(), []tui.TableColumn{
			{Name: "TOOL"},
			{Name: "STATUS"},
			{Name: "VERSION"},
			{Name: "REQUIRED"},
		})
		for _, tool := range result.Tools {
			version := tool.CurrentVersion
			if version == "" {
				version = "-"
			}
			required := "no"
			if tool.Required {
				required = ">= " + tool.MinVersion
			}
			table.AddRow(tool.Name, tool.Status.String(), version, required)
		}
		table.Render()
	}

	if missing := result.MissingRequiredTools(); len(missing) > 0 {
		if globals.Output == OutputJSON {
			return jsonReported(errors.ErrMissingRequiredTools)
		}
		fmt.Fprint(cmd.ErrOrStderr(), config.FormatMissingToolsError(missing))
		return errors.ErrMissingRequiredTools
	}

	if globals.Output != OutputJSON {
		out.Success("toolchain ready")
	}
	return nil
}
