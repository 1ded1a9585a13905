package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/protologic/cargo-protologic/internal/config"
	"github.com/protologic/cargo-protologic/internal/logging"
	"github.com/protologic/cargo-protologic/internal/tui"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, globals *GlobalFlags, d *deps) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration after merging, in precedence order:
  - command-line flags
  - PROTOLOGIC_* environment variables (PROTOLOGIC_PATH is also read)
  - .protologic/config.yaml in the current directory
  - ~/.protologic/config.yaml
  - built-in defaults

Output is YAML, or JSON with --output json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), globals, d)
		},
	})

	root.AddCommand(cmd)
}

// runConfigShow prints the merged configuration.
func runConfigShow(ctx context.Context, w io.Writer, globals *GlobalFlags, d *deps) error {
	ec, err := resolveExecutionContext(ctx, d, globals, nil)
	if err != nil {
		return err
	}

	cfg := *ec.Config
	cfg.ProtologicPath = logging.RedactIfSensitive("protologic_path", cfg.ProtologicPath)

	if globals.Output == OutputJSON {
		return tui.NewJSONOutput(w).JSON(cfg)
	}
	return outputYAML(w, &cfg)
}

// outputYAML writes cfg as a YAML document.
func outputYAML(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
