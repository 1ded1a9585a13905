package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionShell describes one generated completion script.
type completionShell struct {
	name  string
	usage string
	gen   func(root *cobra.Command, w io.Writer) error
}

// completionShells lists the shells completion scripts are generated for.
func completionShells() []completionShell {
	return []completionShell{
		{
			name:  "bash",
			usage: "source <(cargo-protologic completion bash)",
			gen:   func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		},
		{
			name:  "zsh",
			usage: "source <(cargo-protologic completion zsh)",
			gen:   func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		},
		{
			name:  "fish",
			usage: "cargo-protologic completion fish | source",
			gen:   func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		},
		{
			name:  "powershell",
			usage: "cargo-protologic completion powershell | Out-String | Invoke-Expression",
			gen:   func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
		},
	}
}

// AddCompletionCommand adds the completion command with one subcommand per shell.
// It replaces Cobra's default completion command.
func AddCompletionCommand(rootCmd *cobra.Command) {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	completionCmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for cargo-protologic.

Completions apply to the cargo-protologic binary, not to 'cargo protologic'.`,
		// Unknown shells fall through to here and are rejected.
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	for _, shell := range completionShells() {
		completionCmd.AddCommand(&cobra.Command{
			Use:                   shell.name,
			Short:                 "Generate " + shell.name + " completion script",
			Long:                  "To load completions in the current session:\n  " + shell.usage,
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return shell.gen(cmd.Root(), cmd.OutOrStdout())
			},
		})
	}

	rootCmd.AddCommand(completionCmd)
}
