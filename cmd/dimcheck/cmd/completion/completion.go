// Package completion provides the shell completion commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/internal/cmd/completion"
	"github.com/agentstation/dimcheck/internal/cmd/emoji"
)

// NewCommand creates the completion command. It replaces cobra's default so
// scripts can also be installed and removed.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate or install shell completions",
		Long: `Generate completion scripts to stdout, or install them for your shell.

  source <(dimcheck completion bash)
  dimcheck completion install --shell zsh`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	for _, shell := range []string{completion.Bash, completion.Zsh, completion.Fish, completion.PowerShell} {
		cmd.AddCommand(&cobra.Command{
			Use:                   shell,
			Short:                 fmt.Sprintf("Generate the %s completion script", shell),
			DisableFlagsInUseLine: true,
			Args:                  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return completion.Generate(cmd.Root(), shell, cmd.OutOrStdout())
			},
		})
	}
	cmd.AddCommand(newInstallCommand(), newUninstallCommand())
	return cmd
}

func newInstallCommand() *cobra.Command {
	var shells []string
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install completion scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, shell := range shells {
				path, err := completion.Install(cmd.Root(), shell)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s completions installed to %s\n", emoji.Success, shell, path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Start a new shell to enable them.")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&shells, "shell", completion.Shells, "Shells to install for")
	return cmd
}

func newUninstallCommand() *cobra.Command {
	var shells []string
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove installed completion scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, shell := range shells {
				path, removed, err := completion.Uninstall(shell, cmd.Root().Name())
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s completions from %s\n", emoji.Success, shell, path)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s No %s completions at %s\n", emoji.Info, shell, path)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&shells, "shell", completion.Shells, "Shells to remove completions for")
	return cmd
}
