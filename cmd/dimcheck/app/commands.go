package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/cmd/dimcheck/cmd/catalog"
	"github.com/agentstation/dimcheck/cmd/dimcheck/cmd/check"
	"github.com/agentstation/dimcheck/cmd/dimcheck/cmd/combine"
	"github.com/agentstation/dimcheck/cmd/dimcheck/cmd/completion"
	"github.com/agentstation/dimcheck/cmd/dimcheck/cmd/dataset"
	"github.com/agentstation/dimcheck/cmd/dimcheck/cmd/prefs"
	"github.com/agentstation/dimcheck/cmd/dimcheck/cmd/train"
	"github.com/agentstation/dimcheck/cmd/dimcheck/cmd/tune"
)

// NewCheckCommand creates the check command with app dependencies.
func (a *App) NewCheckCommand() *cobra.Command {
	return check.NewCommand(a)
}

// NewCombineCommand creates the combine command.
func (a *App) NewCombineCommand() *cobra.Command {
	return combine.NewCommand(a)
}

// NewTrainCommand creates the train command.
func (a *App) NewTrainCommand() *cobra.Command {
	return train.NewCommand(a)
}

// NewTuneCommand creates the tune command.
func (a *App) NewTuneCommand() *cobra.Command {
	return tune.NewCommand(a)
}

// NewDatasetCommand creates the dataset command.
func (a *App) NewDatasetCommand() *cobra.Command {
	return dataset.NewCommand(a)
}

// NewCatalogCommand creates the catalog command.
func (a *App) NewCatalogCommand() *cobra.Command {
	return catalog.NewCommand(a)
}

// NewPrefsCommand creates the prefs command.
func (a *App) NewPrefsCommand() *cobra.Command {
	return prefs.NewCommand(a)
}

// NewCompletionCommand creates the completion command.
func (a *App) NewCompletionCommand() *cobra.Command {
	return completion.NewCommand()
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "dimcheck %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", a.commit)
				fmt.Fprintf(w, "  built:    %s\n", a.date)
				fmt.Fprintf(w, "  built by: %s\n", a.builtBy)
			}
		},
	}
}
