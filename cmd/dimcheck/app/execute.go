package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/dimcheck/internal/cmd/output"
	"github.com/agentstation/dimcheck/pkg/logging"
)

// Execute runs the dimcheck CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dimcheck",
		Short:   "Box dimension reconciliation",
		Version: a.version,
		Long: `dimcheck checks dimensioner measurements against a catalog of certified
box types.

Each measured unit is classified into a box type, compared against the
reference dimensions in whichever orientation fits best, and checked against
a per-axis tolerance. Results are summarised on the terminal and exported to
a spreadsheet with out-of-tolerance cells highlighted.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "model",
		Title: "Model Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.dimcheck.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml, markdown")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVar(&a.config.CatalogPath, "catalog", a.config.CatalogPath, "reference catalog file (yaml, csv or xlsx)")
	rootCmd.PersistentFlags().StringVar(&a.config.ModelPath, "model", a.config.ModelPath, "trained classifier file (default: newest in models dir)")

	rootCmd.SetVersionTemplate("dimcheck {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// Persistent flags are defined in createRootCommand, so errors here are programming errors
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	if cmd.Flags().Changed("config") {
		if err := a.reloadConfig(cmd); err != nil {
			return err
		}
	}

	if _, err := output.ParseFormat(format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// reloadConfig rereads configuration from an explicit --config file while
// keeping flags the user set on the command line.
func (a *App) reloadConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.Set("config", a.config.ConfigFile)
	config, err := loadConfig(v)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		config.CatalogPath = a.config.CatalogPath
	}
	if cmd.Flags().Changed("model") {
		config.ModelPath = a.config.ModelPath
	}
	*a.config = *config
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(a.NewCheckCommand())
	rootCmd.AddCommand(a.NewCombineCommand())

	// Model commands
	rootCmd.AddCommand(a.NewTrainCommand())
	rootCmd.AddCommand(a.NewTuneCommand())
	rootCmd.AddCommand(a.NewDatasetCommand())

	// Management commands
	rootCmd.AddCommand(a.NewCatalogCommand())
	rootCmd.AddCommand(a.NewPrefsCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
	rootCmd.AddCommand(a.NewCompletionCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
