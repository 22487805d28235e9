// Package catalog provides the commands that inspect and import box catalogs.
package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/internal/cmd/output"
	"github.com/agentstation/dimcheck/internal/cmd/table"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// NewCommand creates the catalog command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"boxes"},
		GroupID: "management",
		Short:   "Inspect and import box catalogs",
	}
	cmd.AddCommand(newListCommand(app), newShowCommand(app), newImportCommand(app))
	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List box types, marking the saved selection",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := app.Catalog()
			if err != nil {
				return err
			}
			boxes := cat.List()

			format := output.DetectFormat(app.OutputFormat())
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), boxes)
			}

			selected := map[string]bool{}
			if p, err := app.Prefs(); err != nil {
				app.Logger().Warn().Err(err).Msg("Ignoring unreadable preferences")
			} else {
				for _, l := range p.SelectedBoxes {
					selected[l] = true
				}
			}
			if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), table.BoxesToTableData(boxes, selected)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d box type(s), %d selected\n", len(boxes), len(selected))
			return nil
		},
	}
}

func newShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "show <box>",
		Short: "Show one box type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.Catalog()
			if err != nil {
				return err
			}
			box, err := cat.Find(args[0])
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), box)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), table.BoxesToTableData([]catalogs.BoxType{box}, nil))
		},
	}
}

func newImportCommand(app application.Application) *cobra.Command {
	var dest string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Convert a YAML, CSV or XLSX catalog into the configured catalog file",
		Long: `Import reads a catalog in any supported format, validates every entry and
writes it as YAML to --dest, or to the configured catalog path.`,
		Args: cobra.ExactArgs(1),
		Example: `  dimcheck catalog import boxes.xlsx
  dimcheck catalog import boxes.csv -d ./catalog.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dest == "" {
				dest = app.Settings().CatalogPath
			}
			if dest == "" {
				return errors.NewConfigError("catalog", "no destination: pass --dest or set catalog_path", nil)
			}

			cat, err := catalogs.LoadFile(args[0])
			if err != nil {
				return err
			}
			for _, label := range cat.Duplicates() {
				app.Logger().Warn().Str("box", label).Msg("Duplicate box type, keeping the first")
			}
			if err := cat.Save(dest); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d box type(s) to %s\n", emoji.Success, cat.Len(), dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination catalog file (default from config)")
	return cmd
}
