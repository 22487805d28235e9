// Package prefs provides the commands that show and edit saved preferences.
package prefs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/internal/cmd/output"
	userprefs "github.com/agentstation/dimcheck/internal/prefs"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// NewCommand creates the prefs command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefs",
		GroupID: "management",
		Short:   "Show or change the saved box selection and tolerance",
	}
	cmd.AddCommand(newShowCommand(app), newSetCommand(app), newClearCommand(app))
	return cmd
}

func newShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.Prefs()
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), p)
			}
			printPrefs(cmd.OutOrStdout(), p, app.Settings())
			return nil
		},
	}
}

func printPrefs(w io.Writer, p *userprefs.Prefs, settings application.Settings) {
	boxes := "all"
	if len(p.SelectedBoxes) > 0 {
		boxes = strings.Join(p.SelectedBoxes, ", ")
	}
	tol := settings.Tolerance.String() + " (config)"
	if p.Tolerance != nil {
		tol = p.Tolerance.String()
	}
	fmt.Fprintf(w, "Boxes:     %s\n", boxes)
	fmt.Fprintf(w, "Tolerance: %s\n", tol)
	if settings.PrefsPath != "" {
		fmt.Fprintf(w, "File:      %s\n", settings.PrefsPath)
	}
}

func newSetCommand(app application.Application) *cobra.Command {
	var (
		boxes []string
		tol   string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save a box selection and/or tolerance",
		Args:  cobra.NoArgs,
		Example: `  dimcheck prefs set -b B1,B2
  dimcheck prefs set -t 0.3
  dimcheck prefs set -t 0.2,0.2,0.4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("boxes") && !cmd.Flags().Changed("tolerance") {
				return errors.NewValidationError("flags", nil, "pass --boxes and/or --tolerance")
			}
			p, err := app.Prefs()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("boxes") {
				p.Select(boxes...)
				warnUnknown(app, p.SelectedBoxes)
			}
			if cmd.Flags().Changed("tolerance") {
				parsed, err := tolerance.Parse(tol)
				if err != nil {
					return err
				}
				p.Tolerance = &parsed
			}

			settings := app.Settings()
			if err := p.Save(settings.PrefsPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved preferences\n", emoji.Success)
			printPrefs(cmd.OutOrStdout(), p, settings)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&boxes, "boxes", "b", nil, "Box types to check (empty for all)")
	cmd.Flags().StringVarP(&tol, "tolerance", "t", "", "Tolerance as one value or length,width,height")
	return cmd
}

func warnUnknown(app application.Application, labels []string) {
	cat, err := app.Catalog()
	if err != nil {
		return
	}
	for _, l := range labels {
		if _, ok := cat.Get(l); !ok {
			app.Logger().Warn().Str("box", l).Msg("Box type not in catalog")
		}
	}
}

func newClearCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := app.Settings().PrefsPath
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return errors.WrapIO("remove", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared preferences\n", emoji.Success)
			return nil
		},
	}
}
