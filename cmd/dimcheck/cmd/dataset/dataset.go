// Package dataset provides the command that grows the rim-plane training set.
package dataset

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/internal/apu"
	"github.com/agentstation/dimcheck/internal/cmd/application"
	cmdconstants "github.com/agentstation/dimcheck/internal/cmd/constants"
	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/internal/cmd/output"
	"github.com/agentstation/dimcheck/internal/ingest"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Result is what the dataset command reports.
type Result struct {
	Path    string `json:"path" yaml:"path"`
	Records int    `json:"records" yaml:"records"`
	Rows    int    `json:"rows" yaml:"rows"`
	Skipped int    `json:"skipped" yaml:"skipped"`
}

// NewCommand creates the dataset command.
func NewCommand(app application.Application) *cobra.Command {
	var dest string
	cmd := &cobra.Command{
		Use:     "dataset <sorter-log>",
		GroupID: "model",
		Short:   "Append sorter results to the rim-plane dataset",
		Long: `Dataset extracts the latest VMS result per ID from a sorter log, classifies
each unit and appends it to the training dataset together with the current
rim-plane calibration and the per-axis error against the catalog.

Units classified into a box that is not in the catalog are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.Logger()
			if dest == "" {
				dest = app.Settings().DatasetPath
			}
			if dest == "" {
				dest = cmdconstants.DefaultDatasetFile
			}

			f, err := os.Open(args[0])
			if err != nil {
				return errors.WrapIO("open", args[0], err)
			}
			records, err := ingest.ParseVMSLog(f)
			_ = f.Close()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return errors.NewValidationError("log", args[0], "no VMS results found")
			}

			cat, err := app.Catalog()
			if err != nil {
				return err
			}
			c, err := app.Classifier()
			if err != nil {
				return err
			}
			if c == nil {
				logger.Debug().Msg("No trained model, classifying by nearest catalog box")
				if c, err = classifier.NewNearest(cat); err != nil {
					return err
				}
			}

			rows, skipped, err := apu.Build(records, cat, c, apu.DefaultRimPlanes())
			if err != nil {
				return err
			}
			if err := apu.AppendFile(dest, rows); err != nil {
				return err
			}
			logger.Info().Int("rows", len(rows)).Int("skipped", skipped).Str("path", dest).Msg("Appended dataset rows")

			res := Result{Path: dest, Records: len(records), Rows: len(rows), Skipped: skipped}
			format := output.DetectFormat(app.OutputFormat())
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), res)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s Appended %d of %d record(s) to %s\n", emoji.Success, res.Rows, res.Records, dest)
			if skipped > 0 {
				fmt.Fprintf(w, "%s Skipped %d record(s) with no catalog box\n", emoji.Warning, skipped)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Dataset file (default from config)")
	return cmd
}
