// Package train provides the command that fits the box classifier.
package train

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/internal/cmd/output"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Result is what the train command reports.
type Result struct {
	Path       string                `json:"path" yaml:"path"`
	K          int                   `json:"k" yaml:"k"`
	Samples    int                   `json:"samples" yaml:"samples"`
	Evaluation classifier.Evaluation `json:"evaluation" yaml:"evaluation"`
}

// NewCommand creates the train command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		k        int
		fraction float64
		seed     uint64
		dest     string
	)
	cmd := &cobra.Command{
		Use:     "train <samples.csv>",
		GroupID: "model",
		Short:   "Train the box classifier from labelled measurements",
		Long: `Train fits a k-nearest-neighbour classifier on a CSV with Length, Width,
Height and Box columns. A seeded share of the rows is held out to report
accuracy. The model is saved to the models directory under a timestamped
name, and check uses the newest one unless a model is configured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.Logger()

			f, err := os.Open(args[0])
			if err != nil {
				return errors.WrapIO("open", args[0], err)
			}
			samples, err := classifier.ReadSamplesCSV(f, args[0])
			_ = f.Close()
			if err != nil {
				return err
			}

			model, ev, err := classifier.Train(samples,
				classifier.WithK(k),
				classifier.WithTestFraction(fraction),
				classifier.WithSeed(seed),
			)
			if err != nil {
				return errors.WrapResource("train", "model", "knn", err)
			}

			path := dest
			if path == "" {
				path = filepath.Join(app.Settings().ModelsDir, classifier.ModelFileName(time.Now()))
			}
			if err := model.SaveFile(path); err != nil {
				return err
			}
			logger.Info().Str("path", path).Float64("accuracy", ev.Accuracy).Msg("Saved model")

			res := Result{Path: path, K: model.K(), Samples: len(samples), Evaluation: ev}
			format := output.DetectFormat(app.OutputFormat())
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), res)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s Trained k=%d on %d of %d samples\n", emoji.Success, res.K, ev.TrainSize, len(samples))
			if ev.Evaluated() {
				fmt.Fprintf(w, "Accuracy: %.2f%% (%d of %d held-out samples)\n", ev.Accuracy*100, ev.Correct, ev.TestSize)
			}
			fmt.Fprintf(w, "Saved model to %s\n", path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "neighbors", "k", constants.DefaultNeighbors, "Number of neighbours that vote")
	cmd.Flags().Float64Var(&fraction, "test-fraction", constants.DefaultTestFraction, "Share of samples held out for scoring")
	cmd.Flags().Uint64Var(&seed, "seed", constants.DefaultSeed, "Seed for the train/test split")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Model file (default: timestamped file in the models dir)")
	return cmd
}
