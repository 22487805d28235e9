// Package tune provides the command that grid-searches the rim-plane model.
package tune

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/internal/apu"
	"github.com/agentstation/dimcheck/internal/cmd/application"
	cmdconstants "github.com/agentstation/dimcheck/internal/cmd/constants"
	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/internal/cmd/output"
	"github.com/agentstation/dimcheck/internal/cmd/table"
	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/forest"
)

// Result is what the tune command reports.
type Result struct {
	Path       string             `json:"path" yaml:"path"`
	Rows       int                `json:"rows" yaml:"rows"`
	Best       forest.Params      `json:"best" yaml:"best"`
	BestScore  float64            `json:"best_score" yaml:"best_score"`
	TestMSE    float64            `json:"test_mse" yaml:"test_mse"`
	Results    []forest.CVResult  `json:"results" yaml:"results"`
	Prediction map[string]float64 `json:"prediction" yaml:"prediction"`
}

type flags struct {
	folds       int
	seed        uint64
	concurrency int
	fraction    float64
	dest        string
	estimators  []int
	maxDepth    []int
	minSplit    []int
}

// NewCommand creates the tune command.
func NewCommand(app application.Application) *cobra.Command {
	grid := forest.DefaultGrid()
	f := &flags{}
	cmd := &cobra.Command{
		Use:     "tune [dataset.csv]",
		GroupID: "model",
		Short:   "Grid-search the rim-plane parameter model",
		Long: `Tune fits a random forest that predicts the eight rim-plane parameters
from the per-axis measurement errors. Every grid point is scored by k-fold
cross-validation on the training split; the best one is refitted, scored on
the held-out split and saved.

The dataset defaults to the one appended by the dataset command.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  dimcheck tune                                   # Full grid on the default dataset
  dimcheck tune APU_train.csv --estimators 50 --max-depth 0,10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Settings().DatasetPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = cmdconstants.DefaultDatasetFile
			}
			return run(cmd, app, path, f)
		},
	}

	cmd.Flags().IntVar(&f.folds, "folds", constants.DefaultFolds, "Cross-validation folds")
	cmd.Flags().Uint64Var(&f.seed, "seed", constants.DefaultSeed, "Seed for the split and the forests")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Grid points evaluated at once (default: GOMAXPROCS)")
	cmd.Flags().Float64Var(&f.fraction, "test-fraction", constants.DefaultTestFraction, "Share of rows held out for the final score")
	cmd.Flags().StringVarP(&f.dest, "dest", "d", cmdconstants.DefaultForestFile, "Where to save the tuned model")
	cmd.Flags().IntSliceVar(&f.estimators, "estimators", grid.Estimators, "Candidate tree counts")
	cmd.Flags().IntSliceVar(&f.maxDepth, "max-depth", grid.MaxDepth, "Candidate depth limits (0 for none)")
	cmd.Flags().IntSliceVar(&f.minSplit, "min-split", grid.MinSamplesSplit, "Candidate minimum node sizes")
	return cmd
}

func run(cmd *cobra.Command, app application.Application, path string, f *flags) error {
	logger := app.Logger()

	x, y, err := apu.ReadFile(path)
	if err != nil {
		return err
	}
	xTrain, yTrain, xTest, yTest := forest.Split(x, y, f.fraction, f.seed)
	if len(xTest) == 0 {
		return errors.NewValidationError("test-fraction", f.fraction, "no rows held out for scoring")
	}

	opts := []forest.SearchOption{
		forest.WithFolds(f.folds),
		forest.WithSeed(f.seed),
		forest.WithResultHook(func(r forest.CVResult) {
			logger.Debug().
				Int("estimators", r.Params.Estimators).
				Int("max_depth", r.Params.MaxDepth).
				Int("min_samples_split", r.Params.MinSamplesSplit).
				Float64("mean", r.Mean).
				Msg("Scored grid point")
		}),
	}
	if f.concurrency > 0 {
		opts = append(opts, forest.WithConcurrency(f.concurrency))
	}

	grid := forest.Grid{Estimators: f.estimators, MaxDepth: f.maxDepth, MinSamplesSplit: f.minSplit}
	logger.Info().Int("rows", len(xTrain)).Int("points", len(grid.Combinations())).Msg("Searching")

	search, err := forest.GridSearch(cmd.Context(), xTrain, yTrain, grid, opts...)
	if err != nil {
		return err
	}

	pred, err := search.Model.PredictAll(xTest)
	if err != nil {
		return err
	}
	mse := forest.MSE(yTest, pred)

	model := search.Model
	model.Features = apu.ErrorNames
	model.Targets = apu.ParamNames
	if err := model.SaveFile(f.dest); err != nil {
		return err
	}

	first, err := model.Predict(x[0])
	if err != nil {
		return err
	}

	res := Result{
		Path:       f.dest,
		Rows:       len(x),
		Best:       search.Best,
		BestScore:  search.BestScore,
		TestMSE:    mse,
		Results:    search.Results,
		Prediction: make(map[string]float64, len(first)),
	}
	for i, v := range first {
		res.Prediction[apu.ParamNames[i]] = v
	}

	format := output.DetectFormat(app.OutputFormat())
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), res)
	}
	return printTable(cmd.OutOrStdout(), res, first)
}

func printTable(w io.Writer, res Result, first []float64) error {
	fmt.Fprintf(w, "Best hyperparameters: estimators=%d max_depth=%s min_samples_split=%d\n",
		res.Best.Estimators, table.MaxDepthString(res.Best.MaxDepth), res.Best.MinSamplesSplit)
	fmt.Fprintf(w, "Mean Squared Error with best hyperparameters: %.4f\n\n", res.TestMSE)

	if err := output.NewFormatter(output.FormatTable).Format(w, table.SearchToTableData(res.Results, res.Best)); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nPredicted parameters for the first row:")
	for i, v := range first {
		fmt.Fprintf(w, "%s = %.4f\n", apu.ParamNames[i], v)
		if i%4 == 3 && i+1 < len(first) {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "\n%s Saved model to %s\n", emoji.Success, res.Path)
	return nil
}
