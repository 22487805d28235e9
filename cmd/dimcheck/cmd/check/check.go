// Package check provides the command that reconciles a measurement log.
package check

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck"
	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/internal/cmd/globals"
	"github.com/agentstation/dimcheck/internal/cmd/output"
	"github.com/agentstation/dimcheck/internal/export"
	"github.com/agentstation/dimcheck/internal/ingest"
	"github.com/agentstation/dimcheck/internal/prefs"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/logging"
	"github.com/agentstation/dimcheck/pkg/reconcile"
	"github.com/agentstation/dimcheck/pkg/report"
)

type flags struct {
	selection *globals.SelectionFlags
	all       bool
	labels    bool
	noExport  bool
	outputDir string
	keepZero  bool
}

// NewCommand creates the check command.
func NewCommand(app application.Application) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:     "check <log>",
		GroupID: "core",
		Short:   "Reconcile a measurement log against the catalog",
		Long: `Check reads a semicolon separated dimensioner log, classifies every
measured unit into a box type and compares it with the reference dimensions
in the orientation that fits best.

Units whose box type is outside the selection are reported as unresolved and
do not count towards the success rate. Results are exported to
<output-dir>/<log name>.xlsx unless --no-export is given.`,
		Args: cobra.ExactArgs(1),
		Example: `  dimcheck check line3.log                     # Check against saved selection
  dimcheck check line3.log -b B1,B2 -t 0.3     # Explicit boxes and tolerance
  dimcheck check line3.log --all -o json       # Every row, as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, f, args[0])
		},
	}

	f.selection = globals.AddSelectionFlags(cmd)
	cmd.Flags().BoolVar(&f.all, "all", false, "List every unit, not only failures")
	cmd.Flags().BoolVar(&f.labels, "by-box", false, "Add a per-box breakdown")
	cmd.Flags().BoolVar(&f.noExport, "no-export", false, "Skip the xlsx export")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Directory for the xlsx export (default from config)")
	cmd.Flags().BoolVar(&f.keepZero, "keep-zeroed", false, "Keep rows whose status marks an empty scan")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, f *flags, logPath string) error {
	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithSource(ctx, logPath)
	logger := logging.FromContext(ctx)
	settings := app.Settings()

	units, stats, err := readLog(logPath, f.keepZero)
	if err != nil {
		return err
	}
	logger.Info().Int("rows", stats.Rows).Int("dropped", stats.Dropped).Msg("Read measurement log")

	saved, err := app.Prefs()
	if err != nil {
		logger.Warn().Err(err).Msg("Ignoring unreadable preferences")
		saved = nil
	}
	boxes, tol, err := f.selection.Resolve(saved, settings.Tolerance)
	if err != nil {
		return err
	}

	checker, err := app.Checker(dimcheck.WithTolerance(tol), dimcheck.WithSelection(boxes...))
	if err != nil {
		return err
	}
	checker.OnUnitFailed(func(row report.Row) {
		logger.Debug().Int("unit", row.Index).Str("box", row.Label).Msg("Unit out of tolerance")
	})

	rep, err := checker.Check(ctx, units)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	if err := output.WriteReport(cmd.OutOrStdout(), rep, format, output.ReportOptions{All: f.all, Labels: f.labels}); err != nil {
		return err
	}

	if !f.noExport {
		dir := f.outputDir
		if dir == "" {
			dir = settings.OutputDir
		}
		path := export.OutputPath(dir, logPath)
		sink := export.NewRetryingSink(export.NewXLSXSink(), export.NewLinePrompter(cmd.InOrStdin(), cmd.ErrOrStderr()))
		sink.Logger = logger
		if err := sink.Write(ctx, path, rep); err != nil {
			return err
		}
		if format == output.FormatTable && !globals.Parse(cmd).Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s Saved results to %s\n", emoji.Success, path)
		}
	}

	if f.selection.SavePrefs {
		p := saved
		if p == nil {
			p = &prefs.Prefs{}
		}
		p.Select(boxes...)
		p.Tolerance = &tol
		if err := p.Save(settings.PrefsPath); err != nil {
			return err
		}
		logger.Info().Str("path", settings.PrefsPath).Msg("Saved preferences")
	}
	return nil
}

func readLog(path string, keepZero bool) ([]reconcile.Unit, ingest.Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ingest.Stats{}, errors.WrapIO("open", path, err)
	}
	defer func() { _ = file.Close() }()

	opts := []ingest.Option{ingest.WithSource(path)}
	if keepZero {
		opts = append(opts, ingest.WithZeroedRows())
	}
	return ingest.ReadMeasurementLog(file, opts...)
}
