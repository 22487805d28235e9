// Package combine provides the command that merges several measurement logs.
package combine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/internal/ingest"
	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// NewCommand creates the combine command.
func NewCommand(app application.Application) *cobra.Command {
	var dest string
	cmd := &cobra.Command{
		Use:     "combine <log>...",
		GroupID: "core",
		Short:   "Merge measurement logs into one",
		Long: `Combine concatenates logs that share a header into a single semicolon
separated log. The result is written next to the inputs when they share a
directory, otherwise under ./output, unless --dest is given.`,
		Args: cobra.MinimumNArgs(1),
		Example: `  dimcheck combine day1.log day2.log               # Writes dims.log next to the inputs
  dimcheck combine a/x.log b/y.log -d all.log      # Explicit destination`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.Logger()
			if dest == "" {
				dest = ingest.CombinedPath(constants.DefaultCombinedLog, args...)
			}

			sources := make([]ingest.Source, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return errors.WrapIO("open", path, err)
				}
				defer func() { _ = f.Close() }()
				sources = append(sources, ingest.Source{Name: path, Reader: f})
			}

			if err := os.MkdirAll(filepath.Dir(dest), constants.DirPermissions); err != nil {
				return errors.WrapIO("create", filepath.Dir(dest), err)
			}
			out, err := os.Create(dest)
			if err != nil {
				return errors.WrapIO("create", dest, err)
			}
			rows, err := ingest.Combine(out, sources...)
			if cerr := out.Close(); err == nil {
				err = errors.WrapIO("close", dest, cerr)
			}
			if err != nil {
				_ = os.Remove(dest)
				return err
			}

			logger.Info().Int("logs", len(args)).Int("rows", rows).Str("path", dest).Msg("Combined logs")
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %d rows from %d log(s) to %s\n", emoji.Success, rows, len(args), dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination file (default: dims.log next to the inputs)")
	return cmd
}
