package globals

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dimcheck/internal/prefs"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// SelectionFlags choose which box types a run checks and how strictly.
type SelectionFlags struct {
	Boxes     []string
	Tolerance string
	SavePrefs bool
}

// AddSelectionFlags adds --boxes, --tolerance and --save-prefs to a command.
func AddSelectionFlags(cmd *cobra.Command) *SelectionFlags {
	flags := &SelectionFlags{}

	cmd.Flags().StringSliceVarP(&flags.Boxes, "boxes", "b", nil,
		"Box types to check (default: saved selection, else all)")
	cmd.Flags().StringVarP(&flags.Tolerance, "tolerance", "t", "",
		"Tolerance as one value or length,width,height (default: saved, else config)")
	cmd.Flags().BoolVar(&flags.SavePrefs, "save-prefs", false,
		"Save the effective selection and tolerance for later runs")

	return flags
}

// Resolve returns the effective selection and tolerance. Flags win over
// saved prefs, which win over the configured tolerance.
func (f *SelectionFlags) Resolve(saved *prefs.Prefs, fallback tolerance.Tolerance) ([]string, tolerance.Tolerance, error) {
	boxes := f.Boxes
	if len(boxes) == 0 && saved != nil {
		boxes = saved.SelectedBoxes
	}

	tol := fallback
	if saved != nil && saved.Tolerance != nil {
		tol = *saved.Tolerance
	}
	if f.Tolerance != "" {
		parsed, err := tolerance.Parse(f.Tolerance)
		if err != nil {
			return nil, tolerance.Tolerance{}, err
		}
		tol = parsed
	}
	return boxes, tol, nil
}
