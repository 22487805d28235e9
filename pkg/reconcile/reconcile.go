// Package reconcile runs the reconciliation pipeline: classify each measured
// unit, look its label up in the selected catalog, align the measurement to
// the reference and evaluate the deltas against the tolerance.
//
// Units are independent. A label missing from the selection marks that unit
// unresolved and the run continues; a unit whose dimensions cannot be
// classified stops the run with a validation error.
package reconcile

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/dimcheck/pkg/align"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// Reconciler reconciles measured units against a reference catalog.
type Reconciler interface {
	// Run reconciles units in order and returns one outcome per unit.
	Run(ctx context.Context, units []Unit) (*Result, error)
}

type reconciler struct {
	catalog    catalogs.Reader
	classifier classifier.Classifier
	tolerance  tolerance.Tolerance
	selection  []string
	missing    []string
	logger     *zerolog.Logger
}

// New creates a Reconciler over a catalog and classifier.
func New(catalog *catalogs.Catalog, c classifier.Classifier, opts ...Option) (Reconciler, error) {
	if catalog == nil {
		return nil, &errors.ValidationError{Field: "catalog", Message: "cannot be nil"}
	}
	if c == nil {
		return nil, &errors.ValidationError{Field: "classifier", Message: "cannot be nil"}
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	selected, missing := catalog.Select(o.selection...)
	if len(missing) > 0 {
		o.logger.Warn().Strs("labels", missing).Msg("Selected box types are not in the catalog")
	}

	return &reconciler{
		catalog:    selected,
		classifier: c,
		tolerance:  o.tolerance,
		selection:  selected.Labels(),
		missing:    missing,
		logger:     o.logger,
	}, nil
}

// Run implements Reconciler.
func (r *reconciler) Run(ctx context.Context, units []Unit) (*Result, error) {
	start := time.Now()
	outcomes := make([]Outcome, 0, len(units))

	for i, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}
		u.Seq = i
		o, err := r.reconcileUnit(u)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}

	end := time.Now()
	res := &Result{
		Outcomes: outcomes,
		Metadata: Metadata{
			StartTime: start,
			EndTime:   end,
			Duration:  end.Sub(start),
			Selection: r.selection,
			Missing:   r.missing,
			Tolerance: r.tolerance,
		},
	}
	r.logger.Debug().
		Int("units", len(outcomes)).
		Dur("duration", res.Metadata.Duration).
		Msg("Reconciliation run complete")
	return res, nil
}

func (r *reconciler) reconcileUnit(u Unit) (Outcome, error) {
	label, err := r.classifier.Classify(u.Dims)
	if err != nil {
		if errors.IsValidationError(err) {
			return Outcome{}, &errors.ValidationError{
				Field:   "unit " + strconv.Itoa(u.Index),
				Value:   u.Dims,
				Message: err.Error(),
				Err:     err,
			}
		}
		return Outcome{}, errors.WrapResource("classify", "unit", strconv.Itoa(u.Index), err)
	}

	o := Outcome{Unit: u, Label: label}
	box, ok := r.catalog.Get(label)
	if !ok {
		o.Status = StatusUnresolved
		r.logger.Debug().Int("unit", u.Index).Str("box", label).Msg("Box type not in selection")
		return o, nil
	}

	ref := box.Dims()
	o.Reference = &ref
	o.Alignment = align.Align(u.Dims, ref)
	o.Verdict = tolerance.Evaluate(o.Alignment.Delta, r.tolerance)
	o.Status = StatusFail
	if o.Verdict.Pass {
		o.Status = StatusPass
	}
	return o, nil
}
