// Package dimcheck reconciles measured box dimensions against a catalog of
// certified box types.
//
// Each measured unit is classified into a box type, aligned against the
// reference dimensions in whichever orientation fits best, and checked
// against a per-axis tolerance. The result is a report with one row per unit
// and run-level aggregates.
//
// Example:
//
//	checker, err := dimcheck.New(
//	    dimcheck.WithCatalogFile("boxes.yaml"),
//	    dimcheck.WithModelFile("knn.yaml"),
//	    dimcheck.WithSelection("B1", "B2"),
//	)
//	if err != nil {
//	    return err
//	}
//	checker.OnUnitFailed(func(row report.Row) {
//	    log.Printf("unit %d out of tolerance", row.Index)
//	})
//	rep, err := checker.Check(ctx, units)
package dimcheck

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/reconcile"
	"github.com/agentstation/dimcheck/pkg/report"
)

// Checker reconciles batches of measured units and fires hooks on the results.
type Checker interface {
	// Check reconciles units and builds a report.
	Check(ctx context.Context, units []reconcile.Unit) (*report.Report, error)

	// Catalog returns the full reference catalog.
	Catalog() *catalogs.Catalog

	// Classifier returns the classifier in use.
	Classifier() classifier.Classifier

	// OnUnitFailed registers a callback for units outside tolerance
	OnUnitFailed(UnitFailedHook)

	// OnUnitUnresolved registers a callback for unresolved units
	OnUnitUnresolved(UnitUnresolvedHook)

	// OnRunComplete registers a callback for finished runs
	OnRunComplete(RunCompleteHook)
}

type checker struct {
	*hooks
	catalog    *catalogs.Catalog
	classifier classifier.Classifier
	reconciler reconcile.Reconciler
	logger     *zerolog.Logger
}

// New creates a Checker. A catalog is required; the classifier defaults to
// nearest-reference matching over that catalog.
func New(opts ...Option) (Checker, error) {
	cfg, err := defaultConfig().apply(opts...)
	if err != nil {
		return nil, err
	}

	cat := cfg.catalog
	if cat == nil && cfg.catalogPath != "" {
		if cat, err = catalogs.LoadFile(cfg.catalogPath); err != nil {
			return nil, err
		}
	}
	if cat == nil {
		return nil, errors.NewConfigError("catalog", "no reference catalog configured", nil)
	}
	for _, dup := range cat.Duplicates() {
		cfg.logger.Warn().Str("box", dup).Msg("Duplicate box type ignored, keeping first definition")
	}

	cl := cfg.classifier
	if cl == nil && cfg.modelPath != "" {
		if cl, err = classifier.LoadFile(cfg.modelPath); err != nil {
			return nil, err
		}
	}
	if cl == nil {
		cfg.logger.Debug().Msg("No trained model configured, classifying by nearest reference box")
		if cl, err = classifier.NewNearest(cat); err != nil {
			return nil, err
		}
	}

	rec, err := reconcile.New(cat, cl,
		reconcile.WithTolerance(cfg.tolerance),
		reconcile.WithSelection(cfg.selection...),
		reconcile.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	return &checker{
		hooks:      newHooks(),
		catalog:    cat,
		classifier: cl,
		reconciler: rec,
		logger:     cfg.logger,
	}, nil
}

// Check implements Checker.
func (c *checker) Check(ctx context.Context, units []reconcile.Unit) (*report.Report, error) {
	res, err := c.reconciler.Run(ctx, units)
	if err != nil {
		return nil, err
	}
	rep := report.FromResult(res)

	c.logger.Info().
		Int("units", rep.Summary.Units).
		Int("failed", rep.Summary.Failed).
		Int("unresolved", rep.Summary.Unresolved).
		Str("success_rate", rep.Summary.SuccessRate.String()).
		Msg("Reconciliation complete")

	c.trigger(rep)
	return rep, nil
}

// Catalog implements Checker.
func (c *checker) Catalog() *catalogs.Catalog { return c.catalog }

// Classifier implements Checker.
func (c *checker) Classifier() classifier.Classifier { return c.classifier }
