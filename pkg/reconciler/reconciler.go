// Package reconciler merges a freshly fetched security catalog into an existing
// system security plan. It flattens the catalog, matches controls to the
// plan's implemented requirements, classifies each pair, and rewrites the
// catalog-owned fields while leaving everything the plan's author wrote alone.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/authority"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/logging"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/provenance"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// Reconciler merges a catalog into a prior document.
type Reconciler interface {
	// Reconcile merges cat into prior. A nil prior document is a fresh start
	// and every control is reported as new. Neither input is modified.
	//
	// The only error is a catalog that yields no usable controls
	// (errors.ErrMalformedCatalog) or a canceled context.
	Reconcile(ctx context.Context, cat *catalogs.Catalog, prior *ssp.Document) (*Report, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	options *options
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{options: options}, nil
}

// reconcileContext holds shared state for one run.
type reconcileContext struct {
	logger    *zerolog.Logger
	tracker   provenance.Tracker
	merger    Merger
	now       time.Time
	startTime time.Time
	warnings  []errors.Warning
}

// outcome is the per-pair result of the fan-out stage.
type outcome struct {
	class  differ.Classification
	merged *ssp.ImplementedRequirement
}

// Reconcile performs reconciliation step by step.
func (r *reconciler) Reconcile(ctx context.Context, cat *catalogs.Catalog, prior *ssp.Document) (*Report, error) {
	// Step 1: Initialize context and validate
	rctx, err := r.initialize(ctx, cat, prior)
	if err != nil {
		return nil, err
	}

	// Step 2: Flatten the catalog
	controls, warnings := catalogs.Flatten(cat)
	rctx.warnings = append(rctx.warnings, warnings...)
	if len(controls) == 0 {
		return nil, errors.NewMalformedCatalogError("catalog", "catalog contains no usable controls", nil)
	}
	rctx.logger.Debug().
		Int("control_count", len(controls)).
		Int("warning_count", len(warnings)).
		Msg("Flattened catalog")

	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}

	// Step 3: Match controls to prior requirements
	pairs, warnings := Match(controls, prior.Requirements())
	rctx.warnings = append(rctx.warnings, warnings...)

	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}

	// Step 4: Classify and merge each pair
	outcomes := r.resolve(rctx, pairs)

	// Step 5: Build the merged document and report
	report := r.report(rctx, cat, prior, pairs, outcomes)
	report.Stats.Controls = len(controls)
	report.Stats.Prior = len(prior.Requirements())

	// Step 6: Surface warnings
	for _, w := range report.Warnings {
		rctx.logger.Warn().
			Str("kind", string(w.Kind)).
			Str("control_id", w.ControlID).
			Str("path", w.Path).
			Msg(w.Message)
	}

	rctx.logger.Info().
		Int("new", report.Counts.New).
		Int("changed", report.Counts.Changed).
		Int("unchanged", report.Counts.Unchanged).
		Int("removed", report.Counts.Removed).
		Int("warnings", len(report.Warnings)).
		Dur("duration", report.Stats.Duration).
		Msg("Reconciliation complete")

	return report, nil
}

// initialize sets up the run context.
func (r *reconciler) initialize(ctx context.Context, cat *catalogs.Catalog, prior *ssp.Document) (*reconcileContext, error) {
	if cat == nil {
		return nil, errors.NewMalformedCatalogError("catalog", "catalog is nil", nil)
	}
	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}

	ctx = logging.WithCatalog(ctx, cat.Metadata.Title, cat.Metadata.Version)
	if prior != nil {
		ctx = logging.WithDocument(ctx, prior.UUID)
	}
	logger := logging.FromContext(ctx)

	now := r.options.clock()
	tracker := provenance.NewTracker(r.options.tracking)

	logger.Debug().
		Bool("fresh_start", prior == nil).
		Bool("keep_removed", r.options.keepRemoved).
		Int("concurrency", r.options.concurrency).
		Msg("Starting reconciliation")

	return &reconcileContext{
		logger:    logger,
		tracker:   tracker,
		merger:    newMerger(r.options, tracker, now),
		now:       now,
		startTime: time.Now(),
	}, nil
}

// resolve classifies and merges every pair on a bounded pool. Results are
// slotted by index, so their order matches pairs.
func (r *reconciler) resolve(rctx *reconcileContext, pairs []Pair) []outcome {
	mapper := iter.Mapper[Pair, outcome]{MaxGoroutines: r.options.concurrency}
	return mapper.Map(pairs, func(p *Pair) outcome {
		c := r.options.differ.Classify(p.Control, p.Requirement)
		return outcome{
			class:  c,
			merged: rctx.merger.Merge(*p, c),
		}
	})
}

// report assembles the merged document and the report.
func (r *reconciler) report(rctx *reconcileContext, cat *catalogs.Catalog, prior *ssp.Document, pairs []Pair, outcomes []outcome) *Report {
	report := &Report{
		Entries: make([]Entry, 0, len(pairs)),
	}

	var reqs []ssp.ImplementedRequirement
	for i, p := range pairs {
		o := outcomes[i]
		entry := Entry{
			ControlID:          p.ControlID(),
			Status:             o.class.Status,
			Method:             o.class.Method,
			Merged:             o.merged,
			Prior:              p.Requirement,
			PriorFingerprint:   o.class.PriorFingerprint,
			CurrentFingerprint: o.class.CurrentFingerprint,
		}
		if o.class.Status == differ.StatusChanged {
			entry.Changes = r.options.differ.Changes(p.Requirement, p.Control)
		}
		if o.class.Status == differ.StatusNew {
			o.merged.UUID = r.options.newID()
		}
		if o.merged != nil {
			reqs = append(reqs, *o.merged)
		}
		report.Entries = append(report.Entries, entry)
		report.Counts.Add(entry.Status)
	}

	// Requirements without a control id match nothing. When removed
	// requirements are kept they are carried through unchanged, after the rest.
	if r.options.keepRemoved {
		for _, req := range prior.Requirements() {
			if req.ControlID == "" {
				reqs = append(reqs, req.Clone())
			}
		}
	}

	var priorMeta *catalogs.Metadata
	if prior != nil {
		priorMeta = &prior.Metadata
	}
	report.Metadata, report.VersionChange = PreserveMetadata(cat.Metadata, priorMeta, rctx.now)
	r.trackMetadata(rctx)

	doc := prior.Clone()
	if doc == nil {
		doc = &ssp.Document{UUID: r.options.newID()}
	}
	doc.Metadata = report.Metadata.Clone()
	if reqs == nil {
		reqs = []ssp.ImplementedRequirement{}
	}
	doc.ControlImplementation.ImplementedRequirements = reqs
	report.Document = doc

	report.Warnings = rctx.warnings
	report.Provenance = rctx.tracker.Map()
	report.Stats.StartTime = rctx.startTime
	report.Stats.Duration = time.Since(rctx.startTime)
	report.Stats.Concurrency = r.options.concurrency
	return report
}

// trackMetadata records the owner of every metadata field.
func (r *reconciler) trackMetadata(rctx *reconcileContext) {
	for _, f := range r.options.authorities.List(authority.ResourceMetadata) {
		if isPattern(f.Path) {
			continue
		}
		rctx.tracker.Track(authority.ResourceMetadata, "metadata", f.Path, provenance.Provenance{
			Owner:     f.Owner,
			Timestamp: rctx.now,
			Reason:    fmt.Sprintf("%s owns metadata field", f.Owner),
			Changed:   f.Owner == authority.OwnerEngine,
		})
	}
}

// checkCanceled reports a canceled context as errors.ErrCanceled.
func checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}
	return nil
}
