package reconciler

import (
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/authority"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/provenance"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// Merger resolves one matched pair into the requirement written to the merged
// document.
type Merger interface {
	// Merge returns the merged requirement, or nil when a removed control is
	// not kept.
	Merge(pair Pair, c differ.Classification) *ssp.ImplementedRequirement
}

// merger implements field-ownership merging.
// It's an internal implementation of the Merger interface
type merger struct {
	authorities authority.Authority
	tracker     provenance.Tracker
	now         time.Time
	keepRemoved bool
}

// newMerger creates a merger for one reconciliation run.
func newMerger(o *options, tracker provenance.Tracker, now time.Time) Merger {
	return &merger{
		authorities: o.authorities,
		tracker:     tracker,
		now:         now,
		keepRemoved: o.keepRemoved,
	}
}

// field reads and writes one catalog-owned requirement field.
type field struct {
	get func(r *ssp.ImplementedRequirement) any
	set func(r *ssp.ImplementedRequirement, ctrl *catalogs.Control)
}

// catalogFields maps ownership table paths to requirement fields.
var catalogFields = map[string]field{
	"class": {
		get: func(r *ssp.ImplementedRequirement) any { return r.Class },
		set: func(r *ssp.ImplementedRequirement, c *catalogs.Control) { r.Class = c.Class },
	},
	"title": {
		get: func(r *ssp.ImplementedRequirement) any { return r.Title },
		set: func(r *ssp.ImplementedRequirement, c *catalogs.Control) { r.Title = c.Title },
	},
	"params": {
		get: func(r *ssp.ImplementedRequirement) any { return r.Params },
		set: func(r *ssp.ImplementedRequirement, c *catalogs.Control) { r.Params = catalogs.CloneParams(c.Params) },
	},
	"props": {
		get: func(r *ssp.ImplementedRequirement) any { return r.CatalogProps() },
		set: func(r *ssp.ImplementedRequirement, c *catalogs.Control) {
			// Engine props are not catalog-owned and survive the refresh.
			engine := r.EngineProps()
			r.Props = append(catalogs.CloneProps(c.Props), engine...)
		},
	},
	"parts": {
		get: func(r *ssp.ImplementedRequirement) any { return r.Parts },
		set: func(r *ssp.ImplementedRequirement, c *catalogs.Control) { r.Parts = catalogs.CloneParts(c.Parts) },
	},
	"links": {
		get: func(r *ssp.ImplementedRequirement) any { return r.Links },
		set: func(r *ssp.ImplementedRequirement, c *catalogs.Control) { r.Links = catalogs.CloneLinks(c.Links) },
	},
}

// Merge implements Merger.
func (m *merger) Merge(pair Pair, c differ.Classification) *ssp.ImplementedRequirement {
	switch c.Status {
	case differ.StatusNew:
		return m.seed(pair.Control, c.CurrentFingerprint)
	case differ.StatusChanged, differ.StatusUnchanged:
		return m.refresh(pair.Requirement, pair.Control, c.CurrentFingerprint)
	case differ.StatusRemoved:
		if !m.keepRemoved {
			return nil
		}
		kept := pair.Requirement.Clone()
		m.track(kept.ControlID, "control-id", authority.OwnerDocument, "control removed from catalog; kept verbatim", false)
		return &kept
	default:
		return nil
	}
}

// seed creates a requirement for a control the document has not seen. The
// uuid is left empty; the reconciler assigns uuids in report order so that
// runs with a deterministic generator are reproducible.
func (m *merger) seed(ctrl *catalogs.Control, fp string) *ssp.ImplementedRequirement {
	req := &ssp.ImplementedRequirement{
		ControlID: ctrl.ID,
		Status:    ssp.DefaultStatus,
	}
	m.track(ctrl.ID, "uuid", authority.OwnerEngine, "assigned to new requirement", true)
	m.track(ctrl.ID, "status", authority.OwnerEngine, "initial status", true)

	m.applyCatalog(req, ctrl)
	req.SetFingerprint(fp)
	m.track(ctrl.ID, "props.engine", authority.OwnerEngine, "fingerprint recorded", true)
	return req
}

// refresh rewrites the catalog-owned fields of a prior requirement and leaves
// every other field as the document author wrote it.
func (m *merger) refresh(prior *ssp.ImplementedRequirement, ctrl *catalogs.Control, fp string) *ssp.ImplementedRequirement {
	req := prior.Clone()
	m.applyCatalog(&req, ctrl)

	changed := prior.Fingerprint() != fp
	req.SetFingerprint(fp)
	m.track(ctrl.ID, "props.engine", authority.OwnerEngine, "fingerprint recorded", changed)

	for _, f := range authority.FilterByOwner(m.authorities.List(authority.ResourceRequirement), authority.OwnerDocument) {
		if isPattern(f.Path) {
			continue
		}
		m.track(ctrl.ID, f.Path, authority.OwnerDocument, "document author owns field", false)
	}
	return &req
}

// applyCatalog overwrites every catalog-owned field of req from ctrl, as
// listed by the ownership table.
func (m *merger) applyCatalog(req *ssp.ImplementedRequirement, ctrl *catalogs.Control) {
	for _, f := range authority.FilterByOwner(m.authorities.List(authority.ResourceRequirement), authority.OwnerCatalog) {
		acc, ok := catalogFields[f.Path]
		if !ok {
			continue
		}
		before := acc.get(req)
		acc.set(req, ctrl)
		changed := !cmp.Equal(before, acc.get(req), cmpopts.EquateEmpty())
		m.track(ctrl.ID, f.Path, authority.OwnerCatalog, "catalog is authoritative", changed)
	}
}

func (m *merger) track(controlID, path string, owner authority.Owner, reason string, changed bool) {
	if m.tracker == nil {
		return
	}
	m.tracker.Track(authority.ResourceRequirement, controlID, path, provenance.Provenance{
		Owner:     owner,
		Timestamp: m.now,
		Reason:    reason,
		Changed:   changed,
	})
}

func isPattern(path string) bool {
	return strings.ContainsAny(path, "*?[")
}
