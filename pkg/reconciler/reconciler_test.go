package reconciler_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/logging"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// seqIDs returns a generator yielding id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// newTestReconciler returns a reconciler with a fixed clock and sequential ids.
func newTestReconciler(t *testing.T, opts ...reconciler.Option) reconciler.Reconciler {
	t.Helper()
	base := []reconciler.Option{
		reconciler.WithClock(func() time.Time { return testNow }),
		reconciler.WithIDGenerator(seqIDs()),
	}
	r, err := reconciler.New(append(base, opts...)...)
	require.NoError(t, err)
	return r
}

// baseline reconciles the test catalog from scratch and returns the document.
func baseline(t *testing.T) *ssp.Document {
	t.Helper()
	report, err := newTestReconciler(t).Reconcile(context.Background(), catalogs.NewTestCatalog(), nil)
	require.NoError(t, err)
	return report.Document
}

func requirement(t *testing.T, doc *ssp.Document, controlID string) *ssp.ImplementedRequirement {
	t.Helper()
	req, ok := doc.Requirement(controlID)
	require.True(t, ok, "requirement %s not found", controlID)
	return req
}

func controlIDs(entries []reconciler.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ControlID
	}
	return ids
}

func TestFreshStart(t *testing.T) {
	report, err := newTestReconciler(t).Reconcile(context.Background(), catalogs.NewTestCatalog(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"AC-1", "AC-2", "AC-2(1)", "AU-2", "SC-7"}, controlIDs(report.Entries))
	assert.Equal(t, reconciler.Counts{New: 5, Total: 5}, report.Counts)
	assert.True(t, report.HasChanges())

	doc := report.Document
	require.NotNil(t, doc)
	assert.Equal(t, "id-6", doc.UUID, "document uuid is assigned after requirement uuids")
	require.Len(t, doc.Requirements(), 5)
	for i, req := range doc.Requirements() {
		assert.Equal(t, fmt.Sprintf("id-%d", i+1), req.UUID)
		assert.Equal(t, ssp.StatusNotAssessed, req.Status)
		assert.Len(t, req.Fingerprint(), 71)
	}

	assert.Equal(t, "Test Security and Privacy Controls", doc.Metadata.Title)
	assert.Equal(t, testNow.Format(time.RFC3339), doc.Metadata.LastModified)
	assert.Equal(t, reconciler.VersionUnknown, report.VersionChange.Direction)
}

func TestScenarioChangedControlKeepsUserFields(t *testing.T) {
	prior := baseline(t)
	ac1 := requirement(t, prior, "AC-1")
	ac1.Status = ssp.StatusEffective
	ac1.Description = "Enforced via IAM policy"
	uuid := ac1.UUID

	cat := catalogs.NewTestCatalog()
	cat.Groups[0].Controls[0].Parts[0].Prose = "Develop, document, and disseminate an updated access control policy."

	report, err := newTestReconciler(t).Reconcile(context.Background(), cat, prior)
	require.NoError(t, err)

	entry, ok := report.Entry("AC-1")
	require.True(t, ok)
	assert.Equal(t, differ.StatusChanged, entry.Status)
	assert.Equal(t, differ.MethodFingerprint, entry.Method)
	assert.NotEqual(t, entry.PriorFingerprint, entry.CurrentFingerprint)
	require.NotEmpty(t, entry.Changes)
	assert.Equal(t, "parts[AC-1_smt].prose", entry.Changes[0].Path)

	merged := requirement(t, report.Document, "AC-1")
	assert.Equal(t, ssp.StatusEffective, merged.Status)
	assert.Equal(t, "Enforced via IAM policy", merged.Description)
	assert.Equal(t, uuid, merged.UUID)
	require.NotEmpty(t, merged.Parts)
	assert.Equal(t, cat.Groups[0].Controls[0].Parts[0].Prose, merged.Parts[0].Prose)
	assert.Equal(t, entry.CurrentFingerprint, merged.Fingerprint())

	assert.Equal(t, 1, report.Counts.Changed)
	assert.Equal(t, 4, report.Counts.Unchanged)
}

func TestScenarioNewControl(t *testing.T) {
	prior := baseline(t)
	reqs := prior.ControlImplementation.ImplementedRequirements
	var kept []ssp.ImplementedRequirement
	for _, r := range reqs {
		if r.ControlID != "AU-2" {
			kept = append(kept, r)
		}
	}
	prior.ControlImplementation.ImplementedRequirements = kept

	report, err := newTestReconciler(t).Reconcile(context.Background(), catalogs.NewTestCatalog(), prior)
	require.NoError(t, err)

	entry, ok := report.Entry("AU-2")
	require.True(t, ok)
	assert.Equal(t, differ.StatusNew, entry.Status)
	require.NotNil(t, entry.Merged)
	assert.Equal(t, ssp.StatusNotAssessed, entry.Merged.Status)
	assert.Equal(t, []string{"AC-1", "AC-2", "AC-2(1)", "AU-2", "SC-7"}, controlIDs(report.Entries))
	assert.Equal(t, reconciler.Counts{New: 1, Unchanged: 4, Total: 5}, report.Counts)
}

func TestScenarioRemovedControl(t *testing.T) {
	prior := baseline(t)
	prior.ControlImplementation.ImplementedRequirements = append(prior.ControlImplementation.ImplementedRequirements,
		ssp.ImplementedRequirement{
			UUID:        "sc-99-uuid",
			ControlID:   "SC-99",
			Title:       "Retired Control",
			Status:      ssp.StatusNotImplemented,
			Description: "Never built",
		})

	t.Run("dropped", func(t *testing.T) {
		report, err := newTestReconciler(t).Reconcile(context.Background(), catalogs.NewTestCatalog(), prior)
		require.NoError(t, err)

		last := report.Entries[len(report.Entries)-1]
		assert.Equal(t, "SC-99", last.ControlID)
		assert.Equal(t, differ.StatusRemoved, last.Status)
		assert.Nil(t, last.Merged)
		require.NotNil(t, last.Prior)
		assert.Equal(t, "Never built", last.Prior.Description)

		_, found := report.Document.Requirement("SC-99")
		assert.False(t, found)
		assert.Equal(t, 1, report.Counts.Removed)
		assert.Len(t, report.Document.Requirements(), 5)
	})

	t.Run("kept", func(t *testing.T) {
		report, err := newTestReconciler(t, reconciler.WithKeepRemoved(true)).
			Reconcile(context.Background(), catalogs.NewTestCatalog(), prior)
		require.NoError(t, err)

		last := report.Entries[len(report.Entries)-1]
		assert.Equal(t, differ.StatusRemoved, last.Status)
		require.NotNil(t, last.Merged)
		assert.Equal(t, "sc-99-uuid", last.Merged.UUID)

		reqs := report.Document.Requirements()
		require.Len(t, reqs, 6)
		assert.Equal(t, "SC-99", reqs[5].ControlID)
		assert.Equal(t, "Never built", reqs[5].Description)
	})
}

func TestRequirementWithoutControlID(t *testing.T) {
	prior := baseline(t)
	prior.ControlImplementation.ImplementedRequirements = append(prior.ControlImplementation.ImplementedRequirements,
		ssp.ImplementedRequirement{
			UUID:        "orphan-uuid",
			Status:      ssp.StatusIneffective,
			Description: "Written before the control id was lost",
		})

	t.Run("dropped", func(t *testing.T) {
		report, err := newTestReconciler(t).Reconcile(context.Background(), catalogs.NewTestCatalog(), prior)
		require.NoError(t, err)

		require.Len(t, report.Warnings, 1)
		assert.Equal(t, errors.WarningMissingID, report.Warnings[0].Kind)
		assert.Contains(t, report.Warnings[0].Message, "orphan-uuid")
		assert.Len(t, report.Document.Requirements(), 5)
	})

	t.Run("kept", func(t *testing.T) {
		report, err := newTestReconciler(t, reconciler.WithKeepRemoved(true)).
			Reconcile(context.Background(), catalogs.NewTestCatalog(), prior)
		require.NoError(t, err)

		require.Len(t, report.Warnings, 1)
		assert.Equal(t, errors.WarningMissingID, report.Warnings[0].Kind)
		assert.Len(t, report.Entries, 5, "no report entry without a control id")

		reqs := report.Document.Requirements()
		require.Len(t, reqs, 6)
		assert.Equal(t, "orphan-uuid", reqs[5].UUID)
		assert.Empty(t, reqs[5].ControlID)
		assert.Equal(t, ssp.StatusIneffective, reqs[5].Status)
		assert.Equal(t, "Written before the control id was lost", reqs[5].Description)
	})
}

func TestScenarioIdenticalRefetch(t *testing.T) {
	prior := baseline(t)
	report, err := newTestReconciler(t).Reconcile(context.Background(), catalogs.NewTestCatalog(), prior)
	require.NoError(t, err)

	for _, e := range report.Entries {
		assert.Equal(t, differ.StatusUnchanged, e.Status, e.ControlID)
		assert.Empty(t, e.Changes)
	}
	assert.False(t, report.HasChanges())
	assert.Equal(t, reconciler.VersionSame, report.VersionChange.Direction)
	assert.Contains(t, report.Summary(), "No changes detected")
}

func TestLegacyRequirementWithoutFingerprint(t *testing.T) {
	prior := baseline(t)
	for i := range prior.ControlImplementation.ImplementedRequirements {
		r := &prior.ControlImplementation.ImplementedRequirements[i]
		r.Props = r.CatalogProps()
	}

	report, err := newTestReconciler(t).Reconcile(context.Background(), catalogs.NewTestCatalog(), prior)
	require.NoError(t, err)
	for _, e := range report.Entries {
		assert.Equal(t, differ.StatusUnchanged, e.Status, e.ControlID)
		assert.Equal(t, differ.MethodStructural, e.Method)
		assert.NotEmpty(t, e.Merged.Fingerprint(), "fingerprint is written on merge")
	}
}

func TestInputsAreNotMutated(t *testing.T) {
	prior := baseline(t)
	priorCopy := prior.Clone()
	cat := catalogs.NewTestCatalog()
	cat.Groups[0].Controls[0].Title = "Renamed"

	_, err := newTestReconciler(t, reconciler.WithKeepRemoved(true)).Reconcile(context.Background(), cat, prior)
	require.NoError(t, err)

	assert.Equal(t, priorCopy, prior)
	assert.Equal(t, "Renamed", cat.Groups[0].Controls[0].Title)
	assert.Equal(t, catalogs.NewTestCatalog().Groups[1], cat.Groups[1])
}

func TestMalformedCatalog(t *testing.T) {
	r := newTestReconciler(t)

	_, err := r.Reconcile(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsMalformedCatalog(err))

	_, err = r.Reconcile(context.Background(), &catalogs.Catalog{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMalformedCatalog)

	// Controls without ids are skipped; nothing usable remains.
	_, err = r.Reconcile(context.Background(), &catalogs.Catalog{Controls: []catalogs.Control{{Title: "no id"}}}, nil)
	assert.ErrorIs(t, err, errors.ErrMalformedCatalog)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestReconciler(t).Reconcile(ctx, catalogs.NewTestCatalog(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWarningsAreReportedAndLogged(t *testing.T) {
	cat := catalogs.NewTestCatalog()
	cat.Groups[2].Controls = append(cat.Groups[2].Controls,
		catalogs.NewTestControl("AC-1", "Duplicate", "Duplicate."),
		catalogs.Control{Title: "Missing id"},
	)
	prior := baseline(t)
	dup := requirement(t, prior, "AU-2").Clone()
	dup.UUID = "dup-au-2"
	prior.ControlImplementation.ImplementedRequirements = append(prior.ControlImplementation.ImplementedRequirements, dup)

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	report, err := newTestReconciler(t).Reconcile(ctx, cat, prior)
	require.NoError(t, err)

	kinds := make([]errors.WarningKind, len(report.Warnings))
	for i, w := range report.Warnings {
		kinds[i] = w.Kind
	}
	assert.Equal(t, []errors.WarningKind{
		errors.WarningDuplicateID,
		errors.WarningMissingID,
		errors.WarningAmbiguousMatch,
	}, kinds)
	assert.Contains(t, report.Warnings[2].Message, "dup-au-2")
	assert.True(t, report.HasWarnings())
	assert.Contains(t, report.Summary(), "3 warnings")

	tl.AssertContains(t, "ambiguous-match")
	tl.AssertContains(t, "duplicate-id")
	tl.AssertContains(t, "Reconciliation complete")

	// The first AC-1 wins and the duplicate requirement is not written.
	assert.Len(t, report.Document.Requirements(), 5)
	assert.Equal(t, "Policy and Procedures", requirement(t, report.Document, "AC-1").Title)
}

func TestDuplicateStatementIsReported(t *testing.T) {
	cat := catalogs.NewTestCatalog()
	ac1 := &cat.Groups[0].Controls[0]
	ac1.Parts = append(ac1.Parts, catalogs.Part{Name: constants.StatementPartName, Prose: "A second statement."})

	report, err := newTestReconciler(t).Reconcile(context.Background(), cat, nil)
	require.NoError(t, err)

	require.Len(t, report.Warnings, 1)
	w := report.Warnings[0]
	assert.Equal(t, errors.WarningDuplicateStatement, w.Kind)
	assert.Equal(t, "AC-1", w.ControlID)
	assert.Equal(t, "groups[0].controls[0]", w.Path)

	// The control is still reconciled with its full part list.
	assert.Equal(t, 5, report.Counts.Total)
	assert.Len(t, requirement(t, report.Document, "AC-1").Parts, 3)
}

func TestProvenance(t *testing.T) {
	prior := baseline(t)
	cat := catalogs.NewTestCatalog()
	cat.Groups[0].Controls[0].Title = "Policy, Procedures and Plans"

	report, err := newTestReconciler(t).Reconcile(context.Background(), cat, prior)
	require.NoError(t, err)

	title := report.Provenance["requirement:AC-1:title"]
	require.Len(t, title, 1)
	assert.Equal(t, "catalog", string(title[0].Owner))
	assert.True(t, title[0].Changed)
	assert.Equal(t, testNow, title[0].Timestamp)

	status := report.Provenance["requirement:AC-1:status"]
	require.Len(t, status, 1)
	assert.Equal(t, "document", string(status[0].Owner))
	assert.False(t, status[0].Changed)

	assert.False(t, report.Provenance["requirement:AU-2:title"][0].Changed)
	assert.Equal(t, "engine", string(report.Provenance["metadata:metadata:last-modified"][0].Owner))

	off, err := newTestReconciler(t, reconciler.WithProvenance(false)).Reconcile(context.Background(), cat, prior)
	require.NoError(t, err)
	assert.Nil(t, off.Provenance)
}

func TestUnknownKeysSurviveMerge(t *testing.T) {
	data := []byte(`{
		"system-security-plan": {
			"uuid": "doc-1",
			"metadata": {"title": "Plan", "version": "5.0.0", "x-owner": "team-a"},
			"control-implementation": {
				"implemented-requirements": [
					{"uuid": "r-1", "control-id": "AC-1", "status": "effective",
					 "set-parameters": [{"param-id": "AC-1_prm_1", "values": ["CISO"]}]}
				]
			}
		}
	}`)
	prior, err := ssp.Parse(data, catalogs.FormatJSON, "inline")
	require.NoError(t, err)

	report, err := newTestReconciler(t).Reconcile(context.Background(), catalogs.NewTestCatalog(), prior)
	require.NoError(t, err)

	out, err := ssp.Marshal(report.Document, catalogs.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"set-parameters"`)
	assert.Contains(t, string(out), `"x-owner"`)
	assert.Contains(t, string(out), constants.FingerprintPropName)
	assert.Equal(t, reconciler.VersionUpgrade, report.VersionChange.Direction)
	assert.Equal(t, "Plan", report.Metadata.Title)
}

func TestDigestIsDeterministic(t *testing.T) {
	prior := baseline(t)
	cat := catalogs.NewTestCatalog()
	cat.Groups[1].Controls[0].Parts[0].Prose = "Log everything."

	var digests []string
	for _, n := range []int{1, 4, 16} {
		report, err := newTestReconciler(t, reconciler.WithConcurrency(n), reconciler.WithKeepRemoved(true)).
			Reconcile(context.Background(), cat, prior)
		require.NoError(t, err)
		d, err := report.Digest()
		require.NoError(t, err)
		assert.Len(t, d, 71)
		digests = append(digests, d)
	}
	assert.Equal(t, digests[0], digests[1])
	assert.Equal(t, digests[0], digests[2])
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  reconciler.Option
	}{
		{"negative concurrency", reconciler.WithConcurrency(-1)},
		{"nil clock", reconciler.WithClock(nil)},
		{"nil id generator", reconciler.WithIDGenerator(nil)},
		{"nil authorities", reconciler.WithAuthorities(nil)},
		{"nil differ", reconciler.WithDiffer(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconciler.New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}

	_, err := reconciler.New(reconciler.WithConcurrency(0))
	assert.NoError(t, err)
}

func TestFilterAndCounts(t *testing.T) {
	prior := baseline(t)
	cat := catalogs.NewTestCatalog()
	cat.Groups[2].Controls[0].Title = "Boundary Defence"

	report, err := newTestReconciler(t).Reconcile(context.Background(), cat, prior)
	require.NoError(t, err)

	changed := report.Filter(differ.StatusChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, "SC-7", changed[0].ControlID)
	assert.Equal(t, 1, report.Counts.Of(differ.StatusChanged))
	assert.Equal(t, 4, report.Counts.Of(differ.StatusUnchanged))
	assert.Equal(t, 5, report.Counts.Total)
	assert.Equal(t, 0, report.Counts.Of(differ.Status("bogus")))
}
