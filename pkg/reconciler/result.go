package reconciler

import (
	"fmt"
	"strings"
	"time"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/fingerprint"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/provenance"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// Entry is the outcome for one control.
type Entry struct {
	ControlID          string                      `json:"control_id"`
	Status             differ.Status               `json:"status"`
	Method             differ.Method               `json:"method,omitempty"`
	Merged             *ssp.ImplementedRequirement `json:"merged"`          // nil when removed and not kept
	Prior              *ssp.ImplementedRequirement `json:"prior,omitempty"` // as read from the prior document
	PriorFingerprint   string                      `json:"prior_fingerprint,omitempty"`
	CurrentFingerprint string                      `json:"current_fingerprint,omitempty"`
	Changes            []differ.FieldChange        `json:"changes,omitempty"`
}

// Counts tallies entries per status.
type Counts struct {
	New       int `json:"new"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
	Total     int `json:"total"`
}

// Add counts one entry.
func (c *Counts) Add(s differ.Status) {
	switch s {
	case differ.StatusNew:
		c.New++
	case differ.StatusChanged:
		c.Changed++
	case differ.StatusUnchanged:
		c.Unchanged++
	case differ.StatusRemoved:
		c.Removed++
	}
	c.Total++
}

// Of returns the count for one status.
func (c Counts) Of(s differ.Status) int {
	switch s {
	case differ.StatusNew:
		return c.New
	case differ.StatusChanged:
		return c.Changed
	case differ.StatusUnchanged:
		return c.Unchanged
	case differ.StatusRemoved:
		return c.Removed
	default:
		return 0
	}
}

// Report is the outcome of a reconciliation run.
type Report struct {
	// Entries in catalog order, then removed controls in prior document order.
	Entries []Entry `json:"entries"`
	Counts  Counts  `json:"counts"`

	// Metadata is the preserved metadata block, also set on Document.
	Metadata      catalogs.Metadata `json:"metadata"`
	Document      *ssp.Document     `json:"document"`
	VersionChange VersionChange     `json:"version_change"`

	Warnings   []errors.Warning `json:"warnings,omitempty"`
	Provenance provenance.Map   `json:"provenance,omitempty"`

	// Stats describe the run itself and are not part of the digest.
	Stats Stats `json:"-"`
}

// Stats contains statistics about the reconciliation run.
type Stats struct {
	StartTime   time.Time
	Duration    time.Duration
	Controls    int
	Prior       int
	Concurrency int
}

// HasChanges returns true if the catalog differs from what the prior
// document recorded.
func (r *Report) HasChanges() bool {
	return r.Counts.New+r.Counts.Changed+r.Counts.Removed > 0
}

// HasWarnings returns true if any warnings were recorded.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Filter returns the entries with the given status, in report order.
func (r *Report) Filter(status differ.Status) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Entry returns the entry for controlID.
func (r *Report) Entry(controlID string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.ControlID == controlID {
			return e, true
		}
	}
	return Entry{}, false
}

// Digest returns "sha256:<hex>" over the canonical JSON of the report.
// Two runs over the same inputs with the same clock and ID generator yield
// the same digest.
func (r *Report) Digest() (string, error) {
	sum, err := fingerprint.Digest(r)
	if err != nil {
		return "", errors.WrapResource("digest", "report", "", err)
	}
	return fingerprint.Prefix + sum, nil
}

// Summary returns a human-readable summary of the report.
func (r *Report) Summary() string {
	var sb strings.Builder
	if !r.HasChanges() {
		sb.WriteString("Reconciliation completed. No changes detected.")
	} else {
		sb.WriteString(fmt.Sprintf("Reconciliation completed. %d new, %d changed, %d unchanged, %d removed (%d total).",
			r.Counts.New, r.Counts.Changed, r.Counts.Unchanged, r.Counts.Removed, r.Counts.Total))
	}
	if r.VersionChange.Direction != VersionUnknown && r.VersionChange.Direction != VersionSame {
		sb.WriteString(fmt.Sprintf(" Catalog %s from %s to %s.", r.VersionChange.Direction, r.VersionChange.From, r.VersionChange.To))
	}
	if r.HasWarnings() {
		sb.WriteString(fmt.Sprintf(" %d warnings.", len(r.Warnings)))
	}
	return sb.String()
}
