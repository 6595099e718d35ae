package oscalreports

import (
	"path/filepath"
	"strings"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/provenance"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence writes reconciliation output to disk.
type Persistence interface {
	// Save writes the report's merged plan to path, in the format implied by
	// its extension, and the field provenance next to it.
	Save(report *reconciler.Report, path string) error
}

// Save implements Persistence.
func (c *client) Save(report *reconciler.Report, path string) error {
	return SaveReport(report, path)
}

// SaveReport writes report.Document to path and, when provenance was
// recorded, report.Provenance to ProvenancePath(path).
func SaveReport(report *reconciler.Report, path string) error {
	if report == nil || report.Document == nil {
		return &errors.ValidationError{
			Field:   "report",
			Message: "no merged document to save",
		}
	}

	if err := ssp.SaveFile(report.Document, path); err != nil {
		return err
	}

	if len(report.Provenance) == 0 {
		return nil
	}
	if err := provenance.Save(ProvenancePath(path), report.Provenance); err != nil {
		return errors.WrapResource("save", "provenance", path, err)
	}
	return nil
}

// ProvenancePath returns the provenance file written alongside a plan,
// e.g. "ssp.json" -> "ssp.provenance.yaml".
func ProvenancePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".provenance.yaml"
}
