package catalogs

import (
	"fmt"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

// Flatten walks the catalog depth-first in declaration order and returns every
// control, enhancements included, as a flat list of deep copies.
//
// Top-level catalog controls come first, then top-level groups. Within a group
// its own controls (each immediately followed by its enhancements) precede its
// sub-groups. A control without an id is skipped; a control whose id was
// already seen is skipped and the first occurrence kept. Both cases produce a
// structural warning and flattening continues. A control with more than one
// top-level statement part is kept but also warned about. Family is taken from
// the top-level group, whatever the nesting depth. The catalog is not modified.
func Flatten(cat *Catalog) ([]Control, []errors.Warning) {
	if cat == nil {
		return nil, nil
	}

	f := &flattener{seen: make(map[string]string)}
	for i := range cat.Controls {
		f.control(&cat.Controls[i], fmt.Sprintf("controls[%d]", i), nil, "")
	}
	for i := range cat.Groups {
		f.group(&cat.Groups[i], &cat.Groups[i], fmt.Sprintf("groups[%d]", i))
	}
	return f.out, f.warnings
}

type flattener struct {
	out      []Control
	warnings []errors.Warning
	seen     map[string]string // control id -> path of first occurrence
}

// group visits g; family is the top-level group g descends from.
func (f *flattener) group(g, family *Group, path string) {
	for i := range g.Controls {
		f.control(&g.Controls[i], fmt.Sprintf("%s.controls[%d]", path, i), family, "")
	}
	for i := range g.Groups {
		f.group(&g.Groups[i], family, fmt.Sprintf("%s.groups[%d]", path, i))
	}
}

func (f *flattener) control(c *Control, path string, g *Group, parentID string) {
	f.emit(c, path, g, parentID)

	// Enhancements are visited even when their parent was skipped; they carry
	// their own ids. A skipped parent leaves ParentID empty.
	parent := c.ID
	if f.seen[c.ID] != path {
		parent = ""
	}
	for i := range c.Controls {
		f.control(&c.Controls[i], fmt.Sprintf("%s.controls[%d]", path, i), g, parent)
	}
}

func (f *flattener) emit(c *Control, path string, g *Group, parentID string) {
	if c.ID == "" {
		f.warnings = append(f.warnings, errors.NewStructuralWarning(
			errors.WarningMissingID, "", path,
			fmt.Sprintf("control %q has no id; skipped", c.Title)))
		return
	}
	if first, dup := f.seen[c.ID]; dup {
		f.warnings = append(f.warnings, errors.NewStructuralWarning(
			errors.WarningDuplicateID, c.ID, path,
			fmt.Sprintf("control id already declared at %s; kept the first occurrence", first)))
		return
	}
	f.seen[c.ID] = path

	if n := statementCount(c); n > 1 {
		f.warnings = append(f.warnings, errors.NewStructuralWarning(
			errors.WarningDuplicateStatement, c.ID, path,
			fmt.Sprintf("control has %d top-level statement parts; the first is its statement", n)))
	}

	flat := c.Clone()
	flat.Controls = nil
	flat.ParentID = parentID
	if g != nil {
		flat.Family = g.ID
		flat.FamilyTitle = g.Title
	}
	f.out = append(f.out, flat)
}

func statementCount(c *Control) int {
	n := 0
	for i := range c.Parts {
		if c.Parts[i].Name == constants.StatementPartName {
			n++
		}
	}
	return n
}

// Lookup returns the control with the given id from a flattened list.
// An unknown id gives a NotFoundError.
func Lookup(controls []Control, id string) (*Control, error) {
	for i := range controls {
		if controls[i].ID == id {
			return &controls[i], nil
		}
	}
	return nil, errors.NewNotFoundError("control", id)
}

// ControlIDs returns the ids of the given controls in order.
func ControlIDs(controls []Control) []string {
	ids := make([]string, len(controls))
	for i := range controls {
		ids[i] = controls[i].ID
	}
	return ids
}
