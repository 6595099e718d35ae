// Package catalogs models OSCAL control catalogs and turns their nested group and
// control tree into the flat, ordered control list the reconciler works on.
//
// A Catalog handed to this package is treated as read-only: Flatten and every
// helper return deep copies, so callers may keep using the source tree.
package catalogs

import (
	"encoding/json"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
)

// Catalog is an OSCAL catalog: metadata plus a tree of groups and controls.
type Catalog struct {
	UUID       string          `json:"uuid,omitempty"`
	Metadata   Metadata        `json:"metadata"`
	Params     []Param         `json:"params,omitempty"`
	Controls   []Control       `json:"controls,omitempty"`
	Groups     []Group         `json:"groups,omitempty"`
	BackMatter json.RawMessage `json:"back-matter,omitempty"` // opaque passthrough
}

// Group is a named collection of controls, e.g. a control family such as "ac".
type Group struct {
	ID       string     `json:"id,omitempty"`
	Class    string     `json:"class,omitempty"`
	Title    string     `json:"title"`
	Params   []Param    `json:"params,omitempty"`
	Props    []Property `json:"props,omitempty"`
	Links    []Link     `json:"links,omitempty"`
	Parts    []Part     `json:"parts,omitempty"`
	Groups   []Group    `json:"groups,omitempty"`
	Controls []Control  `json:"controls,omitempty"`
}

// Control is one identifiable security requirement.
//
// Controls nested under another control are enhancements (for example AC-2(1)).
// In a flattened list nested Controls is always empty and the navigation context
// fields Family, FamilyTitle and ParentID are filled instead.
type Control struct {
	ID       string     `json:"id"`
	Class    string     `json:"class,omitempty"`
	Title    string     `json:"title"`
	Params   []Param    `json:"params,omitempty"`
	Props    []Property `json:"props,omitempty"`
	Links    []Link     `json:"links,omitempty"`
	Parts    []Part     `json:"parts,omitempty"`
	Controls []Control  `json:"controls,omitempty"`

	// Navigation context, set by Flatten and never fingerprinted.
	Family      string `json:"family,omitempty"`       // top-level group id
	FamilyTitle string `json:"family-title,omitempty"` // top-level group title
	ParentID    string `json:"parent-id,omitempty"`    // enclosing control id for enhancements
}

// Statement returns the control's top-level statement part, if any.
func (c *Control) Statement() *Part {
	for i := range c.Parts {
		if c.Parts[i].Name == constants.StatementPartName {
			return &c.Parts[i]
		}
	}
	return nil
}

// IsEnhancement reports whether the control was nested under another control.
func (c *Control) IsEnhancement() bool {
	return c.ParentID != ""
}

// Param is a control parameter (an organisation-defined value placeholder).
type Param struct {
	ID          string          `json:"id"`
	Class       string          `json:"class,omitempty"`
	Label       string          `json:"label,omitempty"`
	Usage       string          `json:"usage,omitempty"`
	Props       []Property      `json:"props,omitempty"`
	Links       []Link          `json:"links,omitempty"`
	Guidelines  []Guideline     `json:"guidelines,omitempty"`
	Values      []string        `json:"values,omitempty"`
	Select      *ParamSelection `json:"select,omitempty"`
	Constraints []Constraint    `json:"constraints,omitempty"`
	Remarks     string          `json:"remarks,omitempty"`
}

// Guideline is prose guidance on choosing a parameter value.
type Guideline struct {
	Prose string `json:"prose"`
}

// ParamSelection restricts a parameter to a set of choices.
type ParamSelection struct {
	HowMany string   `json:"how-many,omitempty"` // "one" or "one-or-more"
	Choice  []string `json:"choice,omitempty"`
}

// Constraint is a formal or informal restriction on a parameter value.
type Constraint struct {
	Description string           `json:"description,omitempty"`
	Tests       []ConstraintTest `json:"tests,omitempty"`
}

// ConstraintTest is a machine-checkable constraint expression.
type ConstraintTest struct {
	Expression string `json:"expression"`
	Remarks    string `json:"remarks,omitempty"`
}

// Property is an OSCAL name/value annotation.
type Property struct {
	Name    string `json:"name"`
	UUID    string `json:"uuid,omitempty"`
	NS      string `json:"ns,omitempty"`
	Value   string `json:"value"`
	Class   string `json:"class,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// Key identifies a property for set comparisons. Properties are equal when
// their namespace, name and value are equal.
func (p Property) Key() PropertyKey {
	return PropertyKey{NS: p.NS, Name: p.Name, Value: p.Value}
}

// PropertyKey is the (ns, name, value) identity of a Property.
type PropertyKey struct {
	NS    string
	Name  string
	Value string
}

// Link is a reference to a related resource.
type Link struct {
	Href      string `json:"href"`
	Rel       string `json:"rel,omitempty"`
	MediaType string `json:"media-type,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Part is a piece of control prose (statement, guidance, objective, ...),
// possibly with nested sub-parts such as statement items a., b., c.
type Part struct {
	ID    string     `json:"id,omitempty"`
	Name  string     `json:"name"`
	NS    string     `json:"ns,omitempty"`
	Class string     `json:"class,omitempty"`
	Title string     `json:"title,omitempty"`
	Props []Property `json:"props,omitempty"`
	Prose string     `json:"prose,omitempty"`
	Parts []Part     `json:"parts,omitempty"`
	Links []Link     `json:"links,omitempty"`
}

// Walk visits the part and every nested sub-part depth-first.
func (p *Part) Walk(fn func(*Part)) {
	fn(p)
	for i := range p.Parts {
		p.Parts[i].Walk(fn)
	}
}
