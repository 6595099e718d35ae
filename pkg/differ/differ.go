package differ

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/fingerprint"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// Differ handles change detection between a catalog control and the implemented
// requirement that last cached it.
type Differ interface {
	// Classify assigns a reconciliation status to a matcher pair. Either side
	// may be nil, but not both.
	Classify(ctrl *catalogs.Control, req *ssp.ImplementedRequirement) Classification

	// Changes lists field-level differences between the requirement's catalog
	// cache and the current control, for review of changed entries.
	Changes(req *ssp.ImplementedRequirement, ctrl *catalogs.Control) []FieldChange
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields       map[string]bool
	patches            bool
	structuralFallback bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields:       make(map[string]bool),
		patches:            true,
		structuralFallback: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

var defaultDiffer = New()

// Classify classifies a pair with the default Differ.
func Classify(ctrl *catalogs.Control, req *ssp.ImplementedRequirement) Classification {
	return defaultDiffer.Classify(ctrl, req)
}

// Changes lists changes with the default Differ.
func Changes(req *ssp.ImplementedRequirement, ctrl *catalogs.Control) []FieldChange {
	return defaultDiffer.Changes(req, ctrl)
}

// Classify implements Differ.
func (diff *differ) Classify(ctrl *catalogs.Control, req *ssp.ImplementedRequirement) Classification {
	switch {
	case ctrl == nil && req == nil:
		return Classification{}
	case req == nil:
		return Classification{
			Status:             StatusNew,
			CurrentFingerprint: fingerprint.Compute(ctrl),
		}
	case ctrl == nil:
		return Classification{
			Status:           StatusRemoved,
			PriorFingerprint: req.Fingerprint(),
		}
	}

	c := Classification{
		PriorFingerprint:   req.Fingerprint(),
		CurrentFingerprint: fingerprint.Compute(ctrl),
	}

	if c.PriorFingerprint != "" {
		c.Method = MethodFingerprint
		c.Status = StatusChanged
		if c.PriorFingerprint == c.CurrentFingerprint {
			c.Status = StatusUnchanged
		}
		return c
	}

	c.Method = MethodStructural
	c.Status = StatusChanged
	if diff.structuralFallback && StructurallyEqual(ctrl, req) {
		c.Status = StatusUnchanged
	}
	return c
}

// structuralFields is the field set compared when no fingerprint is stored.
type structuralFields struct {
	Class  string
	Title  string
	Params []catalogs.Param
	Parts  []catalogs.Part
}

// StructurallyEqual reports whether the requirement's cached class, title,
// params and parts equal the control's. Nil and empty lists are equal.
func StructurallyEqual(ctrl *catalogs.Control, req *ssp.ImplementedRequirement) bool {
	a := structuralFields{Class: ctrl.Class, Title: ctrl.Title, Params: ctrl.Params, Parts: ctrl.Parts}
	b := structuralFields{Class: req.Class, Title: req.Title, Params: req.Params, Parts: req.Parts}
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// Changes implements Differ.
func (diff *differ) Changes(req *ssp.ImplementedRequirement, ctrl *catalogs.Control) []FieldChange {
	if req == nil || ctrl == nil {
		return nil
	}

	var changes []FieldChange
	add := func(c FieldChange) {
		if !diff.ignored(c.Path) {
			changes = append(changes, c)
		}
	}

	if req.Title != ctrl.Title {
		add(FieldChange{Path: "title", OldValue: req.Title, NewValue: ctrl.Title, Type: changeType(req.Title, ctrl.Title)})
	}
	if req.Class != ctrl.Class {
		add(FieldChange{Path: "class", OldValue: req.Class, NewValue: ctrl.Class, Type: changeType(req.Class, ctrl.Class)})
	}

	for _, c := range diffParams(req.Params, ctrl.Params) {
		add(c)
	}
	for _, c := range diffProps(req.CatalogProps(), ctrl.Props) {
		add(c)
	}
	for _, c := range diff.diffParts(req.Parts, ctrl.Parts) {
		add(c)
	}

	if !cmp.Equal(req.Links, ctrl.Links, cmpopts.EquateEmpty()) {
		old, cur := hrefs(req.Links), hrefs(ctrl.Links)
		add(FieldChange{Path: "links", OldValue: old, NewValue: cur, Type: changeType(old, cur)})
	}

	return changes
}

func (diff *differ) ignored(path string) bool {
	for p := range diff.ignoreFields {
		if path == p || strings.HasPrefix(path, p+"[") || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

func changeType(old, cur string) ChangeType {
	switch {
	case old == "":
		return ChangeTypeAdd
	case cur == "":
		return ChangeTypeRemove
	default:
		return ChangeTypeUpdate
	}
}

func diffParams(old, cur []catalogs.Param) []FieldChange {
	var changes []FieldChange
	oldByID := make(map[string]catalogs.Param, len(old))
	for _, p := range old {
		oldByID[p.ID] = p
	}
	curIDs := make(map[string]bool, len(cur))

	for _, p := range cur {
		curIDs[p.ID] = true
		path := fmt.Sprintf("params[%s]", p.ID)
		prev, ok := oldByID[p.ID]
		switch {
		case !ok:
			changes = append(changes, FieldChange{Path: path, NewValue: describe(p), Type: ChangeTypeAdd})
		case !cmp.Equal(prev, p, cmpopts.EquateEmpty()):
			changes = append(changes, FieldChange{Path: path, OldValue: describe(prev), NewValue: describe(p), Type: ChangeTypeUpdate})
		}
	}
	for _, p := range old {
		if !curIDs[p.ID] {
			changes = append(changes, FieldChange{Path: fmt.Sprintf("params[%s]", p.ID), OldValue: describe(p), Type: ChangeTypeRemove})
		}
	}
	return changes
}

func diffProps(old, cur []catalogs.Property) []FieldChange {
	var changes []FieldChange
	oldKeys := make(map[catalogs.PropertyKey]bool, len(old))
	for _, p := range old {
		oldKeys[p.Key()] = true
	}
	curKeys := make(map[catalogs.PropertyKey]bool, len(cur))
	for _, p := range cur {
		curKeys[p.Key()] = true
		if !oldKeys[p.Key()] {
			changes = append(changes, FieldChange{Path: propPath(p), NewValue: p.Value, Type: ChangeTypeAdd})
		}
	}
	for _, p := range old {
		if !curKeys[p.Key()] {
			changes = append(changes, FieldChange{Path: propPath(p), OldValue: p.Value, Type: ChangeTypeRemove})
		}
	}
	return changes
}

func propPath(p catalogs.Property) string {
	if p.NS != "" {
		return fmt.Sprintf("props[%s#%s]", p.NS, p.Name)
	}
	return fmt.Sprintf("props[%s]", p.Name)
}

// indexedPart is a part located by a stable key: its id, or its name path
// when the catalog leaves the part without an id.
type indexedPart struct {
	key   string
	prose string
}

func indexParts(parts []catalogs.Part) []indexedPart {
	var out []indexedPart
	var walk func(parts []catalogs.Part, prefix string)
	walk = func(parts []catalogs.Part, prefix string) {
		for i, p := range parts {
			key := p.ID
			if key == "" {
				key = fmt.Sprintf("%s%s[%d]", prefix, p.Name, i)
			}
			out = append(out, indexedPart{key: key, prose: p.Prose})
			walk(p.Parts, key+"/")
		}
	}
	walk(parts, "")
	return out
}

func (diff *differ) diffParts(old, cur []catalogs.Part) []FieldChange {
	var changes []FieldChange
	oldIdx := indexParts(old)
	oldByKey := make(map[string]string, len(oldIdx))
	for _, p := range oldIdx {
		oldByKey[p.key] = p.prose
	}
	curKeys := make(map[string]bool)

	for _, p := range indexParts(cur) {
		curKeys[p.key] = true
		path := fmt.Sprintf("parts[%s].prose", p.key)
		prev, ok := oldByKey[p.key]
		switch {
		case !ok:
			changes = append(changes, FieldChange{Path: fmt.Sprintf("parts[%s]", p.key), NewValue: p.prose, Type: ChangeTypeAdd})
		case prev != p.prose:
			c := FieldChange{Path: path, OldValue: prev, NewValue: p.prose, Type: ChangeTypeUpdate}
			if diff.patches {
				c.Patch = patch(prev, p.prose)
			}
			changes = append(changes, c)
		}
	}
	for _, p := range oldIdx {
		if !curKeys[p.key] {
			changes = append(changes, FieldChange{Path: fmt.Sprintf("parts[%s]", p.key), OldValue: p.prose, Type: ChangeTypeRemove})
		}
	}
	return changes
}

// patch renders a character-level patch from old to cur.
func patch(old, cur string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, cur, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(old, diffs))
}

func describe(p catalogs.Param) string {
	data, err := json.Marshal(p)
	if err != nil {
		return p.Label
	}
	return string(data)
}

func hrefs(links []catalogs.Link) string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Href
	}
	return strings.Join(out, ", ")
}
