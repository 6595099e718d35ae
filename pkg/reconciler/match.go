package reconciler

import (
	"fmt"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// Pair links a catalog control to the prior requirement for the same control
// id. Either side may be nil: a nil Requirement is a new control, a nil
// Control a removed one.
type Pair struct {
	Control     *catalogs.Control
	Requirement *ssp.ImplementedRequirement
}

// ControlID returns the id shared by both sides.
func (p Pair) ControlID() string {
	if p.Control != nil {
		return p.Control.ID
	}
	if p.Requirement != nil {
		return p.Requirement.ControlID
	}
	return ""
}

// Match pairs flattened controls with prior requirements by exact,
// case-sensitive control id.
//
// Pairs come back in catalog order, followed by the requirements that matched
// no control in their prior document order. When the prior document holds
// several requirements for one control the first is used and the rest are
// reported as ambiguous matches. Requirements without a control id never
// pair and are reported with a structural warning.
//
// The returned pairs point into controls and reqs; callers must not mutate
// either slice while the pairs are in use.
func Match(controls []catalogs.Control, reqs []ssp.ImplementedRequirement) ([]Pair, []errors.Warning) {
	var warnings []errors.Warning

	byID := make(map[string]int, len(reqs))
	for i := range reqs {
		id := reqs[i].ControlID
		if id == "" {
			warnings = append(warnings, errors.NewStructuralWarning(
				errors.WarningMissingID, "", requirementPath(i),
				fmt.Sprintf("implemented requirement %s has no control-id and matches no control", reqs[i].UUID),
			))
			continue
		}
		if _, dup := byID[id]; dup {
			warnings = append(warnings, errors.NewAmbiguousMatchWarning(id, reqs[i].UUID))
			continue
		}
		byID[id] = i
	}

	pairs := make([]Pair, 0, len(controls)+len(byID))
	used := make(map[int]bool, len(byID))
	for i := range controls {
		p := Pair{Control: &controls[i]}
		if j, ok := byID[controls[i].ID]; ok {
			p.Requirement = &reqs[j]
			used[j] = true
		}
		pairs = append(pairs, p)
	}

	for i := range reqs {
		if j, ok := byID[reqs[i].ControlID]; ok && j == i && !used[i] {
			pairs = append(pairs, Pair{Requirement: &reqs[i]})
		}
	}

	return pairs, warnings
}

func requirementPath(i int) string {
	return fmt.Sprintf("control-implementation.implemented-requirements[%d]", i)
}
