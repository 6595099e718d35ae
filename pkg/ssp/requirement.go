package ssp

import (
	"encoding/json"
	"slices"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
)

// ImplementedRequirement records how an organisation addresses one control.
//
// The catalog block is a cache of the control's catalog-owned fields and is
// rewritten on every merge. Everything else belongs to the document author and
// is never touched by the engine, including keys this type does not model,
// which are kept in Extra.
type ImplementedRequirement struct {
	UUID      string `json:"uuid"`
	ControlID string `json:"control-id"`

	// Catalog-owned
	Class  string              `json:"class,omitempty"`
	Title  string              `json:"title,omitempty"`
	Params []catalogs.Param    `json:"params,omitempty"`
	Props  []catalogs.Property `json:"props,omitempty"` // also carries engine-namespaced props
	Parts  []catalogs.Part     `json:"parts,omitempty"`
	Links  []catalogs.Link     `json:"links,omitempty"`

	// User-owned
	Status              Status  `json:"status,omitempty"`
	Description         string  `json:"description,omitempty"`
	ResponsibleParty    string  `json:"responsible-party,omitempty"`
	ConsumerGuidance    string  `json:"consumer-guidance,omitempty"`
	CloudResponsibility string  `json:"cloud-responsibility,omitempty"`
	ControlType         string  `json:"control-type,omitempty"`
	TestingMethod       string  `json:"testing-method,omitempty"`
	TestingFrequency    string  `json:"testing-frequency,omitempty"`
	LastTestDate        string  `json:"last-test-date,omitempty"`
	RiskRating          string  `json:"risk-rating,omitempty"`
	History             History `json:"history,omitempty"`
	Remarks             string  `json:"remarks,omitempty"`

	// Extra holds unmodelled keys (by-components, set-parameters, ...) verbatim.
	Extra map[string]json.RawMessage `json:"-"`
}

var requirementKeys = []string{
	"uuid", "control-id", "class", "title", "params", "props", "parts", "links",
	"status", "description", "responsible-party", "consumer-guidance",
	"cloud-responsibility", "control-type", "testing-method", "testing-frequency",
	"last-test-date", "risk-rating", "history", "remarks",
}

type requirementAlias ImplementedRequirement

// MarshalJSON implements json.Marshaler.
func (r ImplementedRequirement) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(requirementAlias(r))
	if err != nil {
		return nil, err
	}
	return catalogs.MergeExtra(known, r.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ImplementedRequirement) UnmarshalJSON(data []byte) error {
	var alias requirementAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra, err := catalogs.SplitExtra(data, requirementKeys)
	if err != nil {
		return err
	}
	*r = ImplementedRequirement(alias)
	r.Extra = extra
	return nil
}

// Fingerprint returns the catalog fingerprint recorded at the last merge,
// or "" when the requirement predates fingerprinting.
func (r *ImplementedRequirement) Fingerprint() string {
	for _, p := range r.Props {
		if p.NS == constants.EngineNamespace && p.Name == constants.FingerprintPropName {
			return p.Value
		}
	}
	return ""
}

// SetFingerprint records fp, replacing any earlier value.
func (r *ImplementedRequirement) SetFingerprint(fp string) {
	r.Props = slices.DeleteFunc(r.Props, func(p catalogs.Property) bool {
		return p.NS == constants.EngineNamespace && p.Name == constants.FingerprintPropName
	})
	r.Props = append(r.Props, catalogs.Property{
		Name:  constants.FingerprintPropName,
		NS:    constants.EngineNamespace,
		Value: fp,
	})
}

// CatalogProps returns the props that came from the catalog, i.e. all props
// outside the engine namespace.
func (r *ImplementedRequirement) CatalogProps() []catalogs.Property {
	var out []catalogs.Property
	for _, p := range r.Props {
		if p.NS != constants.EngineNamespace {
			out = append(out, p)
		}
	}
	return out
}

// EngineProps returns the props written by the engine.
func (r *ImplementedRequirement) EngineProps() []catalogs.Property {
	var out []catalogs.Property
	for _, p := range r.Props {
		if p.NS == constants.EngineNamespace {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of the requirement.
func (r ImplementedRequirement) Clone() ImplementedRequirement {
	out := r
	out.Params = catalogs.CloneParams(r.Params)
	out.Props = catalogs.CloneProps(r.Props)
	out.Parts = catalogs.CloneParts(r.Parts)
	out.Links = catalogs.CloneLinks(r.Links)
	out.History = r.History.Clone()
	out.Extra = catalogs.CloneRaw(r.Extra)
	return out
}

// UserFields is the user-owned portion of a requirement, used to prove that a
// merge left it untouched.
type UserFields struct {
	UUID                string
	ControlID           string
	Status              Status
	Description         string
	ResponsibleParty    string
	ConsumerGuidance    string
	CloudResponsibility string
	ControlType         string
	TestingMethod       string
	TestingFrequency    string
	LastTestDate        string
	RiskRating          string
	History             History
	Remarks             string
	Extra               map[string]json.RawMessage
}

// UserFields extracts the user-owned fields.
func (r *ImplementedRequirement) UserFields() UserFields {
	return UserFields{
		UUID:                r.UUID,
		ControlID:           r.ControlID,
		Status:              r.Status,
		Description:         r.Description,
		ResponsibleParty:    r.ResponsibleParty,
		ConsumerGuidance:    r.ConsumerGuidance,
		CloudResponsibility: r.CloudResponsibility,
		ControlType:         r.ControlType,
		TestingMethod:       r.TestingMethod,
		TestingFrequency:    r.TestingFrequency,
		LastTestDate:        r.LastTestDate,
		RiskRating:          r.RiskRating,
		History:             r.History,
		Remarks:             r.Remarks,
		Extra:               r.Extra,
	}
}
