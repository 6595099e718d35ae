// Package ssp models the OSCAL System Security Plan documents the reconciler
// reads as prior state and writes as merged output.
package ssp

import (
	"encoding/json"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
)

// Document is an OSCAL system security plan.
// Sections the engine does not interpret are carried as raw JSON.
type Document struct {
	UUID                  string                `json:"uuid"`
	Metadata              catalogs.Metadata     `json:"metadata"`
	ImportProfile         *ImportProfile        `json:"import-profile,omitempty"`
	SystemCharacteristics json.RawMessage       `json:"system-characteristics,omitempty"`
	SystemImplementation  json.RawMessage       `json:"system-implementation,omitempty"`
	ControlImplementation ControlImplementation `json:"control-implementation"`
	BackMatter            json.RawMessage       `json:"back-matter,omitempty"`
}

// ImportProfile points at the profile or catalog the plan was built from.
type ImportProfile struct {
	Href    string `json:"href"`
	Remarks string `json:"remarks,omitempty"`
}

// ControlImplementation holds the plan's implemented requirements.
type ControlImplementation struct {
	Description             string                   `json:"description,omitempty"`
	ImplementedRequirements []ImplementedRequirement `json:"implemented-requirements"`
}

// Requirements returns the document's implemented requirements, or nil for a
// nil document.
func (d *Document) Requirements() []ImplementedRequirement {
	if d == nil {
		return nil
	}
	return d.ControlImplementation.ImplementedRequirements
}

// Requirement returns the first requirement for controlID.
func (d *Document) Requirement(controlID string) (*ImplementedRequirement, bool) {
	if d == nil {
		return nil, false
	}
	reqs := d.ControlImplementation.ImplementedRequirements
	for i := range reqs {
		if reqs[i].ControlID == controlID {
			return &reqs[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Metadata = d.Metadata.Clone()
	if d.ImportProfile != nil {
		ip := *d.ImportProfile
		out.ImportProfile = &ip
	}
	out.SystemCharacteristics = cloneRaw(d.SystemCharacteristics)
	out.SystemImplementation = cloneRaw(d.SystemImplementation)
	out.BackMatter = cloneRaw(d.BackMatter)
	if reqs := d.ControlImplementation.ImplementedRequirements; reqs != nil {
		out.ControlImplementation.ImplementedRequirements = make([]ImplementedRequirement, len(reqs))
		for i := range reqs {
			out.ControlImplementation.ImplementedRequirements[i] = reqs[i].Clone()
		}
	}
	return &out
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}
