package catalogs

import (
	"encoding/json"
	"slices"
)

// Clone returns a deep copy of the control, including nested enhancements.
func (c Control) Clone() Control {
	out := c
	out.Params = CloneParams(c.Params)
	out.Props = CloneProps(c.Props)
	out.Links = CloneLinks(c.Links)
	out.Parts = CloneParts(c.Parts)
	if c.Controls != nil {
		out.Controls = make([]Control, len(c.Controls))
		for i := range c.Controls {
			out.Controls[i] = c.Controls[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the part tree.
func (p Part) Clone() Part {
	out := p
	out.Props = CloneProps(p.Props)
	out.Links = CloneLinks(p.Links)
	out.Parts = CloneParts(p.Parts)
	return out
}

// Clone returns a deep copy of the parameter.
func (p Param) Clone() Param {
	out := p
	out.Props = CloneProps(p.Props)
	out.Links = CloneLinks(p.Links)
	out.Guidelines = slices.Clone(p.Guidelines)
	out.Values = slices.Clone(p.Values)
	if p.Select != nil {
		sel := *p.Select
		sel.Choice = slices.Clone(p.Select.Choice)
		out.Select = &sel
	}
	if p.Constraints != nil {
		out.Constraints = make([]Constraint, len(p.Constraints))
		for i, c := range p.Constraints {
			c.Tests = slices.Clone(c.Tests)
			out.Constraints[i] = c
		}
	}
	return out
}

// Clone returns a deep copy of the metadata block.
func (m Metadata) Clone() Metadata {
	out := m
	out.DocumentIDs = slices.Clone(m.DocumentIDs)
	out.Props = CloneProps(m.Props)
	out.Links = CloneLinks(m.Links)
	if m.Roles != nil {
		out.Roles = make([]Role, len(m.Roles))
		for i, r := range m.Roles {
			r.Props = CloneProps(r.Props)
			r.Links = CloneLinks(r.Links)
			out.Roles[i] = r
		}
	}
	if m.Parties != nil {
		out.Parties = make([]Party, len(m.Parties))
		for i, p := range m.Parties {
			out.Parties[i] = p.Clone()
		}
	}
	if m.ResponsibleParties != nil {
		out.ResponsibleParties = make([]ResponsibleParty, len(m.ResponsibleParties))
		for i, rp := range m.ResponsibleParties {
			rp.PartyUUIDs = slices.Clone(rp.PartyUUIDs)
			rp.Props = CloneProps(rp.Props)
			rp.Links = CloneLinks(rp.Links)
			out.ResponsibleParties[i] = rp
		}
	}
	out.Extra = CloneRaw(m.Extra)
	return out
}

// Clone returns a deep copy of the party.
func (p Party) Clone() Party {
	out := p
	out.EmailAddresses = slices.Clone(p.EmailAddresses)
	out.Props = CloneProps(p.Props)
	out.Links = CloneLinks(p.Links)
	out.Extra = CloneRaw(p.Extra)
	return out
}

// CloneParams deep-copies a parameter list, preserving nil.
func CloneParams(params []Param) []Param {
	if params == nil {
		return nil
	}
	out := make([]Param, len(params))
	for i := range params {
		out[i] = params[i].Clone()
	}
	return out
}

// CloneParts deep-copies a part list, preserving nil.
func CloneParts(parts []Part) []Part {
	if parts == nil {
		return nil
	}
	out := make([]Part, len(parts))
	for i := range parts {
		out[i] = parts[i].Clone()
	}
	return out
}

// CloneProps copies a property list, preserving nil.
func CloneProps(props []Property) []Property {
	return slices.Clone(props)
}

// CloneLinks copies a link list, preserving nil.
func CloneLinks(links []Link) []Link {
	return slices.Clone(links)
}

// CloneRaw copies a map of raw JSON values, preserving nil.
func CloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}
