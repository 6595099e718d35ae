package catalogs

import (
	"encoding/json"
	"maps"
	"slices"
)

// Metadata is the OSCAL metadata block shared by catalogs and SSPs.
//
// Keys this package does not model are kept in Extra and written back on
// marshal, so a round trip never drops catalog or document metadata.
type Metadata struct {
	Title              string             `json:"title"`
	Published          string             `json:"published,omitempty"`
	LastModified       string             `json:"last-modified,omitempty"`
	Version            string             `json:"version,omitempty"`
	OSCALVersion       string             `json:"oscal-version,omitempty"`
	DocumentIDs        []DocumentID       `json:"document-ids,omitempty"`
	Props              []Property         `json:"props,omitempty"`
	Links              []Link             `json:"links,omitempty"`
	Roles              []Role             `json:"roles,omitempty"`
	Parties            []Party            `json:"parties,omitempty"`
	ResponsibleParties []ResponsibleParty `json:"responsible-parties,omitempty"`
	Remarks            string             `json:"remarks,omitempty"`

	// Extra holds unrecognised keys verbatim.
	Extra map[string]json.RawMessage `json:"-"`
}

// metadataKeys are the JSON keys modelled by Metadata.
var metadataKeys = []string{
	"title", "published", "last-modified", "version", "oscal-version",
	"document-ids", "props", "links", "roles", "parties",
	"responsible-parties", "remarks",
}

// DocumentID is an external document identifier such as a DOI.
type DocumentID struct {
	Scheme     string `json:"scheme,omitempty"`
	Identifier string `json:"identifier"`
}

// Role is a function assumed by a party, e.g. "creator".
type Role struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ShortName   string     `json:"short-name,omitempty"`
	Description string     `json:"description,omitempty"`
	Props       []Property `json:"props,omitempty"`
	Links       []Link     `json:"links,omitempty"`
	Remarks     string     `json:"remarks,omitempty"`
}

// Party is a person or organisation. Contact details beyond the modelled
// fields (addresses, telephone numbers, ...) are kept in Extra.
type Party struct {
	UUID           string     `json:"uuid"`
	Type           string     `json:"type"`
	Name           string     `json:"name,omitempty"`
	ShortName      string     `json:"short-name,omitempty"`
	EmailAddresses []string   `json:"email-addresses,omitempty"`
	Props          []Property `json:"props,omitempty"`
	Links          []Link     `json:"links,omitempty"`
	Remarks        string     `json:"remarks,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var partyKeys = []string{
	"uuid", "type", "name", "short-name", "email-addresses", "props", "links", "remarks",
}

// ResponsibleParty binds a role to one or more parties.
type ResponsibleParty struct {
	RoleID     string     `json:"role-id"`
	PartyUUIDs []string   `json:"party-uuids"`
	Props      []Property `json:"props,omitempty"`
	Links      []Link     `json:"links,omitempty"`
	Remarks    string     `json:"remarks,omitempty"`
}

type metadataAlias Metadata

// MarshalJSON implements json.Marshaler.
func (m Metadata) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(metadataAlias(m))
	if err != nil {
		return nil, err
	}
	return MergeExtra(known, m.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var alias metadataAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra, err := SplitExtra(data, metadataKeys)
	if err != nil {
		return err
	}
	*m = Metadata(alias)
	m.Extra = extra
	return nil
}

type partyAlias Party

// MarshalJSON implements json.Marshaler.
func (p Party) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(partyAlias(p))
	if err != nil {
		return nil, err
	}
	return MergeExtra(known, p.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Party) UnmarshalJSON(data []byte) error {
	var alias partyAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra, err := SplitExtra(data, partyKeys)
	if err != nil {
		return err
	}
	*p = Party(alias)
	p.Extra = extra
	return nil
}

// ExtraKeys returns the unrecognised metadata keys in sorted order.
func (m *Metadata) ExtraKeys() []string {
	return slices.Sorted(maps.Keys(m.Extra))
}

// SplitExtra returns the top-level keys of data that are not in known.
func SplitExtra(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	var extra map[string]json.RawMessage
	for k, v := range all {
		if slices.Contains(known, k) {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra, nil
}

// MergeExtra adds extra keys to an encoded object. Modelled keys win on conflict.
func MergeExtra(known []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return known, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(known, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}
