package catalogs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataKeepsUnknownKeys(t *testing.T) {
	input := `{
		"title": "Catalog",
		"version": "1.0",
		"x-vendor": {"tier": 3},
		"locations": [{"uuid": "l1"}]
	}`

	var m Metadata
	require.NoError(t, json.Unmarshal([]byte(input), &m))
	assert.Equal(t, "Catalog", m.Title)
	assert.Equal(t, []string{"locations", "x-vendor"}, m.ExtraKeys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestMetadataWithoutExtra(t *testing.T) {
	var m Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"title": "T"}`), &m))
	assert.Nil(t, m.Extra)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "T"}`, string(out))
}

func TestModelledKeyWinsOverExtra(t *testing.T) {
	m := Metadata{
		Title: "real",
		Extra: map[string]json.RawMessage{"title": json.RawMessage(`"shadow"`)},
	}
	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "real"}`, string(out))
}

func TestPartyKeepsContactDetails(t *testing.T) {
	input := `{
		"uuid": "p1",
		"type": "organization",
		"name": "Org",
		"addresses": [{"city": "Canberra"}],
		"telephone-numbers": [{"number": "+61 2 0000 0000"}]
	}`

	var p Party
	require.NoError(t, json.Unmarshal([]byte(input), &p))
	assert.Len(t, p.Extra, 2)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestMetadataClone(t *testing.T) {
	m := NewTestCatalog().Metadata
	m.Extra = map[string]json.RawMessage{"x": json.RawMessage(`1`)}
	m.ResponsibleParties = []ResponsibleParty{{RoleID: "creator", PartyUUIDs: []string{"p"}}}

	c := m.Clone()
	assert.Equal(t, m, c)

	c.Props[0].Value = "changed"
	c.Parties[0].Name = "changed"
	c.ResponsibleParties[0].PartyUUIDs[0] = "changed"
	c.Extra["x"][0] = '2'

	assert.Equal(t, "security", m.Props[0].Value)
	assert.Equal(t, "Test Standards Body", m.Parties[0].Name)
	assert.Equal(t, "p", m.ResponsibleParties[0].PartyUUIDs[0])
	assert.Equal(t, json.RawMessage(`1`), m.Extra["x"])
}

func TestParamClone(t *testing.T) {
	p := Param{
		ID:          "p",
		Values:      []string{"a"},
		Select:      &ParamSelection{HowMany: "one", Choice: []string{"x", "y"}},
		Constraints: []Constraint{{Description: "d", Tests: []ConstraintTest{{Expression: "e"}}}},
		Guidelines:  []Guideline{{Prose: "g"}},
	}
	c := p.Clone()
	assert.Equal(t, p, c)

	c.Values[0] = "z"
	c.Select.Choice[0] = "z"
	c.Constraints[0].Tests[0].Expression = "z"
	c.Guidelines[0].Prose = "z"

	assert.Equal(t, "a", p.Values[0])
	assert.Equal(t, "x", p.Select.Choice[0])
	assert.Equal(t, "e", p.Constraints[0].Tests[0].Expression)
	assert.Equal(t, "g", p.Guidelines[0].Prose)
}

func TestPropertyKey(t *testing.T) {
	a := Property{Name: "n", NS: "ns", Value: "v", Remarks: "one"}
	b := Property{Name: "n", NS: "ns", Value: "v", Class: "other"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Property{Name: "n", Value: "v"}.Key())
}
