package reconciler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
)

func TestPreserveMetadata(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 30, 0, 0, time.FixedZone("AEST", 10*3600))

	cat := catalogs.Metadata{
		Title:        "NIST SP 800-53 Rev 5",
		Published:    "2024-01-01T00:00:00Z",
		LastModified: "2024-01-02T00:00:00Z",
		Version:      "5.1.1",
		OSCALVersion: "1.1.2",
		DocumentIDs:  []catalogs.DocumentID{{Scheme: "doi", Identifier: "10.6028/NIST.SP.800-53r5"}},
		Props:        []catalogs.Property{{Name: "keywords", Value: "security"}},
		Links:        []catalogs.Link{{Href: "https://csrc.nist.gov", Rel: "alternate"}},
		Roles:        []catalogs.Role{{ID: "creator", Title: "Creator"}},
		Parties:      []catalogs.Party{{UUID: "p-nist", Type: "organization", Name: "NIST"}},
		Remarks:      "catalog remarks",
		Extra:        map[string]json.RawMessage{"x-catalog": json.RawMessage(`"c"`), "x-shared": json.RawMessage(`"from-catalog"`)},
	}
	prior := &catalogs.Metadata{
		Title:   "Payments SSP",
		Version: "5.0.0",
		Props: []catalogs.Property{
			{Name: "keywords", Value: "security"},
			{Name: "classification", Value: "internal"},
		},
		Links:              []catalogs.Link{{Href: "https://csrc.nist.gov", Rel: "old"}, {Href: "https://wiki.example.com"}},
		Roles:              []catalogs.Role{{ID: "creator", Title: "Old"}, {ID: "system-owner", Title: "System Owner"}},
		Parties:            []catalogs.Party{{UUID: "p-acme", Type: "organization", Name: "Acme"}},
		ResponsibleParties: []catalogs.ResponsibleParty{{RoleID: "system-owner", PartyUUIDs: []string{"p-acme"}}},
		Remarks:            "plan remarks",
		Extra:              map[string]json.RawMessage{"x-plan": json.RawMessage(`"p"`), "x-shared": json.RawMessage(`"from-plan"`)},
	}

	out, vc := PreserveMetadata(cat, prior, now)

	assert.Equal(t, "Payments SSP", out.Title)
	assert.Equal(t, "2024-01-01T00:00:00Z", out.Published)
	assert.Equal(t, "2025-05-31T22:30:00Z", out.LastModified)
	assert.Equal(t, "5.1.1", out.Version)
	assert.Equal(t, "1.1.2", out.OSCALVersion)
	assert.Equal(t, cat.DocumentIDs, out.DocumentIDs)

	assert.Equal(t, []catalogs.Property{
		{Name: "keywords", Value: "security"},
		{Name: "classification", Value: "internal"},
	}, out.Props)
	assert.Equal(t, []catalogs.Link{
		{Href: "https://csrc.nist.gov", Rel: "alternate"},
		{Href: "https://wiki.example.com"},
	}, out.Links)
	require.Len(t, out.Roles, 2)
	assert.Equal(t, "Creator", out.Roles[0].Title)
	assert.Equal(t, "system-owner", out.Roles[1].ID)
	require.Len(t, out.Parties, 2)
	assert.Equal(t, "p-nist", out.Parties[0].UUID)
	assert.Equal(t, "p-acme", out.Parties[1].UUID)

	assert.Equal(t, prior.ResponsibleParties, out.ResponsibleParties)
	assert.Equal(t, "plan remarks", out.Remarks)

	assert.JSONEq(t, `"c"`, string(out.Extra["x-catalog"]))
	assert.JSONEq(t, `"p"`, string(out.Extra["x-plan"]))
	assert.JSONEq(t, `"from-catalog"`, string(out.Extra["x-shared"]))

	assert.Equal(t, VersionChange{From: "5.0.0", To: "5.1.1", Direction: VersionUpgrade}, vc)

	// Inputs are untouched.
	assert.Len(t, cat.Props, 1)
	out.Parties[0].Name = "changed"
	assert.Equal(t, "NIST", cat.Parties[0].Name)
}

func TestPreserveMetadataFreshStart(t *testing.T) {
	cat := catalogs.Metadata{Title: "Catalog", Version: "1.0", Remarks: "catalog only"}
	out, vc := PreserveMetadata(cat, nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "Catalog", out.Title)
	assert.Equal(t, "2025-01-01T00:00:00Z", out.LastModified)
	assert.Equal(t, "1.1.2", out.OSCALVersion, "defaults when the catalog omits it")
	assert.Empty(t, out.Remarks)
	assert.Equal(t, VersionUnknown, vc.Direction)
}

func TestPreserveMetadataPriorWithoutTitle(t *testing.T) {
	out, _ := PreserveMetadata(catalogs.Metadata{Title: "Catalog"}, &catalogs.Metadata{}, time.Now())
	assert.Equal(t, "Catalog", out.Title)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		from, to string
		want     VersionDirection
	}{
		{"5.0.0", "5.1.1", VersionUpgrade},
		{"v5.1", "5.1.0", VersionSame},
		{"5.1.1", "4.0", VersionDowngrade},
		{"rev4", "rev5", VersionUnknown},
		{"rev5", "rev5", VersionSame},
		{"", "5.1.1", VersionUnknown},
		{"5.1.1", "", VersionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.from, tt.to).Direction)
		})
	}
}
