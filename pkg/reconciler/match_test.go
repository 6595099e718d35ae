package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

func TestMatch(t *testing.T) {
	controls := []catalogs.Control{{ID: "AC-1"}, {ID: "AC-2"}, {ID: "AU-2"}}
	reqs := []ssp.ImplementedRequirement{
		{UUID: "r-sc99", ControlID: "SC-99"},
		{UUID: "r-ac2", ControlID: "AC-2"},
		{UUID: "r-ac1", ControlID: "AC-1"},
		{UUID: "r-pm1", ControlID: "PM-1"},
	}

	pairs, warnings := Match(controls, reqs)
	assert.Empty(t, warnings)
	require.Len(t, pairs, 5)

	ids := make([]string, len(pairs))
	for i, p := range pairs {
		ids[i] = p.ControlID()
	}
	assert.Equal(t, []string{"AC-1", "AC-2", "AU-2", "SC-99", "PM-1"}, ids)

	assert.Equal(t, "r-ac1", pairs[0].Requirement.UUID)
	assert.Equal(t, "r-ac2", pairs[1].Requirement.UUID)
	assert.Nil(t, pairs[2].Requirement)
	assert.Nil(t, pairs[3].Control)
	assert.Equal(t, "r-sc99", pairs[3].Requirement.UUID)
}

func TestMatchIsCaseSensitive(t *testing.T) {
	pairs, _ := Match(
		[]catalogs.Control{{ID: "ac-1"}},
		[]ssp.ImplementedRequirement{{UUID: "u", ControlID: "AC-1"}},
	)
	require.Len(t, pairs, 2)
	assert.Nil(t, pairs[0].Requirement)
	assert.Nil(t, pairs[1].Control)
}

func TestMatchDuplicatesAndMissingIDs(t *testing.T) {
	controls := []catalogs.Control{{ID: "AC-1"}}
	reqs := []ssp.ImplementedRequirement{
		{UUID: "first", ControlID: "AC-1"},
		{UUID: "blank"},
		{UUID: "second", ControlID: "AC-1"},
		{UUID: "old-1", ControlID: "XX-1"},
		{UUID: "old-2", ControlID: "XX-1"},
	}

	pairs, warnings := Match(controls, reqs)
	require.Len(t, pairs, 2)
	assert.Equal(t, "first", pairs[0].Requirement.UUID)
	assert.Equal(t, "old-1", pairs[1].Requirement.UUID)

	require.Len(t, warnings, 3)
	assert.Equal(t, errors.WarningMissingID, warnings[0].Kind)
	assert.Equal(t, "control-implementation.implemented-requirements[1]", warnings[0].Path)
	assert.Contains(t, warnings[0].Message, "blank")

	assert.Equal(t, errors.WarningAmbiguousMatch, warnings[1].Kind)
	assert.Equal(t, "AC-1", warnings[1].ControlID)
	assert.Contains(t, warnings[1].Message, "second")

	assert.Equal(t, errors.WarningAmbiguousMatch, warnings[2].Kind)
	assert.Contains(t, warnings[2].Message, "old-2")
}

func TestMatchEmpty(t *testing.T) {
	pairs, warnings := Match(nil, nil)
	assert.Empty(t, pairs)
	assert.Empty(t, warnings)

	assert.Equal(t, "", Pair{}.ControlID())
}
