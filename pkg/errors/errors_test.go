package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("control", "AC-1")
	assert.Equal(t, "control with ID AC-1 not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))

	wrapped := errors.Join(errors.New("failed"), err)
	assert.True(t, pkgerrors.IsNotFound(wrapped))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("status", "bogus", "unknown implementation status")
		assert.Equal(t, "validation failed for field status: unknown implementation status", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty document"}
		assert.Equal(t, "validation failed: empty document", err.Error())
	})
}

func TestMalformedCatalogError(t *testing.T) {
	base := errors.New("unexpected end of JSON input")
	err := pkgerrors.NewMalformedCatalogError("nist.json", "cannot decode", base)

	assert.Equal(t, "malformed catalog nist.json: cannot decode", err.Error())
	assert.True(t, pkgerrors.IsMalformedCatalog(err))
	assert.ErrorIs(t, err, base)

	err.Details = []string{"/catalog: missing property 'metadata'", "/catalog/groups/0: expected object"}
	assert.Contains(t, err.Error(), "2 problems")

	wrapped := fmt.Errorf("reconcile: %w", err)
	var target *pkgerrors.MalformedCatalogError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "nist.json", target.Source)
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("load", "catalog", "", nil))
	assert.NoError(t, pkgerrors.WrapValidation("f", nil))

	base := errors.New("boom")

	ioErr := pkgerrors.WrapIO("read", "/tmp/ssp.json", base)
	assert.Equal(t, "IO error during read of /tmp/ssp.json: boom", ioErr.Error())
	assert.ErrorIs(t, ioErr, base)

	parseErr := pkgerrors.WrapParse("yaml", "ssp.yaml", base)
	assert.Equal(t, "parse error in yaml file ssp.yaml: boom", parseErr.Error())

	resErr := pkgerrors.WrapResource("merge", "control", "AC-2", base)
	assert.Equal(t, "failed to merge control AC-2: boom", resErr.Error())

	valErr := pkgerrors.WrapValidation("uuid", base)
	assert.True(t, pkgerrors.IsValidationError(valErr))
}

func TestConfigError(t *testing.T) {
	base := errors.New("bad port")
	err := pkgerrors.NewConfigError("server", "invalid listen address", base)
	assert.Equal(t, "configuration error in server: invalid listen address", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestWarning(t *testing.T) {
	tests := []struct {
		name string
		w    pkgerrors.Warning
		want string
	}{
		{
			name: "id and path",
			w:    pkgerrors.NewStructuralWarning(pkgerrors.WarningDuplicateID, "AC-1", "groups[1].controls[0]", "duplicate control id, keeping first occurrence"),
			want: "duplicate-id: AC-1 at groups[1].controls[0]: duplicate control id, keeping first occurrence",
		},
		{
			name: "path only",
			w:    pkgerrors.NewStructuralWarning(pkgerrors.WarningMissingID, "", "groups[0].controls[3]", "control has no id"),
			want: "missing-id at groups[0].controls[3]: control has no id",
		},
		{
			name: "ambiguous",
			w:    pkgerrors.NewAmbiguousMatchWarning("SC-7", "u-2"),
			want: "ambiguous-match: SC-7: prior document has more than one requirement for this control; kept the first, ignored uuid u-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.w.String())
		})
	}

	assert.True(t, pkgerrors.WarningMissingID.IsStructural())
	assert.True(t, pkgerrors.WarningDuplicateID.IsStructural())
	assert.True(t, pkgerrors.WarningDuplicateStatement.IsStructural())
	assert.False(t, pkgerrors.WarningAmbiguousMatch.IsStructural())
}
