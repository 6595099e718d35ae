package catalogs

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"catalog": {
			"uuid": "c1",
			"metadata": {"title": "JSON Catalog", "version": "2.0.0"},
			"controls": [{"id": "CM-1", "title": "Configuration Policy"}]
		}
	}`)

	cat, err := Parse(data, FormatJSON, "")
	require.NoError(t, err)
	assert.Equal(t, "c1", cat.UUID)
	assert.Equal(t, "2.0.0", cat.Metadata.Version)
	require.Len(t, cat.Controls, 1)
	assert.Equal(t, "CM-1", cat.Controls[0].ID)
}

func TestLoadFileYAML(t *testing.T) {
	cat, err := LoadFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Sample YAML Catalog", cat.Metadata.Title)
	assert.Equal(t, []string{"x-publisher-note"}, cat.Metadata.ExtraKeys())

	controls, warnings := Flatten(cat)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"AC-1", "AC-2", "AC-2(1)"}, ControlIDs(controls))
	assert.Equal(t, "Develop an access control policy.", controls[0].Statement().Prose)
}

func TestLoadFileSchemaViolation(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "invalid.json"))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedCatalog(err))

	var merr *errors.MalformedCatalogError
	require.True(t, errors.As(err, &merr))
	assert.NotEmpty(t, merr.Details)
	assert.Contains(t, merr.Details[0], "/catalog/groups/0/controls/0/id")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
	assert.False(t, errors.IsMalformedCatalog(err))
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{name: "truncated json", data: `{"catalog": {`, format: FormatJSON},
		{name: "no root key", data: `{"profile": {"metadata": {}}}`, format: FormatJSON},
		{name: "null root", data: `{"catalog": null}`, format: FormatJSON},
		{name: "metadata missing", data: `{"catalog": {"controls": []}}`, format: FormatJSON},
		{name: "broken yaml", data: "catalog:\n  metadata: [\n", format: FormatYAML},
		{name: "controls not a list", data: `{"catalog": {"metadata": {}, "controls": {"id": "x"}}}`, format: FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format, "test")
			require.Error(t, err)
			assert.True(t, errors.IsMalformedCatalog(err), "got %v", err)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("a.yml", nil))
	assert.Equal(t, FormatYAML, DetectFormat("a.YAML", []byte("{")))
	assert.Equal(t, FormatJSON, DetectFormat("a.json", nil))
	assert.Equal(t, FormatJSON, DetectFormat("-", []byte("  \n{\"catalog\":{}}")))
	assert.Equal(t, FormatYAML, DetectFormat("-", []byte("catalog:\n")))
}

func TestMarshalRoundTrip(t *testing.T) {
	cat := NewTestCatalog()
	cat.Metadata.Extra = map[string]json.RawMessage{"x-note": json.RawMessage(`"hello"`)}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(cat, format)
			require.NoError(t, err)

			back, err := Parse(data, format, "roundtrip")
			require.NoError(t, err)
			assert.Equal(t, cat.Metadata.Title, back.Metadata.Title)
			assert.JSONEq(t, `"hello"`, string(back.Metadata.Extra["x-note"]))

			want, _ := Flatten(cat)
			got, _ := Flatten(back)
			assert.Equal(t, want, got)
		})
	}
}
