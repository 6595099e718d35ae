package flatten

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/fingerprint"
)

func run(t *testing.T, format string, cat *catalogs.Catalog, args ...string) (string, string, error) {
	t.Helper()
	data, err := catalogs.Marshal(cat, catalogs.FormatYAML)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cmd := NewCommand(&application.Mock{OutputFormatFunc: func() string { return format }})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{path}, args...))
	err = cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFlattenJSON(t *testing.T) {
	stdout, _, err := run(t, "json", catalogs.NewTestCatalog(), "--fingerprints")
	require.NoError(t, err)

	var result Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, []string{"AC-1", "AC-2", "AC-2(1)", "AU-2", "SC-7"}, catalogs.ControlIDs(result.Controls))
	require.Len(t, result.Fingerprints, 5)
	assert.True(t, strings.HasPrefix(result.Fingerprints["SC-7"], fingerprint.Prefix))
	assert.Empty(t, result.Warnings)
}

func TestFlattenTableWarnings(t *testing.T) {
	cat := catalogs.NewTestCatalog()
	cat.Groups[1].Controls = append(cat.Groups[1].Controls, catalogs.NewTestControl("AC-1", "Duplicate", "Again."))

	stdout, stderr, err := run(t, "table", cat)
	require.NoError(t, err)
	assert.Contains(t, stdout, "AC-2(1)")
	assert.Contains(t, stdout, "5 controls")
	assert.Contains(t, stderr, "AC-1")
}

func TestFlattenSingleControl(t *testing.T) {
	stdout, _, err := run(t, "json", catalogs.NewTestCatalog(), "--control", "AU-2")
	require.NoError(t, err)

	var result Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, []string{"AU-2"}, catalogs.ControlIDs(result.Controls))

	_, _, err = run(t, "json", catalogs.NewTestCatalog(), "--control", "ZZ-9")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFlattenRequiresArgument(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	cmd.SetArgs(nil)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
