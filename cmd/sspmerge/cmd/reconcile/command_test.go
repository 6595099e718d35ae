package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oscalreports "github.com/keekar2022/OSCAL-Reports-sub003"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

func writeCatalog(t *testing.T, dir string, cat *catalogs.Catalog) string {
	t.Helper()
	data, err := catalogs.Marshal(cat, catalogs.FormatJSON)
	require.NoError(t, err)
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func execute(t *testing.T, format string, args ...string) (string, string, error) {
	t.Helper()
	app := &application.Mock{OutputFormatFunc: func() string { return format }}
	cmd := NewCommand(app)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type jsonReport struct {
	Counts struct {
		New       int `json:"new"`
		Changed   int `json:"changed"`
		Unchanged int `json:"unchanged"`
		Removed   int `json:"removed"`
	} `json:"counts"`
	Entries []struct {
		ControlID string `json:"control_id"`
		Status    string `json:"status"`
	} `json:"entries"`
}

func TestReconcileFreshJSON(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), catalogs.NewTestCatalog())

	stdout, _, err := execute(t, "json", "--catalog", path)
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 5, report.Counts.New)
	require.Len(t, report.Entries, 5)
	assert.Equal(t, "AC-2(1)", report.Entries[2].ControlID)
}

func TestReconcileWithPriorAndOnly(t *testing.T) {
	dir := t.TempDir()

	first, err := oscalreports.Reconcile(context.Background(), catalogs.NewTestCatalog(), nil)
	require.NoError(t, err)
	priorPath := filepath.Join(dir, "ssp.yaml")
	require.NoError(t, ssp.SaveFile(first.Document, priorPath))

	cat := catalogs.NewTestCatalog()
	cat.Groups[1].Controls[0].Title = "Event Logging and Review"
	path := writeCatalog(t, dir, cat)

	stdout, _, err := execute(t, "json", "--catalog", path, "--ssp", priorPath, "--only", "changed")
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 1, report.Counts.Changed)
	assert.Equal(t, 4, report.Counts.Unchanged)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, "AU-2", report.Entries[0].ControlID)
	assert.Equal(t, "changed", report.Entries[0].Status)
}

func TestReconcileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, catalogs.NewTestCatalog())
	out := filepath.Join(dir, "merged", "ssp.json")

	_, _, err := execute(t, "json", "--catalog", path, "--out", out)
	require.NoError(t, err)

	doc, err := ssp.LoadFile(out)
	require.NoError(t, err)
	assert.Len(t, doc.Requirements(), 5)
	assert.FileExists(t, oscalreports.ProvenancePath(out))

	out2 := filepath.Join(dir, "plain.json")
	_, _, err = execute(t, "json", "--catalog", path, "--out", out2, "--no-provenance")
	require.NoError(t, err)
	assert.NoFileExists(t, oscalreports.ProvenancePath(out2))
}

func TestReconcileExitCode(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, catalogs.NewTestCatalog())

	_, _, err := execute(t, "json", "--catalog", path, "--exit-code")
	assert.ErrorIs(t, err, ErrChangesDetected)

	out := filepath.Join(dir, "ssp.json")
	_, _, err = execute(t, "json", "--catalog", path, "--out", out)
	require.NoError(t, err)

	_, _, err = execute(t, "json", "--catalog", path, "--ssp", out, "--exit-code")
	assert.NoError(t, err)
}

func TestReconcileTable(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), catalogs.NewTestCatalog())

	stdout, _, err := execute(t, "table", "--catalog", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "AC-1")
	assert.Contains(t, stdout, "Boundary Protection")
	assert.Contains(t, stdout, "5 new")
}

func TestReconcileStdin(t *testing.T) {
	data, err := catalogs.Marshal(catalogs.NewTestCatalog(), catalogs.FormatYAML)
	require.NoError(t, err)

	cmd := NewCommand(&application.Mock{})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetIn(bytes.NewReader(data))
	cmd.SetArgs([]string{"--catalog", "-"})
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(strings.TrimSpace(stdout.String()), "{"))
}

func TestReconcileErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, catalogs.NewTestCatalog())

	_, _, err := execute(t, "json")
	require.Error(t, err, "catalog flag is required")

	_, _, err = execute(t, "json", "--catalog", path, "--only", "moved")
	assert.True(t, errors.IsValidationError(err))

	_, _, err = execute(t, "json", "--catalog", filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	empty := writeCatalog(t, t.TempDir(), &catalogs.Catalog{Metadata: catalogs.Metadata{Title: "empty"}})
	_, _, err = execute(t, "json", "--catalog", empty)
	assert.True(t, errors.IsMalformedCatalog(err))

	_, _, err = execute(t, "xml", "--catalog", path)
	require.Error(t, err)
}

func TestFiltered(t *testing.T) {
	report, err := oscalreports.Reconcile(context.Background(), catalogs.NewTestCatalog(), nil)
	require.NoError(t, err)

	assert.Same(t, report, filtered(report, nil))

	view := filtered(report, nil)
	assert.Len(t, view.Entries, 5)

	statuses, err := parseStatuses([]string{"removed"})
	require.NoError(t, err)
	view = filtered(report, statuses)
	assert.Empty(t, view.Entries)
	assert.Len(t, report.Entries, 5)
	assert.Equal(t, report.Counts, view.Counts)
}
