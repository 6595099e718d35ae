package output

import (
	"bytes"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/table"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestYAMLFormatterUsesJSONNames(t *testing.T) {
	type row struct {
		ControlID string `json:"control-id"`
		Count     int    `json:"count"`
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, row{ControlID: "ac-1", Count: 2}))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "ac-1", back["control-id"])
	assert.Contains(t, buf.String(), "control-id: ac-1")
}

func TestTableFormatter(t *testing.T) {
	data := table.Data{
		Headers:         []string{"Control", "Status"},
		Rows:            [][]string{{"AC-1", "New"}, {"AU-2", "Unchanged"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "AC-1")
	assert.Contains(t, out, "Unchanged")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"total": 3}))
	assert.JSONEq(t, `{"total":3}`, buf.String())
}
