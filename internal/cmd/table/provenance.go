package table

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/provenance"
)

// ProvenanceToTableData converts field provenance to table format, one row
// per field, sorted by key. Only keys matching one of patterns are kept.
func ProvenanceToTableData(m provenance.Map, patterns []string) Data {
	keys := make([]string, 0, len(m))
	for key := range m {
		if MatchField(key, patterns) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var rows [][]string
	for _, key := range keys {
		history := m[key]
		if len(history) == 0 {
			continue
		}
		latest := history[len(history)-1]
		changed := ""
		if latest.Changed {
			changed = "→"
		}
		rows = append(rows, []string{
			key,
			Label(string(latest.Owner)),
			changed,
			formatTimestamp(latest.Timestamp),
			orDash(latest.Reason),
		})
	}

	return Data{
		Headers: []string{"Field", "Owner", "Changed", "When", "Reason"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // Field
			AlignLeft,   // Owner
			AlignCenter, // Changed
			AlignLeft,   // When
			AlignLeft,   // Reason
		},
	}
}

// MatchField checks if a field matches any of the provided patterns.
// Supports wildcard matching (e.g., "requirement:AC-*:title").
// Matching is case-insensitive.
func MatchField(field string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	fieldLower := strings.ToLower(field)
	for _, pattern := range patterns {
		patternLower := strings.ToLower(pattern)

		matched, err := filepath.Match(patternLower, fieldLower)
		if err == nil && matched {
			return true
		}

		// Prefix form: "requirement:ac-1:*" matches every field of AC-1
		if strings.HasSuffix(patternLower, "*") && strings.HasPrefix(fieldLower, strings.TrimSuffix(patternLower, "*")) {
			return true
		}
	}

	return false
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(constants.TimeFormatISO8601)
}
