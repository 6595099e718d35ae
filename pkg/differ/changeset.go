// Package differ classifies catalog controls against prior implemented
// requirements and lists the field-level changes between them.
package differ

import (
	"fmt"
	"strings"
)

// Status is the reconciliation classification of one control.
type Status string

const (
	// StatusNew is a catalog control the prior document does not implement.
	StatusNew Status = "new"
	// StatusChanged is a control whose catalog text changed since the last merge.
	StatusChanged Status = "changed"
	// StatusUnchanged is a control whose catalog text is the same as at the last merge.
	StatusUnchanged Status = "unchanged"
	// StatusRemoved is a prior requirement whose control left the catalog.
	StatusRemoved Status = "removed"
)

// Statuses lists the classifications in report order.
func Statuses() []Status {
	return []Status{StatusNew, StatusChanged, StatusUnchanged, StatusRemoved}
}

// Method records how a matched pair was compared.
type Method string

const (
	// MethodNone applies to unmatched pairs.
	MethodNone Method = ""
	// MethodFingerprint compares the stored fingerprint with the current one.
	MethodFingerprint Method = "fingerprint"
	// MethodStructural compares class, title, params and parts field by field,
	// used when the requirement carries no stored fingerprint.
	MethodStructural Method = "structural"
)

// Classification is the outcome of classifying one matcher pair.
type Classification struct {
	Status             Status `json:"status"`
	Method             Method `json:"method,omitempty"`
	PriorFingerprint   string `json:"prior_fingerprint,omitempty"`
	CurrentFingerprint string `json:"current_fingerprint,omitempty"`
}

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific catalog-owned field.
type FieldChange struct {
	Path     string     `json:"path"`                // Field path (e.g., "parts[ac-1_smt].prose")
	OldValue string     `json:"old_value,omitempty"` // Previous value (string representation)
	NewValue string     `json:"new_value,omitempty"` // New value (string representation)
	Type     ChangeType `json:"type"`                // Type of change
	Patch    string     `json:"patch,omitempty"`     // Unified-style text patch for prose
}

// String returns a one-line description of the change.
func (c FieldChange) String() string {
	switch c.Type {
	case ChangeTypeAdd:
		return fmt.Sprintf("+ %s: %s", c.Path, truncate(c.NewValue))
	case ChangeTypeRemove:
		return fmt.Sprintf("- %s: %s", c.Path, truncate(c.OldValue))
	default:
		return fmt.Sprintf("~ %s: %s -> %s", c.Path, truncate(c.OldValue), truncate(c.NewValue))
	}
}

// Summarize renders a list of changes one per line.
func Summarize(changes []FieldChange) string {
	if len(changes) == 0 {
		return "No changes detected"
	}
	lines := make([]string, len(changes))
	for i, c := range changes {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

const maxValueLen = 60

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxValueLen {
		return s
	}
	return string(r[:maxValueLen-3]) + "..."
}
