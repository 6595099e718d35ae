package reconciler

import (
	"fmt"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/authority"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/fingerprint"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// ValidationResult represents the result of validating a document.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
}

// ValidationError represents a validation error.
type ValidationError struct {
	ResourceType authority.Resource `json:"resource_type"`
	ResourceID   string             `json:"resource_id,omitempty"`
	Field        string             `json:"field"`
	Message      string             `json:"message"`
}

// ValidationWarning represents a validation warning.
type ValidationWarning struct {
	ResourceType authority.Resource `json:"resource_type"`
	ResourceID   string             `json:"resource_id,omitempty"`
	Field        string             `json:"field"`
	Message      string             `json:"message"`
}

// IsValid returns true if validation passed.
func (v *ValidationResult) IsValid() bool {
	return v.Valid && len(v.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (v *ValidationResult) HasWarnings() bool {
	return len(v.Warnings) > 0
}

// String returns a string representation of the validation result.
func (v *ValidationResult) String() string {
	if v.IsValid() {
		if v.HasWarnings() {
			return fmt.Sprintf("Validation passed with %d warnings", len(v.Warnings))
		}
		return "Validation passed"
	}
	return fmt.Sprintf("Validation failed with %d errors", len(v.Errors))
}

// ValidateDocument checks the invariants a merged document must hold: one
// requirement per control id, and a unique, non-empty uuid on each.
// Unknown statuses and malformed fingerprints are reported as warnings, since
// the engine carries them through untouched.
func ValidateDocument(doc *ssp.Document) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if doc == nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "document",
			Message: "document is nil",
		})
		return result
	}

	errorf := func(id, field, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			ResourceType: authority.ResourceRequirement,
			ResourceID:   id,
			Field:        field,
			Message:      fmt.Sprintf(format, args...),
		})
	}
	warnf := func(id, field, format string, args ...any) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			ResourceType: authority.ResourceRequirement,
			ResourceID:   id,
			Field:        field,
			Message:      fmt.Sprintf(format, args...),
		})
	}

	if doc.UUID == "" {
		result.Errors = append(result.Errors, ValidationError{Field: "uuid", Message: "document uuid is empty"})
	}

	controls := make(map[string]int)
	uuids := make(map[string]string)
	for i, req := range doc.Requirements() {
		id := req.ControlID
		if id == "" {
			errorf(requirementPath(i), "control-id", "control-id is empty")
		} else if first, dup := controls[id]; dup {
			errorf(id, "control-id", "duplicate requirement (first at index %d, again at %d)", first, i)
		} else {
			controls[id] = i
		}

		if req.UUID == "" {
			errorf(id, "uuid", "uuid is empty")
		} else if other, dup := uuids[req.UUID]; dup {
			errorf(id, "uuid", "uuid %s already used by %s", req.UUID, other)
		} else {
			uuids[req.UUID] = id
		}

		if req.Status != "" && !req.Status.IsValid() {
			warnf(id, "status", "unknown status %q", req.Status)
		}
		if fp := req.Fingerprint(); fp != "" && !fingerprint.Valid(fp) {
			warnf(id, "props.engine", "malformed fingerprint %q", fp)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
