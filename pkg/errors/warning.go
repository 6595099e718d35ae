package errors

import "fmt"

// WarningKind classifies a recoverable, per-control problem.
type WarningKind string

const (
	// WarningMissingID is a catalog control or document requirement without an id.
	WarningMissingID WarningKind = "missing-id"
	// WarningDuplicateID is a second catalog control sharing an id; the first wins.
	WarningDuplicateID WarningKind = "duplicate-id"
	// WarningDuplicateStatement is a control with more than one top-level statement part.
	WarningDuplicateStatement WarningKind = "duplicate-statement"
	// WarningAmbiguousMatch is a prior document holding two requirements for one control.
	WarningAmbiguousMatch WarningKind = "ambiguous-match"
)

// IsStructural reports whether the kind describes catalog or document shape
// rather than a matching ambiguity.
func (k WarningKind) IsStructural() bool {
	switch k {
	case WarningMissingID, WarningDuplicateID, WarningDuplicateStatement:
		return true
	}
	return false
}

// Warning is a non-fatal problem recorded during flattening or matching.
// Warnings are accumulated and returned with the result, never swallowed.
type Warning struct {
	Kind      WarningKind `json:"kind" yaml:"kind"`
	ControlID string      `json:"control_id,omitempty" yaml:"control_id,omitempty"`
	Path      string      `json:"path,omitempty" yaml:"path,omitempty"` // location in the source tree
	Message   string      `json:"message" yaml:"message"`
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	switch {
	case w.ControlID != "" && w.Path != "":
		return fmt.Sprintf("%s: %s at %s: %s", w.Kind, w.ControlID, w.Path, w.Message)
	case w.ControlID != "":
		return fmt.Sprintf("%s: %s: %s", w.Kind, w.ControlID, w.Message)
	case w.Path != "":
		return fmt.Sprintf("%s at %s: %s", w.Kind, w.Path, w.Message)
	default:
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
}

// NewStructuralWarning records a missing or duplicate id or statement.
func NewStructuralWarning(kind WarningKind, controlID, path, message string) Warning {
	return Warning{Kind: kind, ControlID: controlID, Path: path, Message: message}
}

// NewAmbiguousMatchWarning records a duplicate control id in a prior document.
func NewAmbiguousMatchWarning(controlID, droppedUUID string) Warning {
	return Warning{
		Kind:      WarningAmbiguousMatch,
		ControlID: controlID,
		Message:   fmt.Sprintf("prior document has more than one requirement for this control; kept the first, ignored uuid %s", droppedUUID),
	}
}
