package ssp

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the assessed implementation status of a requirement.
type Status string

// Implementation statuses.
const (
	StatusNotAssessed      Status = "not-assessed"
	StatusEffective        Status = "effective"
	StatusAlternateControl Status = "alternate-control"
	StatusIneffective      Status = "ineffective"
	StatusNoVisibility     Status = "no-visibility"
	StatusNotImplemented   Status = "not-implemented"
	StatusNotApplicable    Status = "not-applicable"
)

// DefaultStatus is assigned to requirements seeded from a new control.
const DefaultStatus = StatusNotAssessed

// Statuses lists every known status in display order.
func Statuses() []Status {
	return []Status{
		StatusNotAssessed,
		StatusEffective,
		StatusAlternateControl,
		StatusIneffective,
		StatusNoVisibility,
		StatusNotImplemented,
		StatusNotApplicable,
	}
}

// IsValid reports whether s is a known status. Unknown values read from a
// document are kept as-is, never rewritten.
func (s Status) IsValid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Label returns a human-readable label such as "Alternate Control".
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "-", " "))
}

// ParseStatus normalises user input ("Not Applicable", "not_applicable") to a Status.
func ParseStatus(s string) (Status, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	st := Status(norm)
	return st, st.IsValid()
}
