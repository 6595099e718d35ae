// Package authority declares which side owns each field of a merged record:
// the catalog (source of truth for framework text), the document author, or
// the engine itself.
package authority

import (
	"path/filepath"
)

// Owner is the side whose value wins for a field.
type Owner string

const (
	// OwnerCatalog fields are overwritten from the current catalog on every merge.
	OwnerCatalog Owner = "catalog"
	// OwnerDocument fields are carried verbatim from the prior document.
	OwnerDocument Owner = "document"
	// OwnerEngine fields are written by the engine (fingerprints, timestamps).
	OwnerEngine Owner = "engine"
)

// Resource is the kind of record a field belongs to.
type Resource string

const (
	// ResourceRequirement is an implemented requirement.
	ResourceRequirement Resource = "requirement"
	// ResourceMetadata is the document metadata block.
	ResourceMetadata Resource = "metadata"
)

// Authority determines which side owns each field
type Authority interface {
	// Find returns the ownership entry for a specific field
	Find(fieldPath string, resource Resource) *Field

	// List returns all ownership entries for a resource
	List(resource Resource) []Field

	// Owner returns the owner of a field, defaulting to the document.
	Owner(fieldPath string, resource Resource) Owner
}

// Field defines the owner of a field path
type Field struct {
	Path     string `json:"path" yaml:"path"`         // e.g., "parts", "metadata.version"
	Owner    Owner  `json:"owner" yaml:"owner"`       // Which side is authoritative
	Priority int    `json:"priority" yaml:"priority"` // Priority (higher wins when patterns overlap)
}

// authorities provides the fixed ownership table
type authorities struct {
	requirement []Field
	metadata    []Field
}

// New creates the standard ownership table.
func New() Authority {
	return &authorities{
		requirement: defaultRequirementFields(),
		metadata:    defaultMetadataFields(),
	}
}

// Find returns the ownership entry for a specific field
func (a *authorities) Find(fieldPath string, resource Resource) *Field {
	return ByField(fieldPath, a.List(resource))
}

// List returns all ownership entries for a resource
func (a *authorities) List(resource Resource) []Field {
	switch resource {
	case ResourceRequirement:
		return a.requirement
	case ResourceMetadata:
		return a.metadata
	default:
		return nil
	}
}

// Owner returns the owner of a field. Fields missing from the table belong to
// the document so that nothing unknown is ever overwritten.
func (a *authorities) Owner(fieldPath string, resource Resource) Owner {
	if f := a.Find(fieldPath, resource); f != nil {
		return f.Owner
	}
	return OwnerDocument
}

// ByField returns the highest priority entry for a given field path
func ByField(fieldPath string, fields []Field) *Field {
	var bestMatch *Field
	var bestPriority int
	var bestMatchLength int

	for i, f := range fields {
		if MatchesPattern(fieldPath, f.Path) {
			// Prioritize by: 1) priority, 2) pattern specificity (length), 3) order
			patternLength := len(f.Path)
			if bestMatch == nil || f.Priority > bestPriority ||
				(f.Priority == bestPriority && patternLength > bestMatchLength) {
				bestMatch = &fields[i]
				bestPriority = f.Priority
				bestMatchLength = patternLength
			}
		}
	}

	return bestMatch
}

// MatchesPattern checks if a field path matches a pattern (supports * wildcards)
func MatchesPattern(fieldPath, pattern string) bool {
	// Handle exact matches
	if fieldPath == pattern {
		return true
	}

	// Handle simple wildcard at the end
	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(fieldPath) >= len(prefix) && fieldPath[:len(prefix)] == prefix
	}

	// Handle filepath.Match patterns
	matched, err := filepath.Match(pattern, fieldPath)
	if err != nil {
		return false
	}
	return matched
}

// FilterByOwner returns only the entries owned by owner, in table order
func FilterByOwner(fields []Field, owner Owner) []Field {
	var filtered []Field
	for _, f := range fields {
		if f.Owner == owner {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// defaultRequirementFields returns the ownership of implemented requirement fields
func defaultRequirementFields() []Field {
	return []Field{
		// Identity - assigned once, never regenerated
		{Path: "uuid", Owner: OwnerDocument, Priority: 100},
		{Path: "control-id", Owner: OwnerDocument, Priority: 100},

		// Catalog cache - the catalog is the source of truth
		{Path: "class", Owner: OwnerCatalog, Priority: 100},
		{Path: "title", Owner: OwnerCatalog, Priority: 100},
		{Path: "params", Owner: OwnerCatalog, Priority: 100},
		{Path: "props", Owner: OwnerCatalog, Priority: 100},
		{Path: "parts", Owner: OwnerCatalog, Priority: 100},
		{Path: "links", Owner: OwnerCatalog, Priority: 100},

		// Engine bookkeeping stored as a namespaced prop
		{Path: "props.engine", Owner: OwnerEngine, Priority: 110},

		// Implementation details - written by the document author
		{Path: "status", Owner: OwnerDocument, Priority: 100},
		{Path: "description", Owner: OwnerDocument, Priority: 100},
		{Path: "responsible-party", Owner: OwnerDocument, Priority: 100},
		{Path: "consumer-guidance", Owner: OwnerDocument, Priority: 100},
		{Path: "cloud-responsibility", Owner: OwnerDocument, Priority: 100},
		{Path: "control-type", Owner: OwnerDocument, Priority: 100},
		{Path: "testing-method", Owner: OwnerDocument, Priority: 100},
		{Path: "testing-frequency", Owner: OwnerDocument, Priority: 100},
		{Path: "last-test-date", Owner: OwnerDocument, Priority: 100},
		{Path: "risk-rating", Owner: OwnerDocument, Priority: 100},
		{Path: "history", Owner: OwnerDocument, Priority: 100},
		{Path: "remarks", Owner: OwnerDocument, Priority: 100},
		{Path: "extra.*", Owner: OwnerDocument, Priority: 90},
	}
}

// defaultMetadataFields returns the ownership of document metadata fields
func defaultMetadataFields() []Field {
	return []Field{
		// Framework identity - the catalog is the source of truth
		{Path: "published", Owner: OwnerCatalog, Priority: 100},
		{Path: "version", Owner: OwnerCatalog, Priority: 100},
		{Path: "oscal-version", Owner: OwnerCatalog, Priority: 100},
		{Path: "document-ids", Owner: OwnerCatalog, Priority: 100},
		{Path: "props", Owner: OwnerCatalog, Priority: 100},
		{Path: "links", Owner: OwnerCatalog, Priority: 100},
		{Path: "roles", Owner: OwnerCatalog, Priority: 100},
		{Path: "parties", Owner: OwnerCatalog, Priority: 100},
		{Path: "extra.*", Owner: OwnerCatalog, Priority: 90},

		// Stamped by the engine on every run
		{Path: "last-modified", Owner: OwnerEngine, Priority: 100},

		// Document-specific
		{Path: "title", Owner: OwnerDocument, Priority: 100},
		{Path: "responsible-parties", Owner: OwnerDocument, Priority: 100},
		{Path: "remarks", Owner: OwnerDocument, Priority: 100},
	}
}
