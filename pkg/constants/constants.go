// Package constants provides shared constants used throughout the reconciliation
// engine and its command-line and API front ends. This includes OSCAL vocabulary,
// engine limits, file permissions, and timeouts that must stay consistent.
package constants

import "time"

// OSCAL vocabulary
const (
	// EngineNamespace is the property namespace for values the engine itself writes
	EngineNamespace = "https://oscal-reports.io/ns/engine"

	// FingerprintPropName is the requirement property holding the last merged catalog fingerprint
	FingerprintPropName = "catalog-fingerprint"

	// StatementPartName is the part name carrying a control's normative statement
	StatementPartName = "statement"

	// GuidancePartName is the part name carrying supplemental guidance
	GuidancePartName = "guidance"

	// SortIDPropName is the cosmetic ordering property catalogs attach to controls
	SortIDPropName = "sort-id"

	// CatalogRootKey wraps a catalog in OSCAL JSON/YAML
	CatalogRootKey = "catalog"

	// SSPRootKey wraps a system security plan in OSCAL JSON/YAML
	SSPRootKey = "system-security-plan"

	// DefaultOSCALVersion is written on documents that start without a prior document
	DefaultOSCALVersion = "1.1.2"
)

// Requirement history limits
const (
	// MaxHistoryEntries caps the evidence-fetch history kept per requirement
	MaxHistoryEntries = 12
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ServerReadTimeout bounds reading a request body on the review API
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout bounds writing a response on the review API
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout closes idle keep-alive connections
	ServerIdleTimeout = 120 * time.Second

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout = 5 * time.Second
)

// Limit constants
const (
	// MaxRequestBodyBytes bounds a single reconcile request on the review API (32 MiB)
	MaxRequestBodyBytes = 32 << 20

	// DefaultServerPort is the default port for the review API
	DefaultServerPort = 8080
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format used in OSCAL timestamps
	TimeFormatISO8601 = time.RFC3339

	// DateFormat is the calendar-day key used when bounding history
	DateFormat = "2006-01-02"
)
