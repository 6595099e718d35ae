// Package application provides the application interface for sspmerge commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            report, err := client.Reconcile(cmd.Context(), cat, prior)
//	            // ... render report
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{}
//	cmd := reconcile.NewCommand(mock)
//	// ... test command behavior
package application

import (
	"github.com/rs/zerolog"

	oscalreports "github.com/keekar2022/OSCAL-Reports-sub003"
)

// ServerSettings are the configured defaults for the review API; serve flags
// override them.
type ServerSettings struct {
	Host        string
	Port        int
	PathPrefix  string
	CORSOrigins []string
}

// Application provides the application interface that commands need.
// The App struct from cmd/sspmerge/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns a reconciliation client.
	// Without options it returns the default cached client built from
	// configuration; with options it creates a new client whose options are
	// applied after the configured ones.
	Client(opts ...oscalreports.Option) (oscalreports.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Server returns the configured review API defaults.
	Server() ServerSettings

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
