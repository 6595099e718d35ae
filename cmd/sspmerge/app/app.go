// Package app provides the application context and dependency management
// for the sspmerge CLI. It centralizes configuration, logging, and the
// lifecycle of the reconciliation client shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	oscalreports "github.com/keekar2022/OSCAL-Reports-sub003"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the sspmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client oscalreports.Client
}

// New creates a new App instance with the given version information.
// The app is initialized from the loaded configuration, which can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Server returns the configured review API defaults.
func (a *App) Server() application.ServerSettings {
	return application.ServerSettings{
		Host:        a.config.Server.Host,
		Port:        a.config.Server.Port,
		PathPrefix:  a.config.Server.PathPrefix,
		CORSOrigins: a.config.Server.CORSOrigins,
	}
}

// Client returns the reconciliation client. Without options it returns the
// default instance, creating it lazily; with options it returns a new client
// configured from the application config and then opts.
func (a *App) Client(opts ...oscalreports.Option) (oscalreports.Client, error) {
	if len(opts) > 0 {
		c, err := oscalreports.New(append(a.clientOptions(), opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "client", "with custom options", err)
		}
		return c, nil
	}

	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	c, err := oscalreports.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// Shutdown performs graceful shutdown of the application. Reconciliation runs
// are bound to their command context, so only the cached client is released.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	a.client = nil
	a.mu.Unlock()

	a.logger.Debug().Msg("Application shut down")
	return nil
}

// resetClient drops the cached client after configuration changes.
func (a *App) resetClient() {
	a.mu.Lock()
	a.client = nil
	a.mu.Unlock()
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() []oscalreports.Option {
	return []oscalreports.Option{
		oscalreports.WithKeepRemoved(a.config.KeepRemoved),
		oscalreports.WithConcurrency(a.config.Concurrency),
		oscalreports.WithProvenance(a.config.Provenance),
	}
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c oscalreports.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
