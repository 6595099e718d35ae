// Package application provides test doubles for the command application interface.
package application

import (
	"github.com/rs/zerolog"

	oscalreports "github.com/keekar2022/OSCAL-Reports-sub003"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
)

var _ application.Application = (*Mock)(nil)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := reconcile.NewCommand(mock)
type Mock struct {
	ClientFunc       func(opts ...oscalreports.Option) (oscalreports.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	ServerFunc       func() application.ServerSettings
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Client returns a client using the mock function or a fresh default client.
func (m *Mock) Client(opts ...oscalreports.Option) (oscalreports.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return oscalreports.New(opts...)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Server returns review API defaults using the mock function or zero values.
func (m *Mock) Server() application.ServerSettings {
	if m.ServerFunc != nil {
		return m.ServerFunc()
	}
	return application.ServerSettings{}
}

// Version returns the version using the mock function or "test".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns the commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns the build date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns the builder using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}
