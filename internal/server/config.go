package server

import (
	"time"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix   string
	MaxBodyBytes int64

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings; an empty APIKey disables authentication
	APIKey     string
	AuthHeader string

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         constants.DefaultServerPort,
		PathPrefix:   "/api/v1",
		MaxBodyBytes: constants.MaxRequestBodyBytes,
		CORSEnabled:  false,
		CORSOrigins:  []string{},
		AuthHeader:   "X-API-Key",
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
		IdleTimeout:  constants.ServerIdleTimeout,
	}
}
