// Package serve provides the serve command for the review API.
package serve

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/server"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

// APIKeyEnv is read when --api-key is not given.
const APIKeyEnv = "SSPMERGE_API_KEY"

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	defaults := server.DefaultConfig()
	settings := app.Server()
	if settings.Host != "" {
		defaults.Host = settings.Host
	}
	if settings.Port != 0 {
		defaults.Port = settings.Port
	}
	if settings.PathPrefix != "" {
		defaults.PathPrefix = settings.PathPrefix
	}
	if len(settings.CORSOrigins) > 0 {
		defaults.CORSOrigins = settings.CORSOrigins
	}

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "management",
		Short:   "Serve the reconciliation review API",
		Long: `Start an HTTP server that runs reconciliations on request.

Endpoints (under --prefix):
  GET  /health      liveness, also served at /health
  GET  /stats       run counters since start
  POST /reconcile   {"catalog": ..., "document": ..., "keep_removed": bool}
  POST /flatten     {"catalog": ...}
  POST /validate    {"document": ...}

Catalogs and documents are OSCAL JSON with their root keys. The server keeps
no plans between requests. Set an API key with --api-key or ` + APIKeyEnv + `
to require authentication.`,
		Example: `  # Start on the configured host and port
  sspmerge serve

  # Listen on all interfaces with authentication
  SSPMERGE_API_KEY=s3cret sspmerge serve --host 0.0.0.0 --port 9000

  # Allow a review UI to call the API
  sspmerge serve --cors-origins https://review.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd, defaults)
			if err != nil {
				return err
			}
			return run(cmd, app, cfg)
		},
	}

	cmd.Flags().IntP("port", "p", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", defaults.CORSOrigins, "Allowed CORS origins (comma-separated)")
	cmd.Flags().String("api-key", "", "Require this API key (default $"+APIKeyEnv+")")
	cmd.Flags().String("auth-header", defaults.AuthHeader, "Authentication header name")
	cmd.Flags().Int64("max-body", defaults.MaxBodyBytes, "Maximum request body size in bytes")
	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// configFromFlags builds the server configuration from flags on top of defaults.
func configFromFlags(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	flags := cmd.Flags()

	cfg.Port, _ = flags.GetInt("port")
	cfg.Host, _ = flags.GetString("host")
	cfg.PathPrefix, _ = flags.GetString("prefix")
	cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
	cors, _ := flags.GetBool("cors")
	cfg.CORSEnabled = cors || len(cfg.CORSOrigins) > 0
	cfg.APIKey, _ = flags.GetString("api-key")
	cfg.AuthHeader, _ = flags.GetString("auth-header")
	cfg.MaxBodyBytes, _ = flags.GetInt64("max-body")
	cfg.ReadTimeout, _ = flags.GetDuration("read-timeout")
	cfg.WriteTimeout, _ = flags.GetDuration("write-timeout")
	cfg.IdleTimeout, _ = flags.GetDuration("idle-timeout")

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(APIKeyEnv)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, &errors.ValidationError{Field: "port", Value: cfg.Port, Message: "must be between 1 and 65535"}
	}
	if cfg.PathPrefix == "" || cfg.PathPrefix[0] != '/' {
		return cfg, &errors.ValidationError{Field: "prefix", Value: cfg.PathPrefix, Message: "must start with /"}
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, &errors.ValidationError{Field: "max-body", Value: cfg.MaxBodyBytes, Message: "must be positive"}
	}
	for name, d := range map[string]time.Duration{
		"read-timeout":  cfg.ReadTimeout,
		"write-timeout": cfg.WriteTimeout,
		"idle-timeout":  cfg.IdleTimeout,
	} {
		if d < 0 {
			return cfg, &errors.ValidationError{Field: name, Value: d.String(), Message: "must not be negative"}
		}
	}
	return cfg, nil
}

func addr(cfg server.Config) string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
