package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

// EnvPrefix prefixes every environment variable sspmerge reads, e.g.
// SSPMERGE_KEEP_REMOVED or SSPMERGE_SERVER_PORT.
const EnvPrefix = "SSPMERGE"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Reconciliation
	KeepRemoved bool
	Concurrency int
	Provenance  bool

	// Logging configuration
	LogLevel           string // --log-level flag
	ConfiguredLogLevel string // log_level from env or config file
	LogFormat          string
	LogOutput          string

	// Review API
	Server ServerConfig
}

// ServerConfig holds review API defaults.
type ServerConfig struct {
	Host        string
	Port        int
	PathPrefix  string
	CORSOrigins []string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (SSPMERGE_*, plus LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT)
// 3. .env files
// 4. Config file (path, or ~/.sspmerge.yaml, or ./.sspmerge.yaml)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Logging keeps the unprefixed names shared with other tools
	for _, key := range []string{"log_level", "log_format", "log_output"} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), strings.ToUpper(key)); err != nil {
			return nil, errors.WrapParse("env", key, err)
		}
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &errors.ConfigError{Component: "config", Message: "cannot read " + path, Err: err}
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".sspmerge")

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		KeepRemoved: v.GetBool("keep_removed"),
		Concurrency: v.GetInt("concurrency"),
		Provenance:  v.GetBool("provenance"),

		ConfiguredLogLevel: v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		LogOutput:          v.GetString("log_output"),

		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			PathPrefix:  v.GetString("server.path_prefix"),
			CORSOrigins: splitList(v.Get("server.cors_origins")),
		},
	}

	if config.Concurrency < 0 {
		return nil, &errors.ValidationError{Field: "concurrency", Value: config.Concurrency, Message: "must not be negative"}
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return nil, &errors.ValidationError{Field: "server.port", Value: config.Server.Port, Message: "out of range"}
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("format", "")
	v.SetDefault("keep_removed", false)
	v.SetDefault("concurrency", 0)
	v.SetDefault("provenance", true)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", constants.DefaultServerPort)
	v.SetDefault("server.path_prefix", "/api/v1")
	v.SetDefault("server.cors_origins", []string{})
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// DefaultConfigPath returns ~/.sspmerge.yaml, or "" when there is no home directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sspmerge.yaml")
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables that are already set, so the first
// file to define a key wins: .env.local takes precedence over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// splitList accepts a YAML list or a comma-separated env value.
func splitList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(t, ",")
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
