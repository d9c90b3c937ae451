package app

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/constants"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

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

	// Spoolman connection
	SpoolmanURL    string
	APIToken       string
	APITokenHeader string
	HTTPTimeout    time.Duration

	// Profiles
	OutputDir      string
	TablesFile     string
	StrictDeletion bool

	// Import
	BundleFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or .spoolsync.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config file", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigFileName)

		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		SpoolmanURL:    strings.TrimSpace(v.GetString("spoolman_url")),
		APIToken:       v.GetString("api_token"),
		APITokenHeader: v.GetString("api_token_header"),
		HTTPTimeout:    v.GetDuration("http_timeout"),

		OutputDir:      expandPath(v.GetString("output_dir")),
		TablesFile:     expandPath(v.GetString("tables_file")),
		StrictDeletion: v.GetBool("strict_deletion"),

		BundleFile: expandPath(v.GetString("bundle_file")),

		// An empty level lets -v/-q decide.
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = constants.DefaultHTTPTimeout
	}
	if config.SpoolmanURL == "" {
		return nil, errors.NewConfigError("spoolman_url", "cannot be empty", nil)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("spoolman_url", constants.DefaultSpoolmanURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("output_dir", DefaultOutputDir())
	v.SetDefault("bundle_file", constants.DefaultBundleFile)
}

// DefaultOutputDir returns PrusaSlicer's user filament profile directory.
func DefaultOutputDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "PrusaSlicer", "filament")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "filament")
	}
	return filepath.Join(home, ".config", "PrusaSlicer", "filament")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so flag values take
// precedence over the config file and env vars.
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

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are not overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
