// Package config loads the CLI configuration.
//
// Values come from, in increasing priority: defaults, config.yaml inside the
// data directory, NOTELIN_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/notelin/internal/platform"
	"github.com/aretw0/notelin/pkg/prefs"
)

// Keys understood by Load. Flags with the same name (dashes instead of
// underscores) are bound automatically.
const (
	KeyDataDir     = "data_dir"
	KeyAdapter     = "adapter"
	KeyDatabase    = "database"
	KeyPreferences = "preferences"
	KeyLogFile     = "log_file"
	KeyVerbose     = "verbose"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. NOTELIN_DATA_DIR.
	EnvPrefix = "NOTELIN"

	// FileName is the config file looked up in the data directory.
	FileName = "config"

	// DefaultLogFile is the TUI log file name inside the data directory.
	DefaultLogFile = "notelin.log"
)

// Config holds the resolved CLI configuration.
type Config struct {
	DataDir     string // notes.db, preferences and logs live here
	Adapter     string // sqlite, fs or memory
	Database    string // database file, relative to DataDir unless absolute
	Preferences string // preferences file, relative to DataDir unless absolute
	LogFile     string // TUI log file, relative to DataDir unless absolute
	Verbose     bool

	// Source is the config file that was read, empty if none.
	Source string
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load resolves the configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyDataDir, platform.DefaultDataDir())
	v.SetDefault(KeyAdapter, platform.AdapterSQLite)
	v.SetDefault(KeyDatabase, "")
	v.SetDefault(KeyPreferences, prefs.DefaultFilename)
	v.SetDefault(KeyLogFile, DefaultLogFile)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{KeyDataDir, KeyAdapter, KeyDatabase, KeyPreferences, KeyLogFile, KeyVerbose} {
			if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	// The config file lives in the data directory, so that one key is
	// resolved before reading it.
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString(KeyDataDir))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		DataDir:     v.GetString(KeyDataDir),
		Adapter:     strings.ToLower(strings.TrimSpace(v.GetString(KeyAdapter))),
		Database:    v.GetString(KeyDatabase),
		Preferences: v.GetString(KeyPreferences),
		LogFile:     v.GetString(KeyLogFile),
		Verbose:     v.GetBool(KeyVerbose),
		Source:      v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, "data_dir must not be empty")
	}
	switch c.Adapter {
	case platform.AdapterSQLite, platform.AdapterFS, platform.AdapterMemory:
	default:
		errs = append(errs, fmt.Sprintf("adapter must be %q, %q or %q, got %q", platform.AdapterSQLite, platform.AdapterFS, platform.AdapterMemory, c.Adapter))
	}
	if strings.TrimSpace(c.Preferences) == "" {
		errs = append(errs, "preferences must not be empty")
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// LogPath returns the TUI log file path. A relative LogFile lives in the
// data directory, after the dev safety rules are applied to it.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return filepath.Join(platform.DataDir(c.DataDir), c.LogFile)
}

// PlatformOptions translates the configuration into storage options.
func (c *Config) PlatformOptions() []platform.Option {
	opts := []platform.Option{
		platform.WithAdapter(c.Adapter),
		platform.WithPreferences(c.Preferences),
	}
	if c.Database != "" {
		opts = append(opts, platform.WithDatabase(c.Database))
	}
	return opts
}
