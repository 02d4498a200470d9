package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/notelin/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterSQLite = "sqlite"
	AdapterFS     = "fs"
	AdapterMemory = "memory"
)

// options holds the internal configuration for the notelin service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	clock      func() time.Time
	config     map[string]interface{}
}

// Option defines a functional option for configuring notelin.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		repository: nil,
		logger:     nil,
		adapter:    AdapterSQLite,
		config:     make(map[string]interface{}),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the database or notes directory to already exist
// instead of creating it.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithDatabase overrides the database file (sqlite) or notes directory (fs)
// inside the data directory. An absolute path is used as is.
func WithDatabase(name string) Option {
	return func(o *options) {
		o.config["database"] = name
	}
}

// WithPreferences overrides the preferences file name inside the data
// directory. An absolute path is used as is.
func WithPreferences(name string) Option {
	return func(o *options) {
		o.config["preferences"] = name
	}
}

// WithLogger sets the logger for the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source of the service.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the adapter selected by WithAdapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name ("sqlite", "fs" or "memory").
// Defaults to "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) the data directory is re-rooted into a temporary directory
// to prevent accidental data loss.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// LoggerFrom returns the logger set with WithLogger, or a discard logger.
func LoggerFrom(opts ...Option) *slog.Logger {
	if o := buildOptions(opts); o.logger != nil {
		return o.logger
	}
	return slog.New(slog.DiscardHandler)
}
