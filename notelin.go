package notelin

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notelin/internal/platform"
	"github.com/aretw0/notelin/pkg/bus"
	"github.com/aretw0/notelin/pkg/controller"
	"github.com/aretw0/notelin/pkg/core"
	"github.com/aretw0/notelin/pkg/prefs"
)

// --- Configuration ---

// Option defines a functional option for configuring notelin.
type Option = platform.Option

// Adapter names.
const (
	AdapterSQLite = platform.AdapterSQLite
	AdapterFS     = platform.AdapterFS
	AdapterMemory = platform.AdapterMemory
)

// WithAdapter selects the storage adapter ("sqlite", "fs" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithDatabase overrides the database file or notes directory name inside the
// data directory.
func WithDatabase(name string) Option {
	return platform.WithDatabase(name)
}

// WithPreferences overrides the preferences file name inside the data directory.
func WithPreferences(name string) Option {
	return platform.WithPreferences(name)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the database or notes directory to already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithDevSafety controls the `go run` / `go test` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock overrides the time source of the store.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// --- Factory ---

// New opens the note store of a data directory.
func New(ctx context.Context, dataDir string, opts ...Option) (*core.Service, error) {
	return platform.New(ctx, dataDir, opts...)
}

// App bundles what the screens of one data directory share: the note store,
// the preferences and the event bus.
type App struct {
	Store  *core.Service
	Prefs  *prefs.Store
	Events *bus.Bus

	logger *slog.Logger
}

// Open wires an App for dataDir.
func Open(ctx context.Context, dataDir string, opts ...Option) (*App, error) {
	logger := platform.LoggerFrom(opts...)

	store, err := platform.New(ctx, dataDir, opts...)
	if err != nil {
		return nil, err
	}

	p, err := prefs.Open(platform.PreferencesPath(dataDir, opts...), prefs.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		Store:  store,
		Prefs:  p,
		Events: bus.New(bus.WithLogger(logger)),
		logger: logger,
	}, nil
}

// NewListController creates the list screen controller.
func (a *App) NewListController(view controller.ListView) *controller.ListController {
	return controller.NewListController(a.Store, a.Prefs, view, controller.WithLogger(a.logger))
}

// NewEditController creates an edit screen controller publishing on a.Events.
func (a *App) NewEditController(view controller.EditView) *controller.EditController {
	return controller.NewEditController(a.Store, a.Events, view, controller.WithLogger(a.logger))
}

// Logger returns the logger the app was opened with.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Components lists the introspectable parts of the app.
func (a *App) Components() []introspection.Component {
	components := []introspection.Component{a.Store}
	if c, ok := a.Store.Repository().(introspection.Component); ok {
		components = append(components, c)
	}
	return append(components, a.Prefs, a.Events)
}

// Close releases the bus and the store.
func (a *App) Close() error {
	a.Events.Close()
	return a.Store.Close()
}

// --- Safety & Utils ---

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// ResolveDataDir determines the actual data directory based on safety rules.
func ResolveDataDir(userPath string, forceTemp bool) string {
	return platform.ResolveDataDir(userPath, forceTemp)
}

// FindDataDir recursively looks upwards for a .notelin data directory.
func FindDataDir(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
