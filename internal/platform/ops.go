package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/notelin/pkg/adapters/fs"
	"github.com/aretw0/notelin/pkg/adapters/memory"
	"github.com/aretw0/notelin/pkg/adapters/sqlite"
	"github.com/aretw0/notelin/pkg/core"
	"github.com/aretw0/notelin/pkg/prefs"
)

// Init opens the storage adapter for the data directory dir and returns it
// initialized. dir is adapter-specific: the sqlite adapter keeps its database
// file there, the fs adapter a notes directory; the memory adapter ignores it.
func Init(ctx context.Context, dir string, opts ...Option) (core.Repository, error) {
	o := buildOptions(opts)

	if o.repository != nil {
		if err := o.repository.Initialize(ctx); err != nil {
			return nil, err
		}
		return o.repository, nil
	}

	var repo core.Repository
	switch o.adapter {
	case AdapterSQLite:
		repo = initSQLite(dir, o)
	case AdapterFS:
		repo = initFS(dir, o)
	case AdapterMemory:
		repo = memory.NewRepository()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// DataDir resolves dir under the dev safety rules: under `go run` and
// `go test` it is re-rooted into a temporary directory unless WithDevSafety(false).
func DataDir(dir string, opts ...Option) string {
	return resolveDataDir(dir, buildOptions(opts))
}

// PreferencesPath returns the preferences file for the data directory dir.
func PreferencesPath(dir string, opts ...Option) string {
	o := buildOptions(opts)
	name, _ := o.config["preferences"].(string)
	if name == "" {
		name = prefs.DefaultFilename
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(resolveDataDir(dir, o), name)
}

func useTemp(o *options) (temp bool, devSafety bool) {
	tempDir, _ := o.config["temp_dir"].(bool)
	// Default to safe when dev_safety is not set.
	devSafety = true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}
	return tempDir || (IsDevRun() && devSafety), devSafety
}

func resolveDataDir(dir string, o *options) string {
	temp, _ := useTemp(o)
	return ResolveDataDir(dir, temp)
}

// storagePath resolves the location named by WithDatabase, or def, inside
// the data directory and logs the sandbox in use.
func storagePath(dir string, o *options, def string) string {
	database, _ := o.config["database"].(string)

	temp, devSafety := useTemp(o)
	resolved := ResolveDataDir(dir, temp)

	if IsDevRun() && o.logger != nil {
		if devSafety {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	if o.logger != nil && temp && resolved != filepath.Clean(dir) {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", dir, "resolved_path", resolved)
	}

	if database == "" {
		database = def
	}
	if filepath.IsAbs(database) {
		return database
	}
	return filepath.Join(resolved, database)
}

// initSQLite opens the database file of the data directory.
func initSQLite(dir string, o *options) core.Repository {
	mustExist, _ := o.config["must_exist"].(bool)
	return sqlite.NewRepository(sqlite.Config{
		Path:      storagePath(dir, o, sqlite.DefaultFilename),
		MustExist: mustExist,
		Logger:    o.logger,
	})
}

// initFS opens the Markdown notes directory of the data directory.
func initFS(dir string, o *options) core.Repository {
	mustExist, _ := o.config["must_exist"].(bool)
	return fs.NewRepository(fs.Config{
		Path:      storagePath(dir, o, fs.DefaultDir),
		MustExist: mustExist,
		Logger:    o.logger,
	})
}
