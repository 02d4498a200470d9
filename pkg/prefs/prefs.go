// Package prefs is a small persisted key/value store for user preferences.
//
// Values live in a flat YAML document (key: value). Writes go through a temp
// file and a rename, so another process watching the file never sees a torn
// document.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notelin/internal/fsutil"
)

const (
	// DefaultFilename is the preferences file name used inside a data directory.
	DefaultFilename = "preferences.yaml"

	// SortMethodKey holds the name of the note list ordering.
	SortMethodKey = "notes.sort_method"

	debounceDelay = 50 * time.Millisecond
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store holds preferences in memory and mirrors them to a YAML file.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	values   map[string]string
	writes   int
	watching bool
}

// Open loads the preferences at path. A missing file yields an empty store;
// it is created on the first Set.
func Open(path string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve preferences path: %w", err)
	}
	s := &Store{
		path:   abs,
		logger: slog.New(slog.DiscardHandler),
		values: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and writes the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.values[key]; ok && old == value {
		return nil
	}
	next := maps.Clone(s.values)
	next[key] = value

	data, err := yaml.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0644); err != nil {
		return err
	}

	s.values = next
	s.writes++
	s.logger.Debug("preference saved", "key", key, "value", value)
	return nil
}

// Snapshot returns a copy of every stored preference.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Reload re-reads the file and reports whether anything changed.
func (s *Store) Reload() (bool, error) {
	values, err := s.read()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if maps.Equal(values, s.values) {
		return false, nil
	}
	s.values = values
	return true, nil
}

func (s *Store) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// Watch reports changes made to the file by other processes. A snapshot is
// sent after each burst of file events that altered the stored values.
// The channel is closed when ctx ends.
func (s *Store) Watch(ctx context.Context) (<-chan map[string]string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: atomic writes replace the file inode.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan map[string]string, 1)
	s.setWatching(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer s.setWatching(false)
		defer watcher.Close()

		var fire <-chan time.Time
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != s.path || fsutil.IsTempFile(event.Name) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				s.logger.Debug("preferences event", "op", event.Op.String())
				if timer == nil {
					timer = time.NewTimer(debounceDelay)
				} else {
					timer.Reset(debounceDelay)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				changed, err := s.Reload()
				if err != nil {
					// Half-edited file from an external editor; wait for the next event.
					s.logger.Warn("failed to reload preferences", "error", err)
					continue
				}
				if !changed {
					continue
				}
				select {
				case out <- s.Snapshot():
				case <-ctx.Done():
					return nil
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("fsnotify error", "error", err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("preferences watcher panic", "error", err)
	}))

	return out, nil
}

func (s *Store) setWatching(v bool) {
	s.mu.Lock()
	s.watching = v
	s.mu.Unlock()
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path     string            `json:"path"`
	Values   map[string]string `json:"values"`
	Writes   int               `json:"writes"`
	Watching bool              `json:"watching"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Path:     s.path,
		Values:   maps.Clone(s.values),
		Writes:   s.writes,
		Watching: s.watching,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "preferences"
}

var (
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
