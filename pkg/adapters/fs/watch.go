package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notelin/internal/fsutil"
	"github.com/aretw0/notelin/pkg/core"
)

// Watch reports note files created, changed or removed by other programs.
// Bursts of events on one file are reported once, after Config.Debounce of
// quiet. Changes made through the repository itself are not reported.
// The channel is closed when ctx ends.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	out := make(chan core.Event, 16)
	d := newDebouncer(r.config.Debounce)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer r.setWatcherActive(false)
		// In-flight callbacks finish before out is closed.
		defer d.stopAndWait()
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				name, id, ok := r.noteFile(event)
				if !ok {
					continue
				}
				r.config.Logger.Debug("notes event", "name", name, "op", event.Op.String())
				d.add(name, func() {
					e, ok := r.settle(name, id)
					if !ok {
						return
					}
					select {
					case out <- e:
					case <-ctx.Done():
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				r.config.Logger.Error("fsnotify error", "error", err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("notes watcher panic", "error", err)
	}))

	return out, nil
}

// noteFile filters events down to note files.
func (r *Repository) noteFile(event fsnotify.Event) (string, int64, bool) {
	if event.Op == fsnotify.Chmod {
		return "", 0, false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || fsutil.IsTempFile(base) {
		return "", 0, false
	}
	id, ok := parseName(base)
	if !ok {
		return "", 0, false
	}
	return base, id, true
}

// settle looks at a file once its events have quieted down and decides what
// to report. Changes the repository made itself are dropped.
func (r *Repository) settle(name string, id int64) (core.Event, bool) {
	e := core.Event{Type: core.EventEdited, Position: -1, NoteID: id}
	info, err := os.Stat(filepath.Join(r.Path, name))
	if os.IsNotExist(err) {
		e.Type = core.EventDeleted
	} else if err != nil {
		r.config.Logger.Warn("failed to stat changed note", "name", name, "error", err)
		return core.Event{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	own, known := r.own[name]
	switch {
	case e.Type == core.EventDeleted && known && own.deleted:
		delete(r.own, name)
		return core.Event{}, false
	case e.Type == core.EventEdited && known && !own.deleted && own.mtime.Equal(info.ModTime()):
		return core.Event{}, false
	}
	delete(r.own, name)
	return e, true
}

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

// debouncer runs the latest callback added for a key once no other callback
// was added for that key during delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// stopAndWait drops pending callbacks and waits for running ones.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
