// Package fs implements core.Repository on a directory of Markdown files.
//
// Every note is one <id>.md file holding its title and dates as YAML
// frontmatter and its text as the body, so notes can be read and edited with
// any editor. Decoded files are cached in an index file next to them, which
// also remembers the last assigned ID so IDs are not reused after a delete.
// Watch reports edits made to the directory by other programs.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notelin/internal/fsutil"
	"github.com/aretw0/notelin/pkg/core"
	"github.com/aretw0/notelin/pkg/markdown"
)

const (
	// DefaultDir is the notes directory used inside a data directory.
	DefaultDir = "notes"

	// IndexFile is the cache file kept inside the notes directory.
	IndexFile = ".index.json"

	ext = ".md"

	defaultDebounce = 50 * time.Millisecond
)

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string        // notes directory
	MustExist bool          // fail instead of creating a missing directory
	Debounce  time.Duration // quiet period before Watch reports a file, 50ms when zero
	Logger    *slog.Logger
}

// Repository implements core.Repository using Markdown files.
type Repository struct {
	Path   string
	config Config
	cache  *cache

	// write serializes mutations so ID allocation and file writes stay in step.
	write sync.Mutex

	mu            sync.RWMutex
	own           map[string]ownChange
	writes        int
	watcherActive bool
}

// ownChange remembers the last change the repository made to a file so the
// watcher does not report it back.
type ownChange struct {
	mtime   time.Time
	deleted bool
}

// NewRepository creates a new filesystem-backed repository.
// No I/O happens until Initialize is called.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path),
		own:    make(map[string]ownChange),
	}
}

// Initialize prepares the directory and loads the index. It is idempotent.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("notes directory does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat notes directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("notes path is not a directory: %s", r.Path)
		}
	} else if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}

	if err := r.cache.Load(); err != nil {
		return err
	}

	names, err := r.files()
	if err != nil {
		return err
	}
	for _, name := range names {
		if id, ok := parseName(name); ok {
			r.cache.Reserve(id)
		}
	}
	r.config.Logger.Debug("notes directory opened", "path", r.Path, "files", len(names), "next_id", r.cache.NextID())
	return nil
}

// Close persists the index.
func (r *Repository) Close() error {
	r.write.Lock()
	defer r.write.Unlock()
	if err := r.cache.Save(); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	return nil
}

// Save writes the note file, allocating an ID for a note without one.
// The created date of an existing file is never changed.
func (r *Repository) Save(ctx context.Context, n core.Note) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.write.Lock()
	defer r.write.Unlock()

	if !n.HasID() {
		id, err := r.allocate()
		if err != nil {
			return 0, err
		}
		n.ID = id
	} else {
		existing, err := r.Get(ctx, n.ID)
		switch {
		case err == nil:
			n.CreatedDate = existing.CreatedDate
		case !errors.Is(err, core.ErrNotFound):
			return 0, err
		}
		r.cache.Reserve(n.ID)
	}

	content, err := markdown.FromNote(n).String()
	if err != nil {
		return 0, fmt.Errorf("encode note %d: %w", n.ID, err)
	}
	name := fileName(n.ID)
	path := filepath.Join(r.Path, name)
	if err := fsutil.WriteFileAtomic(path, []byte(content), 0644); err != nil {
		return 0, fmt.Errorf("write note %d: %w", n.ID, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat note %d: %w", n.ID, err)
	}
	r.cache.Set(name, newEntry(n, info.ModTime()))
	r.recordOwn(name, ownChange{mtime: info.ModTime()})
	return n.ID, nil
}

// allocate picks the next ID whose file does not exist yet. Files written by
// hand since the last List can hold IDs the index has not seen.
func (r *Repository) allocate() (int64, error) {
	for {
		id := r.cache.Allocate()
		_, err := os.Stat(filepath.Join(r.Path, fileName(id)))
		if os.IsNotExist(err) {
			return id, nil
		}
		if err != nil {
			return 0, fmt.Errorf("stat note %d: %w", id, err)
		}
	}
}

// Get reads a note by ID.
func (r *Repository) Get(ctx context.Context, id int64) (core.Note, error) {
	if err := ctx.Err(); err != nil {
		return core.Note{}, err
	}
	name := fileName(id)
	info, err := os.Stat(filepath.Join(r.Path, name))
	if os.IsNotExist(err) {
		return core.Note{}, core.NotFoundError(id)
	}
	if err != nil {
		return core.Note{}, fmt.Errorf("stat note %d: %w", id, err)
	}
	return r.load(id, name, info)
}

// List reads every note file ordered by ID. Markdown files whose name is not
// a note ID are skipped.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	names, err := r.files()
	if err != nil {
		return nil, err
	}

	notes := []core.Note{}
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, ok := parseName(name)
		if !ok {
			r.config.Logger.Debug("skipping file without a note id", "name", name)
			continue
		}
		info, err := os.Stat(filepath.Join(r.Path, name))
		if os.IsNotExist(err) {
			// Removed between glob and stat.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		n, err := r.load(id, name, info)
		if err != nil {
			return nil, err
		}
		keep[name] = true
		notes = append(notes, n)
	}
	r.cache.Prune(keep)

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// Delete removes a note file, returning core.ErrNotFound if it is already gone.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.write.Lock()
	defer r.write.Unlock()

	name := fileName(id)
	if err := os.Remove(filepath.Join(r.Path, name)); err != nil {
		if os.IsNotExist(err) {
			return core.NotFoundError(id)
		}
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	r.cache.Delete(name)
	r.recordOwn(name, ownChange{deleted: true})
	return nil
}

// DeleteAll removes every note file. Other files in the directory are kept.
func (r *Repository) DeleteAll(ctx context.Context) error {
	r.write.Lock()
	defer r.write.Unlock()

	names, err := r.files()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := parseName(name); !ok {
			continue
		}
		if err := os.Remove(filepath.Join(r.Path, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete %s: %w", name, err)
		}
		r.cache.Delete(name)
		r.recordOwn(name, ownChange{deleted: true})
	}
	return nil
}

// files lists the Markdown files directly inside the notes directory.
func (r *Repository) files() ([]string, error) {
	names, err := doublestar.Glob(os.DirFS(r.Path), "*"+ext, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.Path, err)
	}
	return names, nil
}

// load decodes a note file, going through the cache.
func (r *Repository) load(id int64, name string, info iofs.FileInfo) (core.Note, error) {
	r.cache.Reserve(id)
	if entry, ok := r.cache.Get(name, info.ModTime()); ok {
		return entry.note(id), nil
	}

	data, err := os.ReadFile(filepath.Join(r.Path, name))
	if os.IsNotExist(err) {
		return core.Note{}, core.NotFoundError(id)
	}
	if err != nil {
		return core.Note{}, fmt.Errorf("read note %d: %w", id, err)
	}
	doc, err := markdown.Parse(bytes.NewReader(data))
	if err != nil {
		return core.Note{}, fmt.Errorf("parse %s: %w", name, err)
	}

	n := doc.Note(name)
	n.ID = id
	// Title stays as written, a blank one included.
	n.Title = doc.Frontmatter.Title
	mtime := info.ModTime().UTC()
	if n.CreatedDate.IsZero() {
		n.CreatedDate = mtime
	}
	if n.ChangeDate.IsZero() {
		n.ChangeDate = mtime
	}

	r.cache.Set(name, newEntry(n, info.ModTime()))
	return n, nil
}

func (r *Repository) recordOwn(name string, c ownChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.own[name] = c
	r.writes++
}

func fileName(id int64) string {
	return strconv.FormatInt(id, 10) + ext
}

// parseName returns the note ID encoded in a file name such as "12.md".
func parseName(name string) (int64, bool) {
	base := filepath.Base(name)
	if filepath.Ext(base) != ext {
		return 0, false
	}
	stem := strings.TrimSuffix(base, ext)
	id, err := strconv.ParseInt(stem, 10, 64)
	if err != nil || id <= 0 || fileName(id) != base {
		return 0, false
	}
	return id, true
}

var _ core.Repository = (*Repository)(nil)
