package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/notelin/internal/fsutil"
	"github.com/aretw0/notelin/pkg/core"
)

// indexEntry is the decoded form of one note file.
type indexEntry struct {
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	Created      time.Time `json:"created"`
	Changed      time.Time `json:"changed"`
	LastModified time.Time `json:"lastModified"`
}

func newEntry(n core.Note, mtime time.Time) *indexEntry {
	return &indexEntry{
		Title:        n.Title,
		Text:         n.Text,
		Created:      n.CreatedDate,
		Changed:      n.ChangeDate,
		LastModified: mtime,
	}
}

func (e *indexEntry) note(id int64) core.Note {
	return core.Note{
		ID:          id,
		Title:       e.Title,
		Text:        e.Text,
		CreatedDate: e.Created,
		ChangeDate:  e.Changed,
	}
}

// index is the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	NextID  int64                  `json:"nextId"`
	Entries map[string]*indexEntry `json:"entries"` // keyed by file name, e.g. "12.md"
	dirty   bool
	mu      sync.RWMutex
}

// cache keeps decoded notes keyed by file name so unchanged files are not
// parsed again. An entry is only trusted while the file mtime matches.
type cache struct {
	Path  string
	index *index
}

func newCache(dir string) *cache {
	return &cache{
		Path: filepath.Join(dir, IndexFile),
		index: &index{
			Version: 1,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk. A missing or corrupt file leaves it empty.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	if err := json.Unmarshal(data, c.index); err != nil || c.index.Entries == nil {
		// Rebuilt from the files on the next List.
		c.index.Entries = make(map[string]*indexEntry)
		c.index.dirty = true
		return nil
	}
	c.index.dirty = false
	return nil
}

// Save persists the cache if it changed since the last Load or Save.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry for name if it is fresh for mtime.
func (c *cache) Get(name string, mtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[name]
	if !ok || !entry.LastModified.Equal(mtime) {
		return nil, false
	}
	return entry, true
}

func (c *cache) Set(name string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[name] = entry
	c.index.dirty = true
}

// Prune removes entries whose file is not in keep.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for name := range c.index.Entries {
		if !keep[name] {
			delete(c.index.Entries, name)
			c.index.dirty = true
		}
	}
}

func (c *cache) Delete(name string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if _, ok := c.index.Entries[name]; ok {
		delete(c.index.Entries, name)
		c.index.dirty = true
	}
}

// Allocate hands out the next note ID. IDs are never handed out twice while
// the index file survives.
func (c *cache) Allocate() int64 {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.NextID++
	c.index.dirty = true
	return c.index.NextID
}

// Reserve makes sure later allocations stay above id.
func (c *cache) Reserve(id int64) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if id > c.index.NextID {
		c.index.NextID = id
		c.index.dirty = true
	}
}

func (c *cache) NextID() int64 {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return c.index.NextID
}

func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
