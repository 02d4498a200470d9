// Package memory provides a process-local core.Repository.
// Nothing survives the process; it backs tests and the "memory" adapter.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notelin/pkg/core"
)

// Repository implements core.Repository in memory.
type Repository struct {
	mu      sync.RWMutex
	notes   map[int64]core.Note
	nextID  int64
	failure error
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		notes: make(map[int64]core.Note),
	}
}

// Fail makes every subsequent operation return err, simulating a broken
// backend. Passing nil restores normal behaviour.
func (r *Repository) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure = err
}

func (r *Repository) Initialize(ctx context.Context) error { return nil }

func (r *Repository) Save(ctx context.Context, n core.Note) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure != nil {
		return 0, r.failure
	}

	if !n.HasID() {
		r.nextID++
		n.ID = r.nextID
	} else if _, ok := r.notes[n.ID]; !ok {
		// Upsert of an unknown identity keeps the caller's ID.
		if n.ID > r.nextID {
			r.nextID = n.ID
		}
	}
	r.notes[n.ID] = n
	return n.ID, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (core.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failure != nil {
		return core.Note{}, r.failure
	}

	n, ok := r.notes[id]
	if !ok {
		return core.Note{}, core.NotFoundError(id)
	}
	return n, nil
}

func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failure != nil {
		return nil, r.failure
	}

	notes := make([]core.Note, 0, len(r.notes))
	for _, n := range r.notes {
		notes = append(notes, n)
	}
	// Sort for deterministic output
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure != nil {
		return r.failure
	}

	if _, ok := r.notes[id]; !ok {
		return core.NotFoundError(id)
	}
	delete(r.notes, id)
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure != nil {
		return r.failure
	}

	clear(r.notes)
	return nil
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Notes  int   `json:"notes"`
	NextID int64 `json:"next_id"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RepositoryState{Notes: len(r.notes), NextID: r.nextID}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory-repository"
}

var (
	_ core.Repository              = (*Repository)(nil)
	_ introspection.Introspectable = (*Repository)(nil)
	_ introspection.Component      = (*Repository)(nil)
)
