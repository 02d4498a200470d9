package core

import "context"

// Repository defines the contract for storing and retrieving notes.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (SQLite, memory, ...).
type Repository interface {
	// Save persists a note. It inserts when the note has no ID yet and
	// updates otherwise, returning the persisted ID.
	Save(ctx context.Context, n Note) (int64, error)

	// Get retrieves a note by its ID. Returns ErrNotFound on a miss.
	Get(ctx context.Context, id int64) (Note, error)

	// List returns all available notes in no particular order.
	List(ctx context.Context) ([]Note, error)

	// Delete removes a note by its ID. Returns ErrNotFound if it is already gone.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every note. Calling it on an empty store is not an error.
	DeleteAll(ctx context.Context) error

	// Initialize ensures the underlying storage is ready (e.g. schema migration).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories whose contents can change outside
// the process, such as a directory of files edited by hand.
type Watchable interface {
	// Watch reports outside changes until ctx ends, then closes the channel.
	// Events carry a NoteID and a negative Position.
	Watch(ctx context.Context) (<-chan Event, error)
}
