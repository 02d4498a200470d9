package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// Service is the note store used by the controllers.
// It adds creation defaults, timestamps and error classification on top of a
// Repository.
type Service struct {
	repo        Repository
	logger      *slog.Logger
	now         func() time.Time
	customClock bool

	created atomic.Int64
	saved   atomic.Int64
	deleted atomic.Int64
	cleared atomic.Int64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
		s.customClock = true
	}
}

// WithServiceLogger sets the logger used for mutation traces.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time in UTC according to the service clock.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// Repository exposes the underlying adapter (e.g. for introspection).
func (s *Service) Repository() Repository {
	return s.repo
}

// CreateNote persists a note with the placeholder title and an empty body.
// Both timestamps are set to the same instant.
func (s *Service) CreateNote(ctx context.Context) (Note, error) {
	now := s.Now()
	n := Note{
		Title:       DefaultTitle,
		CreatedDate: now,
		ChangeDate:  now,
	}
	id, err := s.repo.Save(ctx, n)
	if err != nil {
		return Note{}, classify("create note", err)
	}
	n.ID = id
	s.created.Add(1)
	s.logger.Debug("note created", "id", id)
	return n, nil
}

// SaveNote inserts or updates n and returns its persisted ID.
func (s *Service) SaveNote(ctx context.Context, n Note) (int64, error) {
	if n.CreatedDate.IsZero() {
		n.CreatedDate = s.Now()
	}
	if n.ChangeDate.Before(n.CreatedDate) {
		n.ChangeDate = n.CreatedDate
	}
	id, err := s.repo.Save(ctx, n)
	if err != nil {
		return 0, classify("save note", err)
	}
	s.saved.Add(1)
	s.logger.Debug("note saved", "id", id, "title", n.Title)
	return id, nil
}

// ListNotes returns every persisted note, in no particular order.
func (s *Service) ListNotes(ctx context.Context) ([]Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, classify("list notes", err)
	}
	return notes, nil
}

// GetNote retrieves a note by ID.
func (s *Service) GetNote(ctx context.Context, id int64) (Note, error) {
	if id == 0 {
		return Note{}, NotFoundError(id)
	}
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return Note{}, classify("get note", err)
	}
	return n, nil
}

// DeleteNote removes the note with n's identity.
// Deleting a note that is already gone returns ErrNotFound.
func (s *Service) DeleteNote(ctx context.Context, n Note) error {
	if !n.HasID() {
		return NotFoundError(n.ID)
	}
	if err := s.repo.Delete(ctx, n.ID); err != nil {
		return classify("delete note", err)
	}
	s.deleted.Add(1)
	s.logger.Debug("note deleted", "id", n.ID)
	return nil
}

// DeleteAllNotes removes every note.
func (s *Service) DeleteAllNotes(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return classify("delete all notes", err)
	}
	s.cleared.Add(1)
	s.logger.Debug("all notes deleted")
	return nil
}

// Watch reports changes made to the repository by other processes.
// It fails with ErrNotWatchable when the adapter cannot observe them.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	return w.Watch(ctx)
}

// Close releases the repository if it holds resources.
func (s *Service) Close() error {
	if c, ok := s.repo.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// classify keeps ErrNotFound visible and turns everything else into a StorageError.
func classify(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
