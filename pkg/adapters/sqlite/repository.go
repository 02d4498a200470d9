// Package sqlite implements core.Repository on an embedded SQLite database.
//
// The database is a single file (default: notes.db inside the data directory)
// opened through database/sql with the pure-Go modernc.org/sqlite driver.
// Identities are assigned by SQLite (INTEGER PRIMARY KEY AUTOINCREMENT) and are
// never reused after a delete.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/notelin/pkg/core"
)

const (
	// DriverName is the database/sql driver registered by modernc.org/sqlite.
	DriverName = "sqlite"

	// DefaultFilename is the database file name used inside a data directory.
	DefaultFilename = "notes.db"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    text TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    changed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_changed ON notes(changed_at DESC);
`

// Config holds the configuration for the SQLite repository.
type Config struct {
	Path      string // database file
	MustExist bool   // fail instead of creating a missing database
	Logger    *slog.Logger
}

// Repository implements core.Repository using SQLite.
type Repository struct {
	Path   string
	config Config

	mu     sync.RWMutex
	db     *sql.DB
	writes int
	opened *time.Time
}

// NewRepository creates a new SQLite-backed repository.
// No I/O happens until Initialize is called.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		config: config,
	}
}

// Initialize opens the database and applies the schema. It is idempotent.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		return nil
	}

	if r.config.MustExist {
		if _, err := os.Stat(r.Path); err != nil {
			return fmt.Errorf("database does not exist: %s", r.Path)
		}
	} else if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", r.Path)
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite is single-writer; one connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	now := time.Now()
	r.db = db
	r.opened = &now
	r.config.Logger.Debug("database opened", "path", r.Path)
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (r *Repository) conn() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, errors.New("repository is not initialized")
	}
	return r.db, nil
}

func (r *Repository) countWrite() {
	r.mu.Lock()
	r.writes++
	r.mu.Unlock()
}

// Save inserts a note without an ID and upserts one that has an ID.
// created_at is never changed by an update.
func (r *Repository) Save(ctx context.Context, n core.Note) (int64, error) {
	db, err := r.conn()
	if err != nil {
		return 0, err
	}

	if !n.HasID() {
		res, err := db.ExecContext(ctx, `
			INSERT INTO notes (title, text, created_at, changed_at)
			VALUES (?, ?, ?, ?)
		`, n.Title, n.Text, toUnix(n.CreatedDate), toUnix(n.ChangeDate))
		if err != nil {
			return 0, fmt.Errorf("insert note: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("read inserted id: %w", err)
		}
		r.countWrite()
		return id, nil
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO notes (id, title, text, created_at, changed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			text = excluded.text,
			changed_at = excluded.changed_at
	`, n.ID, n.Title, n.Text, toUnix(n.CreatedDate), toUnix(n.ChangeDate))
	if err != nil {
		return 0, fmt.Errorf("upsert note %d: %w", n.ID, err)
	}
	r.countWrite()
	return n.ID, nil
}

// Get retrieves a note by ID.
func (r *Repository) Get(ctx context.Context, id int64) (core.Note, error) {
	db, err := r.conn()
	if err != nil {
		return core.Note{}, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, title, text, created_at, changed_at
		FROM notes WHERE id = ?
	`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Note{}, core.NotFoundError(id)
	}
	if err != nil {
		return core.Note{}, fmt.Errorf("query note %d: %w", id, err)
	}
	return n, nil
}

// List returns every note ordered by ID.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, text, created_at, changed_at
		FROM notes ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []core.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Delete removes a note by ID, returning core.ErrNotFound if no row matched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	if affected == 0 {
		return core.NotFoundError(id)
	}
	r.countWrite()
	return nil
}

// DeleteAll removes every note.
func (r *Repository) DeleteAll(ctx context.Context) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("delete notes: %w", err)
	}
	r.countWrite()
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (core.Note, error) {
	var n core.Note
	var createdAt, changedAt int64
	if err := s.Scan(&n.ID, &n.Title, &n.Text, &createdAt, &changedAt); err != nil {
		return core.Note{}, err
	}
	n.CreatedDate = fromUnix(createdAt)
	n.ChangeDate = fromUnix(changedAt)
	return n, nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

var _ core.Repository = (*Repository)(nil)
