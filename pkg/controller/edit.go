package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notelin/pkg/core"
)

// EditStatus is the lifecycle of an edit session.
type EditStatus string

const (
	StatusUnopened EditStatus = "UNOPENED"
	StatusEditing  EditStatus = "EDITING"
	StatusClosed   EditStatus = "CLOSED"
)

// ErrNotEditing is returned by operations that need an open session.
var ErrNotEditing = errors.New("no note is being edited")

// EditController holds one note for the duration of an edit session.
//
// Unopened -> Open -> Editing -> Save|Delete -> Closed. A new Open starts a
// fresh session from any state; if it fails the controller is Unopened again
// and the previous note is dropped. A failed Save or Delete leaves the session
// open so the user can retry.
type EditController struct {
	store  *core.Service
	events Publisher
	view   EditView
	logger *slog.Logger

	mu       sync.Mutex
	status   EditStatus
	note     core.Note
	position int
}

// NewEditController creates an EditController. events may be nil when no
// other screen needs to hear about changes.
func NewEditController(store *core.Service, events Publisher, view EditView, opts ...Option) *EditController {
	o := buildOptions(opts)
	return &EditController{
		store:    store,
		events:   events,
		view:     view,
		logger:   o.logger,
		status:   StatusUnopened,
		position: -1,
	}
}

// Open loads note id and starts a session. position is the list position the
// note was opened from and travels with the change events.
func (c *EditController) Open(ctx context.Context, id int64, position int) error {
	c.mu.Lock()
	n, err := c.store.GetNote(ctx, id)
	if err != nil {
		c.note = core.Note{}
		c.position = -1
		c.status = StatusUnopened
		c.mu.Unlock()
		return c.fail(err)
	}
	c.note = n
	c.position = position
	c.status = StatusEditing
	c.mu.Unlock()

	c.logger.Debug("edit session opened", "id", id, "position", position)
	c.view.ShowNote(n)
	return nil
}

// Save writes title and text to the held note, stamps its change date and
// announces the edit.
func (c *EditController) Save(ctx context.Context, title, text string) error {
	c.mu.Lock()
	if c.status != StatusEditing {
		c.mu.Unlock()
		return c.fail(ErrNotEditing)
	}
	n := c.note
	n.Title = title
	n.Text = text
	n.Touch(c.store.Now())
	if _, err := c.store.SaveNote(ctx, n); err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	c.note = n
	c.status = StatusClosed
	position := c.position
	c.mu.Unlock()

	c.publish(ctx, core.Event{Type: core.EventEdited, Position: position, NoteID: n.ID})
	c.view.OnNoteSaved(n)
	return nil
}

// Delete removes the held note and announces the deletion. A note that is
// already gone from the store closes the session the same way.
func (c *EditController) Delete(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusEditing {
		c.mu.Unlock()
		return c.fail(ErrNotEditing)
	}
	n := c.note
	if err := c.store.DeleteNote(ctx, n); err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			c.mu.Unlock()
			return c.fail(err)
		}
		c.logger.Warn("note already gone from store", "id", n.ID)
	}
	c.status = StatusClosed
	position := c.position
	c.mu.Unlock()

	c.publish(ctx, core.Event{Type: core.EventDeleted, Position: position, NoteID: n.ID})
	c.view.OnNoteDeleted()
	return nil
}

// Note returns the held note and whether a session is open.
func (c *EditController) Note() (core.Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.note, c.status == StatusEditing
}

// Status returns the session state.
func (c *EditController) Status() EditStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Position returns the list position the session was opened from.
func (c *EditController) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *EditController) ShowNoteDeleteDialog() error {
	if _, ok := c.Note(); !ok {
		return c.fail(ErrNotEditing)
	}
	c.view.ShowNoteDeleteDialog()
	return nil
}

func (c *EditController) HideNoteDeleteDialog() {
	c.view.HideNoteDeleteDialog()
}

// ShowNoteInfoDialog hands the summary of the held note to the view.
func (c *EditController) ShowNoteInfoDialog() error {
	n, ok := c.Note()
	if !ok {
		return c.fail(ErrNotEditing)
	}
	c.view.ShowNoteInfoDialog(n.Info())
	return nil
}

func (c *EditController) HideNoteInfoDialog() {
	c.view.HideNoteInfoDialog()
}

// publish never fails the operation: the note is already persisted and the
// list picks the change up on its next load.
func (c *EditController) publish(ctx context.Context, e core.Event) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(ctx, e); err != nil {
		c.logger.Warn("failed to publish event", "event", e.String(), "error", err)
	}
}

func (c *EditController) fail(err error) error {
	c.logger.Error("edit operation failed", "error", err)
	c.view.OnError(err)
	return err
}

// EditState exposes internal state for observability.
type EditState struct {
	Status   EditStatus `json:"status"`
	NoteID   int64      `json:"note_id,omitempty"`
	Position int        `json:"position"`
}

// State implements introspection.Introspectable.
func (c *EditController) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EditState{
		Status:   c.status,
		NoteID:   c.note.ID,
		Position: c.position,
	}
}

// ComponentType implements introspection.Component.
func (c *EditController) ComponentType() string {
	return "edit-controller"
}

var (
	_ introspection.Introspectable = (*EditController)(nil)
	_ introspection.Component      = (*EditController)(nil)
)
