package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notelin/pkg/core"
	"github.com/aretw0/notelin/pkg/prefs"
)

// ListController owns the sorted in-memory note collection shown by the list
// screen. The store stays the source of truth; the collection is a cache of it
// for the current session.
//
// It is safe to call from one UI goroutine while Listen runs on another.
// Store calls are serialized by the controller mutex. View callbacks run after
// the mutex is released, so a view may call back into the controller.
type ListController struct {
	store  *core.Service
	prefs  Preferences
	view   ListView
	logger *slog.Logger

	mu     sync.Mutex
	notes  []core.Note
	method core.SortMethod
	loaded bool
	events int
}

// NewListController creates a ListController.
func NewListController(store *core.Service, preferences Preferences, view ListView, opts ...Option) *ListController {
	o := buildOptions(opts)
	c := &ListController{
		store:  store,
		prefs:  preferences,
		view:   view,
		logger: o.logger,
	}
	c.method = c.CurrentSortMethod()
	return c
}

// CurrentSortMethod reads the persisted sort preference, falling back to
// core.DefaultSortMethod when it is unset or unrecognized.
func (c *ListController) CurrentSortMethod() core.SortMethod {
	raw, ok := c.prefs.Get(prefs.SortMethodKey)
	if !ok {
		return core.DefaultSortMethod
	}
	m, err := core.ParseSortMethod(raw)
	if err != nil {
		c.logger.Warn("ignoring stored sort method", "value", raw)
		return core.DefaultSortMethod
	}
	return m
}

// SortMethod returns the ordering currently applied to the collection.
func (c *ListController) SortMethod() core.SortMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method
}

// Notes returns a copy of the current collection.
func (c *ListController) Notes() []core.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.notes)
}

// Len returns the size of the current collection.
func (c *ListController) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notes)
}

// LoadAll replaces the collection with the store contents, sorted by the
// persisted preference.
func (c *ListController) LoadAll(ctx context.Context) error {
	c.mu.Lock()
	notes, err := c.store.ListNotes(ctx)
	if err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	method := c.CurrentSortMethod()
	core.SortNotes(notes, method)
	c.method = method
	c.notes = notes
	c.loaded = true
	out := slices.Clone(notes)
	c.mu.Unlock()

	c.logger.Debug("notes loaded", "count", len(out), "sort", method)
	c.view.OnNotesLoaded(out)
	return nil
}

// DeleteAll clears the store and the collection.
func (c *ListController) DeleteAll(ctx context.Context) error {
	c.mu.Lock()
	if err := c.store.DeleteAllNotes(ctx); err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	c.notes = nil
	c.mu.Unlock()

	c.view.OnAllNotesDeleted()
	return nil
}

// DeleteAt deletes the note at position from the store and the collection.
// A note already removed from the store by someone else is dropped from the
// collection as well.
func (c *ListController) DeleteAt(ctx context.Context, position int) error {
	c.mu.Lock()
	if err := c.checkIndex(position); err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	n := c.notes[position]
	if err := c.store.DeleteNote(ctx, n); err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			c.mu.Unlock()
			return c.fail(err)
		}
		c.logger.Warn("note already gone from store", "id", n.ID)
	}
	c.notes = slices.Delete(c.notes, position, position+1)
	c.mu.Unlock()

	c.logger.Debug("note deleted", "id", n.ID, "position", position)
	c.view.OnNoteDeleted()
	return nil
}

// CreateAndOpen creates a note, inserts it into the collection and asks the
// view to open it. It returns the position the note landed on.
func (c *ListController) CreateAndOpen(ctx context.Context) (int, error) {
	c.mu.Lock()
	n, err := c.store.CreateNote(ctx)
	if err != nil {
		c.mu.Unlock()
		return -1, c.fail(err)
	}
	c.notes = append(c.notes, n)
	c.method = c.CurrentSortMethod()
	core.SortNotes(c.notes, c.method)
	position := c.indexOf(n.ID)
	c.mu.Unlock()

	c.view.OpenNoteScreen(n.ID, position)
	return position, nil
}

// OpenNote asks the view to open the note at position.
func (c *ListController) OpenNote(position int) error {
	n, err := c.noteAt(position)
	if err != nil {
		return c.fail(err)
	}
	c.view.OpenNoteScreen(n.ID, position)
	return nil
}

// Search returns the notes whose title starts with query, ignoring case.
// An empty query returns the whole collection. The collection is not changed.
func (c *ListController) Search(query string) []core.Note {
	c.mu.Lock()
	var result []core.Note
	if query == "" {
		result = slices.Clone(c.notes)
	} else {
		prefix := strings.ToLower(query)
		result = make([]core.Note, 0, len(c.notes))
		for _, n := range c.notes {
			if strings.HasPrefix(strings.ToLower(n.Title), prefix) {
				result = append(result, n)
			}
		}
	}
	c.mu.Unlock()

	c.view.OnSearchResult(result)
	return result
}

// SortBy re-sorts the collection and persists method as the new preference.
func (c *ListController) SortBy(method core.SortMethod) error {
	if method != core.SortByDate && method != core.SortByName {
		return c.fail(fmt.Errorf("unknown sort method %q", method))
	}

	c.mu.Lock()
	c.method = method
	core.SortNotes(c.notes, method)
	c.mu.Unlock()

	c.view.OnViewUpdated()
	if err := c.prefs.Set(prefs.SortMethodKey, string(method)); err != nil {
		return c.fail(&core.StorageError{Op: "save sort method", Err: err})
	}
	return nil
}

// OnNoteEdited refreshes the entry for a note edited on another screen.
// position is a hint; when it no longer holds id the note is looked up by id,
// and when neither matches the call is a no-op. An id of zero trusts position.
func (c *ListController) OnNoteEdited(ctx context.Context, position int, id int64) error {
	c.mu.Lock()
	c.events++
	idx, ok := c.resolve(position, id)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("ignoring stale edit event", "position", position, "id", id)
		return nil
	}

	fresh, err := c.store.GetNote(ctx, c.notes[idx].ID)
	if errors.Is(err, core.ErrNotFound) {
		c.notes = slices.Delete(c.notes, idx, idx+1)
		c.mu.Unlock()
		c.view.OnViewUpdated()
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}

	c.method = c.CurrentSortMethod()
	c.notes[idx] = fresh
	core.SortNotes(c.notes, c.method)
	c.mu.Unlock()

	c.view.OnViewUpdated()
	return nil
}

// OnNoteDeletedElsewhere drops the entry for a note deleted on another screen.
// Stale positions are resolved like in OnNoteEdited.
func (c *ListController) OnNoteDeletedElsewhere(position int, id int64) {
	c.mu.Lock()
	c.events++
	idx, ok := c.resolve(position, id)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("ignoring stale delete event", "position", position, "id", id)
		return
	}
	c.notes = slices.Delete(c.notes, idx, idx+1)
	c.mu.Unlock()

	c.view.OnViewUpdated()
}

// Listen applies events until the channel is closed or ctx ends.
func (c *ListController) Listen(ctx context.Context, events <-chan core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			c.logger.Debug("event received", "event", e.String())
			switch e.Type {
			case core.EventEdited:
				// Already reported through the view.
				_ = c.OnNoteEdited(ctx, e.Position, e.NoteID)
			case core.EventDeleted:
				c.OnNoteDeletedElsewhere(e.Position, e.NoteID)
			default:
				c.logger.Warn("unknown event type", "type", e.Type)
			}
		}
	}
}

// ShowNoteContextDialog asks the view for the actions menu of a note.
func (c *ListController) ShowNoteContextDialog(position int) error {
	if _, err := c.noteAt(position); err != nil {
		return c.fail(err)
	}
	c.view.ShowNoteContextDialog(position)
	return nil
}

func (c *ListController) HideNoteContextDialog() {
	c.view.HideNoteContextDialog()
}

// ShowNoteDeleteDialog asks the view to confirm deleting a note.
func (c *ListController) ShowNoteDeleteDialog(position int) error {
	if _, err := c.noteAt(position); err != nil {
		return c.fail(err)
	}
	c.view.ShowNoteDeleteDialog(position)
	return nil
}

func (c *ListController) HideNoteDeleteDialog() {
	c.view.HideNoteDeleteDialog()
}

// ShowNoteInfo hands the summary of a note to the view.
func (c *ListController) ShowNoteInfo(position int) error {
	n, err := c.noteAt(position)
	if err != nil {
		return c.fail(err)
	}
	c.view.ShowNoteInfoDialog(n.Info())
	return nil
}

func (c *ListController) HideNoteInfoDialog() {
	c.view.HideNoteInfoDialog()
}

func (c *ListController) noteAt(position int) (core.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(position); err != nil {
		return core.Note{}, err
	}
	return c.notes[position], nil
}

// checkIndex must be called with mu held.
func (c *ListController) checkIndex(position int) error {
	if position < 0 || position >= len(c.notes) {
		return &core.IndexError{Position: position, Size: len(c.notes)}
	}
	return nil
}

// indexOf must be called with mu held.
func (c *ListController) indexOf(id int64) int {
	return slices.IndexFunc(c.notes, func(n core.Note) bool { return n.ID == id })
}

// resolve must be called with mu held.
func (c *ListController) resolve(position int, id int64) (int, bool) {
	inBounds := position >= 0 && position < len(c.notes)
	if id == 0 {
		return position, inBounds
	}
	if inBounds && c.notes[position].ID == id {
		return position, true
	}
	idx := c.indexOf(id)
	return idx, idx >= 0
}

func (c *ListController) fail(err error) error {
	c.logger.Error("list operation failed", "error", err)
	c.view.OnError(err)
	return err
}

// ListState exposes internal state for observability.
type ListState struct {
	Notes      int             `json:"notes"`
	SortMethod core.SortMethod `json:"sort_method"`
	Loaded     bool            `json:"loaded"`
	Events     int             `json:"events"`
}

// State implements introspection.Introspectable.
func (c *ListController) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ListState{
		Notes:      len(c.notes),
		SortMethod: c.method,
		Loaded:     c.loaded,
		Events:     c.events,
	}
}

// ComponentType implements introspection.Component.
func (c *ListController) ComponentType() string {
	return "list-controller"
}

var (
	_ introspection.Introspectable = (*ListController)(nil)
	_ introspection.Component      = (*ListController)(nil)
)
