package notelin_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notelin"
	"github.com/aretw0/notelin/pkg/bus"
	"github.com/aretw0/notelin/pkg/core"
	"github.com/aretw0/notelin/pkg/prefs"
)

func TestOpen_Components(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	app, err := notelin.Open(ctx, dir)
	require.NoError(t, err)

	var types []string
	for _, c := range app.Components() {
		types = append(types, c.ComponentType())
	}
	assert.Equal(t, []string{"service", "sqlite-repository", "preferences", "event-bus"}, types)
	assert.Equal(t, filepath.Join(dir, prefs.DefaultFilename), app.Prefs.Path())
	assert.NotNil(t, app.Logger())

	require.NoError(t, app.Close())
	assert.Equal(t, bus.BusState{Subscribers: 0, Buffer: bus.DefaultBuffer, Closed: true}, app.Events.State())
	assert.ErrorIs(t, app.Events.Publish(ctx, core.Event{}), bus.ErrClosed)
}

func TestOpen_MemoryAdapter(t *testing.T) {
	app, err := notelin.Open(context.Background(), t.TempDir(), notelin.WithAdapter(notelin.AdapterMemory))
	require.NoError(t, err)
	defer app.Close()

	var types []string
	for _, c := range app.Components() {
		types = append(types, c.ComponentType())
	}
	assert.Contains(t, types, "memory-repository")
}

func TestOpen_FSAdapter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()

	app, err := notelin.Open(ctx, dir, notelin.WithAdapter(notelin.AdapterFS))
	require.NoError(t, err)
	defer app.Close()

	var types []string
	for _, c := range app.Components() {
		types = append(types, c.ComponentType())
	}
	assert.Contains(t, types, "fs-repository")

	n, err := app.Store.CreateNote(ctx)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "notes", "1.md"))
	assert.Equal(t, int64(1), n.ID)

	_, err = app.Store.Watch(ctx)
	assert.NoError(t, err)
}

func TestOpen_SQLiteIsNotWatchable(t *testing.T) {
	app, err := notelin.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Store.Watch(context.Background())
	assert.ErrorIs(t, err, core.ErrNotWatchable)
}

func TestOpen_UnknownAdapter(t *testing.T) {
	_, err := notelin.Open(context.Background(), t.TempDir(), notelin.WithAdapter("paper"))
	assert.Error(t, err)
}

type nopListView struct{}

func (nopListView) OnNotesLoaded([]core.Note)  {}
func (nopListView) OnAllNotesDeleted()         {}
func (nopListView) OnNoteDeleted()             {}
func (nopListView) OnSearchResult([]core.Note) {}
func (nopListView) OnViewUpdated()             {}
func (nopListView) OpenNoteScreen(int64, int)  {}
func (nopListView) ShowNoteContextDialog(int)  {}
func (nopListView) HideNoteContextDialog()     {}
func (nopListView) ShowNoteDeleteDialog(int)   {}
func (nopListView) HideNoteDeleteDialog()      {}
func (nopListView) ShowNoteInfoDialog(string)  {}
func (nopListView) HideNoteInfoDialog()        {}
func (nopListView) OnError(error)              {}

type nopEditView struct{}

func (nopEditView) ShowNote(core.Note)        {}
func (nopEditView) OnNoteSaved(core.Note)     {}
func (nopEditView) OnNoteDeleted()            {}
func (nopEditView) ShowNoteDeleteDialog()     {}
func (nopEditView) HideNoteDeleteDialog()     {}
func (nopEditView) ShowNoteInfoDialog(string) {}
func (nopEditView) HideNoteInfoDialog()       {}
func (nopEditView) OnError(error)             {}

// An edit on one screen reaches the list of another through the app bus.
func TestApp_EditReachesList(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := notelin.Open(ctx, t.TempDir(), notelin.WithAdapter(notelin.AdapterMemory))
	require.NoError(t, err)
	defer app.Close()

	n, err := app.Store.CreateNote(ctx)
	require.NoError(t, err)

	list := app.NewListController(nopListView{})
	require.NoError(t, list.LoadAll(ctx))

	events := app.Events.Subscribe(ctx)
	done := make(chan error, 1)
	go func() { done <- list.Listen(ctx, events) }()

	editor := app.NewEditController(nopEditView{})
	require.NoError(t, editor.Open(ctx, n.ID, 0))
	require.NoError(t, editor.Save(ctx, "Renamed", "body"))

	require.Eventually(t, func() bool {
		notes := list.Notes()
		return len(notes) == 1 && notes[0].Title == "Renamed"
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
