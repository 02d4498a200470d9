package controller_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/notelin/pkg/adapters/memory"
	"github.com/aretw0/notelin/pkg/core"
)

// recorder captures view callbacks. Safe for concurrent use.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	notes  []core.Note
	info   string
	opened [2]int64 // id, position
	errs   []error
	saved  core.Note
}

func (r *recorder) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return ""
	}
	return r.calls[len(r.calls)-1]
}

func (r *recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

// listView implements controller.ListView.
type listView struct{ recorder }

func (v *listView) OnNotesLoaded(notes []core.Note) {
	v.mu.Lock()
	v.notes = notes
	v.mu.Unlock()
	v.record("OnNotesLoaded")
}
func (v *listView) OnAllNotesDeleted() { v.record("OnAllNotesDeleted") }
func (v *listView) OnNoteDeleted()     { v.record("OnNoteDeleted") }
func (v *listView) OnSearchResult(notes []core.Note) {
	v.mu.Lock()
	v.notes = notes
	v.mu.Unlock()
	v.record("OnSearchResult")
}
func (v *listView) OnViewUpdated() { v.record("OnViewUpdated") }
func (v *listView) OpenNoteScreen(id int64, position int) {
	v.mu.Lock()
	v.opened = [2]int64{id, int64(position)}
	v.mu.Unlock()
	v.record("OpenNoteScreen")
}
func (v *listView) ShowNoteContextDialog(position int) {
	v.record(fmt.Sprintf("ShowNoteContextDialog(%d)", position))
}
func (v *listView) HideNoteContextDialog() { v.record("HideNoteContextDialog") }
func (v *listView) ShowNoteDeleteDialog(position int) {
	v.record(fmt.Sprintf("ShowNoteDeleteDialog(%d)", position))
}
func (v *listView) HideNoteDeleteDialog() { v.record("HideNoteDeleteDialog") }
func (v *listView) ShowNoteInfoDialog(info string) {
	v.mu.Lock()
	v.info = info
	v.mu.Unlock()
	v.record("ShowNoteInfoDialog")
}
func (v *listView) HideNoteInfoDialog() { v.record("HideNoteInfoDialog") }
func (v *listView) OnError(err error) {
	v.mu.Lock()
	v.errs = append(v.errs, err)
	v.mu.Unlock()
	v.record("OnError")
}

// editView implements controller.EditView.
type editView struct{ recorder }

func (v *editView) ShowNote(note core.Note) {
	v.mu.Lock()
	v.notes = []core.Note{note}
	v.mu.Unlock()
	v.record("ShowNote")
}
func (v *editView) OnNoteSaved(note core.Note) {
	v.mu.Lock()
	v.saved = note
	v.mu.Unlock()
	v.record("OnNoteSaved")
}
func (v *editView) OnNoteDeleted()        { v.record("OnNoteDeleted") }
func (v *editView) ShowNoteDeleteDialog() { v.record("ShowNoteDeleteDialog") }
func (v *editView) HideNoteDeleteDialog() { v.record("HideNoteDeleteDialog") }
func (v *editView) ShowNoteInfoDialog(info string) {
	v.mu.Lock()
	v.info = info
	v.mu.Unlock()
	v.record("ShowNoteInfoDialog")
}
func (v *editView) HideNoteInfoDialog() { v.record("HideNoteInfoDialog") }
func (v *editView) OnError(err error) {
	v.mu.Lock()
	v.errs = append(v.errs, err)
	v.mu.Unlock()
	v.record("OnError")
}

// memPrefs implements controller.Preferences.
type memPrefs struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newPrefs() *memPrefs {
	return &memPrefs{values: make(map[string]string)}
}

func (p *memPrefs) Get(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return v, ok
}

func (p *memPrefs) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.values[key] = value
	return nil
}

// recordingPublisher implements controller.Publisher.
type recordingPublisher struct {
	mu     sync.Mutex
	events []core.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e core.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

var errBoom = errors.New("boom")

// steppingClock advances one minute on every reading.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func newStore(t *testing.T) (*core.Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	require.NoError(t, repo.Initialize(context.Background()))
	return core.NewService(repo, core.WithClock(steppingClock())), repo
}

// seed stores notes with the given titles; later titles are more recent.
func seed(t *testing.T, store *core.Service, titles ...string) []core.Note {
	t.Helper()
	out := make([]core.Note, 0, len(titles))
	for _, title := range titles {
		n, err := store.CreateNote(context.Background())
		require.NoError(t, err)
		n.Title = title
		_, err = store.SaveNote(context.Background(), n)
		require.NoError(t, err)
		out = append(out, n)
	}
	return out
}

func titlesOf(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}
