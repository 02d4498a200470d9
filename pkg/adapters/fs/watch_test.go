package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notelin/pkg/adapters/fs"
	"github.com/aretw0/notelin/pkg/core"
)

func nextEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return core.Event{}
	}
}

func assertQuiet(t *testing.T, events <-chan core.Event) {
	t.Helper()
	select {
	case e := <-events:
		t.Fatalf("unexpected event %s", e)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRepository_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo, dir := setupRepo(t)

	events, err := repo.Watch(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return repo.State().(fs.RepositoryState).WatcherActive
	}, time.Second, 5*time.Millisecond)

	t.Run("Own Writes Are Not Reported", func(t *testing.T) {
		id, err := repo.Save(ctx, core.Note{Title: "mine"})
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, id))
		assertQuiet(t, events)
	})

	t.Run("Outside Edits Are Reported", func(t *testing.T) {
		path := filepath.Join(dir, "5.md")
		// A burst of writes is reported once.
		for i := 0; i < 3; i++ {
			require.NoError(t, os.WriteFile(path, []byte("---\ntitle: theirs\n---\n"), 0644))
		}
		e := nextEvent(t, events)
		assert.Equal(t, core.Event{Type: core.EventEdited, Position: -1, NoteID: 5}, e)
		assertQuiet(t, events)

		require.NoError(t, os.Remove(path))
		e = nextEvent(t, events)
		assert.Equal(t, core.Event{Type: core.EventDeleted, Position: -1, NoteID: 5}, e)
	})

	t.Run("Other Files Are Ignored", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.txt"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.md"), []byte("x"), 0644))
		assertQuiet(t, events)
	})

	cancel()
	for range events {
	}
	assert.False(t, repo.State().(fs.RepositoryState).WatcherActive)
}

func TestRepository_WatchMissingDirectory(t *testing.T) {
	repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "missing")})
	_, err := repo.Watch(context.Background())
	assert.Error(t, err)
}

func TestService_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo, dir := setupRepo(t)
	svc := core.NewService(repo)

	events, err := svc.Watch(ctx)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.md"), []byte("hello"), 0644))
	assert.Equal(t, int64(2), nextEvent(t, events).NoteID)

	n, err := svc.GetNote(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "hello", n.Text)
}
