package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notelin/pkg/adapters/sqlite"
	"github.com/aretw0/notelin/pkg/core"
)

func setupRepo(t *testing.T) (*sqlite.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", sqlite.DefaultFilename)
	repo := sqlite.NewRepository(sqlite.Config{Path: path})
	require.NoError(t, repo.Initialize(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	created := time.Date(2024, 2, 3, 4, 5, 6, 789, time.UTC)
	id, err := repo.Save(ctx, core.Note{Title: "first", Text: "body", CreatedDate: created, ChangeDate: created})
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, "body", got.Text)
	assert.True(t, created.Equal(got.CreatedDate), "nanosecond timestamps must round-trip")
	assert.True(t, created.Equal(got.ChangeDate))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), core.ErrNotFound)
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_UpsertKeepsCreatedDate(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id, err := repo.Save(ctx, core.Note{Title: "draft", CreatedDate: created, ChangeDate: created})
	require.NoError(t, err)

	changed := created.Add(time.Hour)
	_, err = repo.Save(ctx, core.Note{
		ID:          id,
		Title:       "final",
		Text:        "done",
		CreatedDate: changed, // ignored by the update
		ChangeDate:  changed,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, "done", got.Text)
	assert.True(t, created.Equal(got.CreatedDate))
	assert.True(t, changed.Equal(got.ChangeDate))
}

func TestRepository_DeleteAllAndIDs(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	var last int64
	for _, title := range []string{"a", "b", "c"} {
		id, err := repo.Save(ctx, core.Note{Title: title})
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}

	require.NoError(t, repo.DeleteAll(ctx))
	require.NoError(t, repo.DeleteAll(ctx))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// AUTOINCREMENT never hands out a deleted ID again.
	id, err := repo.Save(ctx, core.Note{Title: "d"})
	require.NoError(t, err)
	assert.Greater(t, id, last)
}

func TestRepository_Persistence(t *testing.T) {
	ctx := context.Background()
	repo, path := setupRepo(t)

	id, err := repo.Save(ctx, core.Note{Title: "survivor"})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened := sqlite.NewRepository(sqlite.Config{Path: path, MustExist: true})
	require.NoError(t, reopened.Initialize(ctx))
	defer reopened.Close()

	got, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "survivor", got.Title)
}

func TestRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("MustExist Fails On Missing File", func(t *testing.T) {
		repo := sqlite.NewRepository(sqlite.Config{
			Path:      filepath.Join(t.TempDir(), "nope.db"),
			MustExist: true,
		})
		assert.Error(t, repo.Initialize(ctx))
	})

	t.Run("Use Before Initialize", func(t *testing.T) {
		repo := sqlite.NewRepository(sqlite.Config{Path: filepath.Join(t.TempDir(), "x.db")})
		_, err := repo.List(ctx)
		assert.Error(t, err)
	})

	t.Run("Initialize Is Idempotent", func(t *testing.T) {
		repo, _ := setupRepo(t)
		assert.NoError(t, repo.Initialize(ctx))
	})

	t.Run("State", func(t *testing.T) {
		repo, path := setupRepo(t)
		_, err := repo.Save(ctx, core.Note{Title: "w"})
		require.NoError(t, err)

		state := repo.State().(sqlite.RepositoryState)
		assert.Equal(t, path, state.Path)
		assert.True(t, state.Open)
		assert.NotNil(t, state.OpenedAt)
		assert.Equal(t, 1, state.Writes)
		assert.Equal(t, "sqlite-repository", repo.ComponentType())

		require.NoError(t, repo.Close())
		assert.False(t, repo.State().(sqlite.RepositoryState).Open)
	})
}

func TestRepository_ThroughService(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	svc := core.NewService(repo)

	n, err := svc.CreateNote(ctx)
	require.NoError(t, err)

	loaded, err := svc.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultTitle, loaded.Title)
	assert.True(t, loaded.ChangeDate.Equal(loaded.CreatedDate))

	assert.ErrorIs(t, svc.DeleteNote(ctx, core.Note{ID: n.ID + 100}), core.ErrNotFound)
	assert.Equal(t, "sqlite-repository", svc.State().(core.ServiceState).RepositoryType)
	assert.NoError(t, svc.Close())
}
