package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notelin/internal/platform"
	"github.com/aretw0/notelin/pkg/adapters/fs"
	"github.com/aretw0/notelin/pkg/adapters/memory"
	"github.com/aretw0/notelin/pkg/adapters/sqlite"
	"github.com/aretw0/notelin/pkg/core"
)

func TestInit(t *testing.T) {
	ctx := context.Background()

	t.Run("SQLite Creates Database In Data Dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")

		repo, err := platform.Init(ctx, dir, platform.WithForceTemp(true))
		require.NoError(t, err)

		sqlRepo, ok := repo.(*sqlite.Repository)
		require.True(t, ok, "expected sqlite repository")
		defer sqlRepo.Close()

		assert.Equal(t, filepath.Join(dir, sqlite.DefaultFilename), sqlRepo.Path)
		assert.FileExists(t, sqlRepo.Path)
	})

	t.Run("Custom Database Name", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := platform.Init(ctx, dir, platform.WithDatabase("other.db"))
		require.NoError(t, err)
		defer repo.(*sqlite.Repository).Close()

		assert.FileExists(t, filepath.Join(dir, "other.db"))
	})

	t.Run("MustExist Fails if Database Missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "missing")

		_, err := platform.Init(ctx, dir, platform.WithMustExist(true), platform.WithForceTemp(true))
		assert.Error(t, err)
		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("FS Creates Notes Directory In Data Dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")

		repo, err := platform.Init(ctx, dir, platform.WithAdapter(platform.AdapterFS), platform.WithForceTemp(true))
		require.NoError(t, err)

		fsRepo, ok := repo.(*fs.Repository)
		require.True(t, ok, "expected fs repository")
		defer fsRepo.Close()

		assert.Equal(t, filepath.Join(dir, fs.DefaultDir), fsRepo.Path)
		assert.DirExists(t, fsRepo.Path)
	})

	t.Run("FS MustExist Fails if Directory Missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		_, err := platform.Init(ctx, dir, platform.WithAdapter(platform.AdapterFS), platform.WithMustExist(true), platform.WithForceTemp(true))
		assert.Error(t, err)
	})

	t.Run("Memory Adapter", func(t *testing.T) {
		repo, err := platform.Init(ctx, "", platform.WithAdapter(platform.AdapterMemory))
		require.NoError(t, err)
		assert.IsType(t, &memory.Repository{}, repo)
	})

	t.Run("Injected Repository", func(t *testing.T) {
		injected := memory.NewRepository()
		repo, err := platform.Init(ctx, "ignored", platform.WithRepository(injected), platform.WithAdapter("bogus"))
		require.NoError(t, err)
		assert.Same(t, injected, repo)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Init(ctx, t.TempDir(), platform.WithAdapter("postgres"))
		assert.ErrorContains(t, err, "unknown adapter")
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	svc, err := platform.New(ctx, t.TempDir(),
		platform.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	defer svc.Close()

	n, err := svc.CreateNote(ctx)
	require.NoError(t, err)
	assert.True(t, now.Equal(n.CreatedDate))

	loaded, err := svc.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultTitle, loaded.Title)
	assert.Equal(t, "sqlite-repository", svc.State().(core.ServiceState).RepositoryType)
}

func TestPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	assert.Equal(t, dir, platform.DataDir(dir))
	assert.Equal(t, filepath.Join(dir, "preferences.yaml"), platform.PreferencesPath(dir))
	assert.Equal(t, filepath.Join(dir, "p.yaml"), platform.PreferencesPath(dir, platform.WithPreferences("p.yaml")))
	assert.Equal(t, "/etc/notelin.yaml", platform.PreferencesPath(dir, platform.WithPreferences("/etc/notelin.yaml")))

	// Outside the temp root the sandbox kicks in under go test.
	outside := filepath.Join(string(os.PathSeparator), "srv", "notes")
	assert.NotEqual(t, outside, platform.DataDir(outside))
	assert.Equal(t, outside, platform.DataDir(outside, platform.WithDevSafety(false)))
}
