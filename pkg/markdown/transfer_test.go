package markdown_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notelin/pkg/adapters/memory"
	"github.com/aretw0/notelin/pkg/core"
	"github.com/aretw0/notelin/pkg/markdown"
)

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	src := core.NewService(memory.NewRepository(), core.WithClock(func() time.Time { return now }))

	for _, title := range []string{"alpha", "beta"} {
		n, err := src.CreateNote(ctx)
		require.NoError(t, err)
		n.Title = title
		n.Text = title + " body"
		_, err = src.SaveNote(ctx, n)
		require.NoError(t, err)
	}

	dir := filepath.Join(t.TempDir(), "export")
	count, err := markdown.Export(ctx, src, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.FileExists(t, filepath.Join(dir, "1.md"))
	assert.FileExists(t, filepath.Join(dir, "2.md"))

	dst := core.NewService(memory.NewRepository())
	ids, err := markdown.Import(ctx, dst, dir, "")
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	notes, err := dst.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Contains(t, []string{"alpha", "beta"}, n.Title)
		assert.Equal(t, n.Title+" body", n.Text)
		assert.True(t, now.Equal(n.CreatedDate))
	}
}

func TestImport_Pattern(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	files := map[string]string{
		"top.md":              "top",
		"a/nested.md":         "---\ntitle: Nested title\n---\nnested",
		"a/b/deep.md":         "deep",
		"a/b/ignored.txt":     "not markdown",
		"journal/2024/jan.md": "jan",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	t.Run("Default Pattern Is Recursive", func(t *testing.T) {
		store := core.NewService(memory.NewRepository())
		ids, err := markdown.Import(ctx, store, root, "")
		require.NoError(t, err)
		assert.Len(t, ids, 4)

		notes, err := store.ListNotes(ctx)
		require.NoError(t, err)
		var titles []string
		for _, n := range notes {
			titles = append(titles, n.Title)
			assert.False(t, n.ChangeDate.Before(n.CreatedDate))
		}
		assert.ElementsMatch(t, []string{"top", "Nested title", "deep", "jan"}, titles)
	})

	t.Run("Scoped Pattern", func(t *testing.T) {
		store := core.NewService(memory.NewRepository())
		ids, err := markdown.Import(ctx, store, root, "journal/**/*.md")
		require.NoError(t, err)
		assert.Len(t, ids, 1)
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		store := core.NewService(memory.NewRepository())
		_, err := markdown.Import(ctx, store, root, "[")
		assert.Error(t, err)
	})
}

func TestExport_StoreFailure(t *testing.T) {
	repo := memory.NewRepository()
	repo.Fail(os.ErrPermission)
	_, err := markdown.Export(context.Background(), core.NewService(repo), t.TempDir())
	assert.ErrorIs(t, err, core.ErrStorage)
}
