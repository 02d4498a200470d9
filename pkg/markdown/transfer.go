package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notelin/internal/fsutil"
	"github.com/aretw0/notelin/pkg/core"
)

// DefaultPattern matches every Markdown file below the import root.
const DefaultPattern = "**/*.md"

// Lister is the read side of the note store used by Export.
type Lister interface {
	ListNotes(ctx context.Context) ([]core.Note, error)
}

// Saver is the write side of the note store used by Import.
type Saver interface {
	SaveNote(ctx context.Context, n core.Note) (int64, error)
}

// Export writes every note to dir/<id>.md and returns how many were written.
func Export(ctx context.Context, store Lister, dir string) (int, error) {
	notes, err := store.ListNotes(ctx)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}

	for i, n := range notes {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		content, err := FromNote(n).String()
		if err != nil {
			return i, fmt.Errorf("failed to encode note %d: %w", n.ID, err)
		}
		path := filepath.Join(dir, strconv.FormatInt(n.ID, 10)+".md")
		if err := fsutil.WriteFileAtomic(path, []byte(content), 0644); err != nil {
			return i, err
		}
	}
	return len(notes), nil
}

// Import stores every file below root matching pattern as a new note and
// returns the assigned IDs. An empty pattern means DefaultPattern.
func Import(ctx context.Context, store Saver, root, pattern string) ([]int64, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", pattern, err)
	}
	// IDs follow file name order.
	slices.Sort(matches)

	ids := make([]int64, 0, len(matches))
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		n, err := readNote(fsys, name)
		if err != nil {
			return ids, err
		}
		id, err := store.SaveNote(ctx, n)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func readNote(fsys fs.FS, name string) (core.Note, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return doc.Note(name), nil
}
