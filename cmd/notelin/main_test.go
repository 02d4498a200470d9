package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notelin"
	"github.com/aretw0/notelin/pkg/core"
)

// resetFlags restores every flag of cmd and its children, since rootCmd is
// shared by all runs of the test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes notelin against dataDir and returns its output.
func runCLI(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--data-dir", dataDir))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCLI_NoteLifecycle(t *testing.T) {
	dir := t.TempDir()

	out := runCLI(t, dir, "new", "--title", "Groceries", "--text", "milk")
	assert.Equal(t, "Note created: 1\n", out)

	out = runCLI(t, dir, "new")
	assert.Equal(t, "Note created: 2\n", out)

	out = runCLI(t, dir, "show", "1")
	assert.Equal(t, "# Groceries\n\nmilk\n", out)

	out = runCLI(t, dir, "show", "1", "--info")
	assert.Contains(t, out, "Title: Groceries")
	assert.Contains(t, out, "Created: ")

	out = runCLI(t, dir, "edit", "1", "--title", "Shopping")
	assert.Equal(t, "Note saved: 1\n", out)

	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(runCLI(t, dir, "show", "1", "--json")), &n))
	assert.Equal(t, "Shopping", n.Title)
	assert.Equal(t, "milk", n.Text, "untouched fields are kept")
	assert.True(t, n.ChangeDate.After(n.CreatedDate))

	out = runCLI(t, dir, "delete", "2")
	assert.Equal(t, "Note deleted: 2\n", out)
	assert.Equal(t, "1 - Shopping\n", runCLI(t, dir, "list"))

	out = runCLI(t, dir, "delete", "--all")
	assert.Equal(t, "All notes deleted\n", out)
	assert.Empty(t, runCLI(t, dir, "list"))
}

func TestCLI_ListSortAndSearch(t *testing.T) {
	dir := t.TempDir()
	for _, title := range []string{"apple", "Cherry", "banana", "Apricot"} {
		runCLI(t, dir, "new", "--title", title)
	}
	byDate := "4 - Apricot\n3 - banana\n2 - Cherry\n1 - apple\n"
	byName := "1 - apple\n4 - Apricot\n3 - banana\n2 - Cherry\n"

	assert.Equal(t, "DATE\n", runCLI(t, dir, "sort"))
	assert.Equal(t, byDate, runCLI(t, dir, "list"))
	assert.Equal(t, byName, runCLI(t, dir, "list", "--sort", "name"))
	assert.Equal(t, "DATE\n", runCLI(t, dir, "sort"), "override is not saved")
	assert.Equal(t, "4 - Apricot\n1 - apple\n", runCLI(t, dir, "list", "--search", "AP"))

	assert.Equal(t, "Sort method: NAME\n", runCLI(t, dir, "sort", "name"))
	assert.Equal(t, "NAME\n", runCLI(t, dir, "sort"))
	assert.Equal(t, byName, runCLI(t, dir, "list"))
	assert.Equal(t, byDate, runCLI(t, dir, "list", "--sort", "date"))
	assert.Equal(t, "1 - apple\n4 - Apricot\n", runCLI(t, dir, "list", "--search", "AP"))

	var notes []core.Note
	require.NoError(t, json.Unmarshal([]byte(runCLI(t, dir, "list", "--json", "--search", "b")), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "banana", notes[0].Title)
}

func TestCLI_ExportImport(t *testing.T) {
	dir := t.TempDir()
	exportDir := filepath.Join(t.TempDir(), "export")
	runCLI(t, dir, "new", "--title", "First", "--text", "one")
	runCLI(t, dir, "new", "--title", "Second", "--text", "two")

	assert.Equal(t, "Exported 2 notes to "+exportDir+"\n", runCLI(t, dir, "export", exportDir))
	data, err := os.ReadFile(filepath.Join(exportDir, "1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: First")

	other := t.TempDir()
	assert.Equal(t, "Imported 2 notes\n", runCLI(t, other, "import", exportDir))
	list := runCLI(t, other, "list", "--sort", "name")
	assert.Equal(t, []string{"1 - First", "2 - Second"}, strings.Split(strings.TrimSpace(list), "\n"))

	assert.Equal(t, "Imported 1 notes\n", runCLI(t, other, "import", exportDir, "2.md"))
}

func TestCLI_Status(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "new")

	var status struct {
		DataDir    string                     `json:"data_dir"`
		Adapter    string                     `json:"adapter"`
		Components map[string]json.RawMessage `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(runCLI(t, dir, "status")), &status))

	assert.Equal(t, dir, status.DataDir)
	assert.Equal(t, notelin.AdapterSQLite, status.Adapter)
	for _, name := range []string{"service", "sqlite-repository", "preferences", "event-bus"} {
		assert.Contains(t, status.Components, name)
	}
}

func TestCLI_MemoryAdapter(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "Note created: 1\n", runCLI(t, dir, "new", "--adapter", "memory"))
	assert.Empty(t, runCLI(t, dir, "list", "--adapter", "memory"), "every run opens an empty store")
	_, err := os.Stat(filepath.Join(dir, "notes.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_Version(t *testing.T) {
	assert.Equal(t, "notelin version "+notelin.Version+"\n", runCLI(t, t.TempDir(), "version"))
}

func TestCLI_FSAdapter(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "Note created: 1\n", runCLI(t, dir, "new", "--adapter", "fs", "--title", "On disk", "--text", "plain"))
	data, err := os.ReadFile(filepath.Join(dir, "notes", "1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: On disk")
	assert.Equal(t, "1 - On disk\n", runCLI(t, dir, "list", "--adapter", "fs"))
}

func TestCLI_Watch(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "new", "--adapter", "fs")
	path := filepath.Join(dir, "notes", "1.md")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"watch", "--count", "1", "--adapter", "fs", "--data-dir", dir})

	done := make(chan error, 1)
	go func() { done <- rootCmd.Execute() }()

	// The watcher starts asynchronously; keep editing until it reports.
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(5 * time.Second)
	for waiting := true; waiting; {
		select {
		case err := <-done:
			require.NoError(t, err)
			waiting = false
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("---\ntitle: edited\n---\n"), 0644))
		case <-timeout:
			t.Fatal("watch did not report the edit")
		}
	}
	assert.Equal(t, "EDITED 1\n", out.String())
}
