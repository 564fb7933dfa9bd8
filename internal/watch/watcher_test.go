package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var docPatterns = []string{"**/*.adoc", "**/*.md"}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.adoc")
	write(t, doc, "= Doc\n")
	write(t, filepath.Join(dir, "notes.txt"), "ignored")

	w := New(Options{Root: dir, Patterns: docPatterns}, nil)
	assert.Equal(t, []string{doc}, w.Check(), "first scan reports everything")
	assert.Empty(t, w.Check())

	nested := filepath.Join(dir, "sub", "part.md")
	write(t, nested, "# Part\n")
	assert.Equal(t, []string{nested}, w.Check())

	write(t, doc, "= Doc\nmore text\n")
	assert.Equal(t, []string{doc}, w.Check())

	require.NoError(t, os.Remove(nested))
	assert.Equal(t, []string{nested}, w.Check())
	assert.Empty(t, w.Check())
}

func TestCheckModTimeOnly(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.adoc")
	write(t, doc, "= Doc\n")

	w := New(Options{Root: dir, Patterns: docPatterns}, nil)
	w.Check()

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(doc, later, later))
	assert.Equal(t, []string{doc}, w.Check())
}

func TestCheckSkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "node_modules", "pkg", "README.md"), "# Pkg\n")
	write(t, filepath.Join(dir, ".git", "notes.md"), "# Git\n")
	doc := filepath.Join(dir, "docs", "index.adoc")
	write(t, doc, "= Index\n")

	w := New(Options{Root: dir, Patterns: docPatterns}, nil)
	assert.Equal(t, []string{doc}, w.Check())
}

func TestCheckSurvivesSymlinkLoop(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "index.adoc")
	write(t, doc, "= Index\n")
	if err := os.Symlink("loop", filepath.Join(dir, "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	w := New(Options{Root: dir, Patterns: docPatterns}, nil)
	assert.Equal(t, []string{doc}, w.Check())

	write(t, doc, "= Index\nedited\n")
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(doc, later, later))
	assert.Equal(t, []string{doc}, w.Check())
}

func TestExcluded(t *testing.T) {
	assert.False(t, excluded("doc.adoc"))
	assert.False(t, excluded("docs/guide/doc.adoc"))
	assert.True(t, excluded("node_modules/doc.md"))
	assert.True(t, excluded("a/b/.git/doc.md"))
}

func TestStartReportsChanges(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.adoc")
	write(t, doc, "= Doc\n")

	var mu sync.Mutex
	var got []string
	w := New(Options{
		Root:     dir,
		Patterns: docPatterns,
		Interval: 20 * time.Millisecond,
		Debounce: 5 * time.Millisecond,
	}, func(changed []string) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, changed...)
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.ErrorIs(t, w.Start(context.Background()), ErrAlreadyRunning)

	added := filepath.Join(dir, "added.md")
	write(t, added, "# Added\n")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, f := range got {
			if f == added {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.NotContains(t, got, doc, "files present at start are not reported")
	mu.Unlock()
}

func TestStopIsIdempotent(t *testing.T) {
	w := New(Options{Root: t.TempDir(), Patterns: docPatterns}, nil)
	w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
	w.Stop()

	require.NoError(t, w.Start(context.Background()), "a stopped watcher can be restarted")
	w.Stop()
}

func TestNewDefaults(t *testing.T) {
	w := New(Options{Debounce: -time.Second}, nil)
	assert.Equal(t, time.Second, w.opts.Interval)
	assert.Zero(t, w.opts.Debounce)
}
