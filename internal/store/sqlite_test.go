package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/docidx/internal/docindex"
)

func newProject(t *testing.T, files map[string]string) (*docindex.Project, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	p, err := docindex.NewProject(dir, nil)
	require.NoError(t, err)
	return p, dir
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveSnapshot(t *testing.T) {
	p, dir := newProject(t, map[string]string{
		"doc.adoc":  "= Doc\nintro\n== A\ninclude::_a.adoc[]\n== B\n",
		"_a.adoc":   "=== Child\nchild text\n",
		"readme.md": "# Readme\n",
	})
	snap, err := p.Refresh()
	require.NoError(t, err)

	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveSnapshot(ctx, snap))

	n, err := s.CountSections(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Len(), n)

	sec, err := s.LoadSection(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "Doc", sec.Title)
	assert.Equal(t, "intro", sec.Content)
	assert.Equal(t, []string{"doc.a", "doc.b"}, sec.Children)
	assert.Empty(t, sec.ParentID)

	child, err := s.LoadSection(ctx, "doc.a.child")
	require.NoError(t, err)
	assert.Equal(t, "doc.a", child.ParentID)
	assert.Equal(t, filepath.Join(dir, "_a.adoc"), child.SourceFile)
	assert.Equal(t, child.LineStart, child.DocumentPosition)
	assert.Empty(t, child.Children)

	var included string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT path FROM included_files`).Scan(&included))
	assert.Equal(t, filepath.Join(dir, "_a.adoc"), included)

	gen, parsedAt, err := s.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Generation, gen)
	assert.False(t, parsedAt.IsZero())
}

func TestSaveSnapshotReplaces(t *testing.T) {
	p, dir := newProject(t, map[string]string{
		"doc.adoc": "= Doc\n== Old\n",
	})
	first, err := p.Refresh()
	require.NoError(t, err)

	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveSnapshot(ctx, first))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.adoc"), []byte("= Doc\n== New\n"), 0644))
	second, err := p.Refresh()
	require.NoError(t, err)
	require.NoError(t, s.SaveSnapshot(ctx, second))

	_, err = s.LoadSection(ctx, "doc.old")
	assert.ErrorIs(t, err, ErrNotFound)

	sec, err := s.LoadSection(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc.new"}, sec.Children)

	gen, _, err := s.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Generation, gen)
}

func TestEmptyStore(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.LoadSection(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = s.Generation(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.CountSections(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
