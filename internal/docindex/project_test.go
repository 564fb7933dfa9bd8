package docindex

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProject(t *testing.T, files map[string]string) *Project {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, files)
	p, err := NewProject(dir, nil)
	require.NoError(t, err)
	return p
}

func TestProjectDiscoverRoots(t *testing.T) {
	p := newTestProject(t, map[string]string{
		"arc42.adoc":          "= Arc42\n",
		"README.md":           "# Readme\n",
		"notes.markdown":      "# Notes\n",
		"_fragment.adoc":      "== Fragment\n",
		"image.png":           "png",
		"chapters/intro.adoc": "== Intro\n",
	})

	roots, err := p.DiscoverRoots()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(p.Dir(), "README.md"),
		filepath.Join(p.Dir(), "arc42.adoc"),
		filepath.Join(p.Dir(), "notes.markdown"),
	}, roots)
}

func TestProjectSnapshotBeforeRefresh(t *testing.T) {
	p := newTestProject(t, map[string]string{"a.adoc": "= A\n"})
	_, err := p.Snapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestProjectRefreshDropsIncludedRoots(t *testing.T) {
	p := newTestProject(t, map[string]string{
		"main.adoc":         "= Main\ninclude::appendix.adoc[]\ninclude::chapters/one.adoc[]\n",
		"appendix.adoc":     "== Appendix\n",
		"other.md":          "# Other\n## Part\n",
		"chapters/one.adoc": "== One\n",
	})

	snap, err := p.Refresh()
	require.NoError(t, err)

	main := filepath.Join(p.Dir(), "main.adoc")
	other := filepath.Join(p.Dir(), "other.md")
	appendix := filepath.Join(p.Dir(), "appendix.adoc")
	assert.Equal(t, []string{main, other}, snap.RootFiles())
	assert.NotEmpty(t, snap.Generation)
	assert.Equal(t, p.Dir(), snap.Dir)

	assert.True(t, snap.IsIncluded(appendix))
	assert.True(t, snap.IsIncluded(filepath.Join(p.Dir(), "chapters", "one.adoc")))
	assert.False(t, snap.IsIncluded(main))

	sec, ix, ok := snap.Section("main.appendix")
	require.True(t, ok)
	assert.Equal(t, main, ix.Root())
	assert.Equal(t, appendix, sec.SourceFile)

	_, ix, ok = snap.Section("other.part")
	require.True(t, ok)
	assert.Equal(t, other, ix.Root())

	assert.Equal(t, 5, snap.Len())

	current, err := p.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, current)
}

func TestProjectMutualIncludesKeepBothRoots(t *testing.T) {
	p := newTestProject(t, map[string]string{
		"a.adoc": "= A\ninclude::b.adoc[]\n",
		"b.adoc": "= B\ninclude::a.adoc[]\n",
	})
	snap, err := p.Refresh()
	require.NoError(t, err)
	assert.Len(t, snap.RootFiles(), 2)
}

func TestProjectRefreshReplacesSnapshot(t *testing.T) {
	p := newTestProject(t, map[string]string{"doc.adoc": "= Doc\n== One\n"})

	first, err := p.Refresh()
	require.NoError(t, err)
	_, _, ok := first.Section("doc.two")
	require.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(p.Dir(), "doc.adoc"), []byte("= Doc\n== One\n== Two\n"), 0644))
	second, err := p.Refresh()
	require.NoError(t, err)

	assert.NotEqual(t, first.Generation, second.Generation)
	_, _, ok = second.Section("doc.two")
	assert.True(t, ok)

	// The earlier snapshot is untouched by the refresh.
	_, _, ok = first.Section("doc.two")
	assert.False(t, ok)
	assert.Equal(t, 2, first.Len())
}

func TestProjectConcurrentReaders(t *testing.T) {
	p := newTestProject(t, map[string]string{
		"doc.adoc": "= Doc\n== One\n== Two\n=== Two A\n",
	})
	_, err := p.Refresh()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				snap, err := p.Snapshot()
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, 4, snap.Len())
			}
		}()
	}
	for i := 0; i < 10; i++ {
		_, err := p.Refresh()
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestNewProjectErrors(t *testing.T) {
	_, err := NewProject(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.adoc")
	require.NoError(t, os.WriteFile(file, []byte("= X\n"), 0644))
	_, err = NewProject(file, nil)
	assert.Error(t, err)

	_, err = NewProject(t.TempDir(), &Parser{MaxIncludeDepth: 0})
	assert.ErrorIs(t, err, ErrInvalidDepth)
}

func TestIsAggregator(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"book.adoc":    ":doctype: book\n// chapters\n= Book\n\ninclude::a.adoc[]\ninclude::b.adoc[]\n",
		"content.adoc": "= Content\nline one\nline two\nline three\ninclude::a.adoc[]\n",
		"plain.adoc":   "= Plain\n",
	})

	assert.True(t, IsAggregator(filepath.Join(dir, "book.adoc")))
	assert.False(t, IsAggregator(filepath.Join(dir, "content.adoc")))
	assert.False(t, IsAggregator(filepath.Join(dir, "plain.adoc")))
	assert.False(t, IsAggregator(filepath.Join(dir, "missing.adoc")))
}
