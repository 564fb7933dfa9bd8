package docindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates files (relative path -> content) under dir.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestParseProjectIncludedSection(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.adoc":  "= Root\n\n== A\ninclude::child.adoc[]\n\n== B\n",
		"child.adoc": "=== Child\nhi\n",
	})
	main := filepath.Join(dir, "main.adoc")
	child := filepath.Join(dir, "child.adoc")

	ix, err := NewParser().ParseProject(main)
	require.NoError(t, err)

	require.Equal(t, 4, ix.Len())
	assert.Equal(t, []string{"root", "root.a", "root.a.child", "root.b"}, ids(ix.Sections()))

	c, ok := ix.Section("root.a.child")
	require.True(t, ok)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, child, c.SourceFile)
	assert.Equal(t, "hi", c.Content)
	assert.Equal(t, "root.a", c.ParentID)
	assert.Equal(t, 3, c.LineStart)
	assert.Equal(t, 5, c.LineEnd)

	a, _ := ix.Section("root.a")
	assert.Equal(t, main, a.SourceFile)
	assert.Equal(t, 2, a.LineStart)
	assert.Equal(t, 5, a.LineEnd)
	assert.Equal(t, []string{"root.a.child"}, a.Children)

	b, _ := ix.Section("root.b")
	assert.Equal(t, 6, b.LineStart)
	assert.Equal(t, 6, b.LineEnd)

	root, _ := ix.Section("root")
	assert.Equal(t, []string{"root.a", "root.b"}, root.Children)

	assert.Equal(t, []string{child}, ix.IncludedFiles())
	assert.True(t, ix.IsIncluded(child))
	assert.False(t, ix.IsIncluded(main))
	assert.Equal(t, main, ix.Root())

	src, ok := ix.LineSource(4)
	require.True(t, ok)
	assert.Equal(t, child, src)
	_, ok = ix.LineSource(7)
	assert.False(t, ok)
}

func TestParseProjectCycle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.adoc": "= A\ninclude::b.adoc[]\n",
		"b.adoc": "== B\ninclude::a.adoc[]\n",
	})
	a := filepath.Join(dir, "a.adoc")

	ix, err := NewParser().ParseProject(a)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "a.b"}, ids(ix.Sections()))
	b, _ := ix.Section("a.b")
	assert.Equal(t, fmt.Sprintf(cycleSentinel, a), b.Content)
	assert.Equal(t, []string{filepath.Join(dir, "b.adoc")}, ix.IncludedFiles())
}

func TestParseProjectDepthLimit(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for i := 1; i <= 5; i++ {
		files[fmt.Sprintf("f%d.adoc", i)] = fmt.Sprintf("%s F%d\ninclude::f%d.adoc[]\n", strings.Repeat("=", i), i, i+1)
	}
	writeFiles(t, dir, files)

	ix, err := NewParser().ParseProject(filepath.Join(dir, "f1.adoc"))
	require.NoError(t, err)

	assert.Equal(t, []string{"f1", "f1.f2", "f1.f2.f3", "f1.f2.f3.f4"}, ids(ix.Sections()))
	f4, _ := ix.Section("f1.f2.f3.f4")
	assert.Equal(t, fmt.Sprintf(depthSentinel, filepath.Join(dir, "f5.adoc")), f4.Content)
	for _, s := range ix.Sections() {
		assert.NotEqual(t, filepath.Join(dir, "f5.adoc"), s.SourceFile)
	}
}

func TestParseProjectMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nope.adoc")
	ix, err := NewParser().ParseProject(root)
	require.NoError(t, err)
	assert.Zero(t, ix.Len())
	assert.Equal(t, []string{fmt.Sprintf(readSentinel, root)}, ix.Lines())
}

func TestParseProjectIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.adoc":                "= Handbook\ninclude::chapters/one.adoc[]\ninclude::chapters/two.adoc[]\n",
		"chapters/one.adoc":         "== One\ntext\ninclude::shared/note.adoc[]\n",
		"chapters/two.adoc":         "== Two\n----\n== Not Real\n----\n=== Two A\n",
		"chapters/shared/note.adoc": "=== Note\nnote body\n",
	})
	p := NewParser()
	root := filepath.Join(dir, "index.adoc")

	first, err := p.ParseProject(root)
	require.NoError(t, err)
	second, err := p.ParseProject(root)
	require.NoError(t, err)

	assert.Equal(t, first.Sections(), second.Sections())
	assert.Equal(t, first.IncludedFiles(), second.IncludedFiles())
	assert.Equal(t, first.Lines(), second.Lines())
	assert.Equal(t, []string{"handbook", "handbook.one", "handbook.one.note", "handbook.two", "handbook.two.two-a"}, ids(first.Sections()))
	assert.Len(t, first.IncludedFiles(), 3)
}

func TestParseProjectInvalidConfig(t *testing.T) {
	_, err := (&Parser{MaxIncludeDepth: 0}).ParseProject("x.adoc")
	assert.ErrorIs(t, err, ErrInvalidDepth)

	_, err = (&Parser{MaxIncludeDepth: -3}).ParseProject("x.adoc")
	assert.ErrorIs(t, err, ErrInvalidDepth)

	_, err = (&Parser{MaxIncludeDepth: 2, Collisions: "rename"}).ParseProject("x.adoc")
	assert.ErrorIs(t, err, ErrUnknownCollisionPolicy)
}

func TestParseProjectCollisionPolicies(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"doc.adoc":  "= Doc\n== Usage\ninclude::more.adoc[]\n",
		"more.adoc": "== Usage\nagain\n",
	})
	root := filepath.Join(dir, "doc.adoc")

	suffixed, err := NewParser().ParseProject(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc", "doc.usage", "doc.usage-2"}, ids(suffixed.Sections()))
	second, _ := suffixed.Section("doc.usage-2")
	assert.Equal(t, filepath.Join(dir, "more.adoc"), second.SourceFile)

	p := NewParser()
	p.Collisions = CollisionOverwrite
	overwritten, err := p.ParseProject(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc", "doc.usage"}, ids(overwritten.Sections()))
	usage, _ := overwritten.Section("doc.usage")
	assert.Equal(t, "again", usage.Content)
}

func TestParseProjectMarkdownFences(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"README.md": "# Tool\n```sh\n# install\nmake\n```\n## Usage\n",
	})
	root := filepath.Join(dir, "README.md")

	plain, err := NewParser().ParseProject(root)
	require.NoError(t, err)
	// The shell comment reads as a level-1 heading without fence tracking.
	assert.Equal(t, []string{"tool", "install", "install.usage"}, ids(plain.Sections()))

	p := NewParser()
	p.MarkdownFences = true
	fenced, err := p.ParseProject(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"tool", "tool.usage"}, ids(fenced.Sections()))
}

func TestIndexWalk(t *testing.T) {
	ix := buildText(t, "= A\n== B\n=== C\n== D\n= E\n", CollisionSuffix)

	var got []string
	ix.Walk(func(s Section, depth int) {
		got = append(got, fmt.Sprintf("%d:%s", depth, s.ID))
	})
	assert.Equal(t, []string{"0:a", "1:a.b", "2:a.b.c", "1:a.d", "0:e"}, got)
	assert.Equal(t, []string{"a", "e"}, ids(ix.Roots()))
}

func TestSectionCloneIsIndependent(t *testing.T) {
	ix := buildText(t, "= A\n== B\n", CollisionSuffix)
	a, _ := ix.Section("a")
	a.Children[0] = "mutated"

	again, _ := ix.Section("a")
	assert.Equal(t, []string{"a.b"}, again.Children)
}
