// Package render draws index results for the terminal.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/docidx/internal/docindex"
	"github.com/itsmostafa/docidx/internal/query"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// warnStyle for warnings
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// idStyle for section ids
	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("81"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)
)

// Summary renders the headline numbers of a snapshot.
func Summary(w io.Writer, snap *docindex.Snapshot) {
	meta := query.ProjectMetadata(snap)

	var roots []string
	for _, r := range meta.RootFiles {
		roots = append(roots, r.File)
	}

	content := fmt.Sprintf("%s %s\n%s %d  %s %d  %s %d\n%s %s\n%s %s",
		dimStyle.Render("Project:"), titleStyle.Render(meta.ProjectRoot),
		dimStyle.Render("Sections:"), meta.TotalSections,
		dimStyle.Render("Words:"), meta.TotalWords,
		dimStyle.Render("Included:"), meta.IncludedFiles,
		dimStyle.Render("Roots:"), strings.Join(roots, ", "),
		dimStyle.Render("Generation:"), meta.Generation,
	)
	fmt.Fprintln(w, boxStyle.Render(content))
}

// Tree renders a table of contents with one indented line per section.
func Tree(w io.Writer, nodes []*query.Node) {
	var walk func(n *query.Node, depth int)
	walk = func(n *query.Node, depth int) {
		fmt.Fprintf(w, "%s%s %s %s\n",
			strings.Repeat("  ", depth),
			titleStyle.Render(strings.Repeat("=", n.Level)),
			n.Title,
			idStyle.Render("["+n.ID+"]"),
		)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, n := range nodes {
		walk(n, 0)
	}
}

// SectionList renders one line per section without nesting.
func SectionList(w io.Writer, sections []docindex.Section) {
	if len(sections) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No sections."))
		return
	}
	for _, s := range sections {
		fmt.Fprintf(w, "%s %s %s %s\n",
			titleStyle.Render(strings.Repeat("=", s.Level)),
			s.Title,
			idStyle.Render("["+s.ID+"]"),
			dimStyle.Render(fmt.Sprintf("lines %d-%d", s.LineStart, s.LineEnd)),
		)
	}
}

// Files renders sections grouped by the file their header came from.
func Files(w io.Writer, dir string, groups []query.FileGroup) {
	for _, g := range groups {
		label := rel(dir, g.File)
		switch {
		case g.Root && g.Aggregator:
			label += " " + dimStyle.Render("(root, aggregator)")
		case g.Root:
			label += " " + dimStyle.Render("(root)")
		}
		fmt.Fprintln(w, titleStyle.Render(label))
		for _, s := range g.Sections {
			fmt.Fprintf(w, "  %s %s\n", idStyle.Render(s.ID), s.Title)
		}
	}
}

// Section renders one section with its position and content.
func Section(w io.Writer, s docindex.Section) {
	header := fmt.Sprintf("%s %s\n%s %s  %s %d  %s %d-%d\n%s %s",
		titleStyle.Render(strings.Repeat("=", s.Level)), s.Title,
		dimStyle.Render("ID:"), idStyle.Render(s.ID),
		dimStyle.Render("Level:"), s.Level,
		dimStyle.Render("Lines:"), s.LineStart, s.LineEnd,
		dimStyle.Render("Source:"), filepath.Base(s.SourceFile),
	)
	fmt.Fprintln(w, boxStyle.Render(header))
	if s.Content != "" {
		fmt.Fprintln(w, s.Content)
	}
	if len(s.Children) > 0 {
		fmt.Fprintf(w, "%s %s\n", dimStyle.Render("Children:"), strings.Join(s.Children, ", "))
	}
}

// SearchResults renders search hits, best first.
func SearchResults(w io.Writer, hits []query.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No matches."))
		return
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s %s %s\n", idStyle.Render(h.ID), h.Title, dimStyle.Render(fmt.Sprintf("(relevance %d)", h.Relevance)))
		if h.Snippet != "" {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render(strings.ReplaceAll(h.Snippet, "\n", " ")))
		}
	}
}

// Validation renders a validation report.
func Validation(w io.Writer, r query.Report) {
	status := successStyle.Render("VALID")
	if !r.Valid {
		status = errorStyle.Render("INVALID")
	}
	fmt.Fprintf(w, "%s %s %d sections, %d issues, %d warnings\n",
		status, dimStyle.Render("-"), r.TotalSections, len(r.Issues), len(r.Warnings))
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s %s\n", errorStyle.Render("✗"), issue)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warnStyle.Render("!"), warning)
	}
}

// Dependencies renders the include tree of each root.
func Dependencies(w io.Writer, dir string, d query.Deps) {
	for _, root := range d.Roots {
		label := rel(dir, root.Root)
		if root.Aggregator {
			label += " " + dimStyle.Render("(aggregator)")
		}
		fmt.Fprintln(w, titleStyle.Render(label))
		for _, inc := range root.Includes {
			fmt.Fprintf(w, "  %s %s %s\n", rel(dir, inc.From), dimStyle.Render("->"), rel(dir, inc.To))
		}
	}
}

func rel(dir, path string) string {
	if r, err := filepath.Rel(dir, path); err == nil {
		return r
	}
	return path
}
