// Package query answers read-only questions about a published
// docindex.Snapshot: tables of contents, lookups, search, metadata,
// validation and include dependencies.
//
// Every function takes the snapshot explicitly. Callers load the snapshot
// once per request so that all answers within the request come from the same
// parse pass.
package query

import (
	"errors"
	"fmt"

	"github.com/itsmostafa/docidx/internal/docindex"
)

// ErrSectionNotFound is returned when an id is not present in the snapshot.
var ErrSectionNotFound = errors.New("section not found")

// Node is a section in a table-of-contents tree.
type Node struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Level         int     `json:"level"`
	LineStart     int     `json:"line_start"`
	LineEnd       int     `json:"line_end"`
	SourceFile    string  `json:"source_file"`
	ChildrenCount int     `json:"children_count"`
	Children      []*Node `json:"children,omitempty"`
}

func newNode(s docindex.Section) *Node {
	return &Node{
		ID:            s.ID,
		Title:         s.Title,
		Level:         s.Level,
		LineStart:     s.LineStart,
		LineEnd:       s.LineEnd,
		SourceFile:    s.SourceFile,
		ChildrenCount: len(s.Children),
	}
}

// Structure returns the section tree of every root, roots in snapshot order
// and siblings in document order. Sections deeper than maxDepth are left
// out; maxDepth <= 0 means no limit.
func Structure(snap *docindex.Snapshot, maxDepth int) []*Node {
	var out []*Node
	for _, ix := range snap.Indexes() {
		nodes := make(map[string]*Node)
		ix.Walk(func(s docindex.Section, _ int) {
			if maxDepth > 0 && s.Level > maxDepth {
				return
			}
			n := newNode(s)
			nodes[s.ID] = n
			if !s.HasParent() {
				out = append(out, n)
			} else if parent, ok := nodes[s.ParentID]; ok {
				parent.Children = append(parent.Children, n)
			}
		})
	}
	return out
}

// Section returns the section with the given id.
func Section(snap *docindex.Snapshot, id string) (docindex.Section, error) {
	s, _, ok := snap.Section(id)
	if !ok {
		return docindex.Section{}, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	return s, nil
}

// SectionsAtLevel returns every section with exactly the given level, in
// document order.
func SectionsAtLevel(snap *docindex.Snapshot, level int) []docindex.Section {
	var out []docindex.Section
	for _, s := range snap.Sections() {
		if s.Level == level {
			out = append(out, s)
		}
	}
	return out
}

// Children returns the direct children of the section parentID in
// document order. level > 0 keeps only children of that level.
func Children(snap *docindex.Snapshot, parentID string, level int) ([]docindex.Section, error) {
	parent, ix, ok := snap.Section(parentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, parentID)
	}
	var out []docindex.Section
	for _, id := range parent.Children {
		c, ok := ix.Section(id)
		if !ok || (level > 0 && c.Level != level) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// FileGroup lists the sections whose header line came from one physical
// file.
type FileGroup struct {
	File       string             `json:"file"`
	Root       bool               `json:"root"`
	Aggregator bool               `json:"aggregator"`
	Sections   []docindex.Section `json:"sections"`
}

// ByFile regroups sections by source file. Root files come first in
// snapshot order, followed by included files in the order their first
// section appears. Root files that contribute no header of their own,
// typically aggregators, still get an empty group.
func ByFile(snap *docindex.Snapshot) []FileGroup {
	roots := make(map[string]bool)
	for _, r := range snap.RootFiles() {
		roots[r] = true
	}

	var order []string
	groups := make(map[string]*FileGroup)
	group := func(file string) *FileGroup {
		g, ok := groups[file]
		if !ok {
			g = &FileGroup{File: file, Root: roots[file], Aggregator: docindex.IsAggregator(file)}
			groups[file] = g
			order = append(order, file)
		}
		return g
	}

	for _, r := range snap.RootFiles() {
		group(r)
	}
	for _, s := range snap.Sections() {
		g := group(s.SourceFile)
		g.Sections = append(g.Sections, s)
	}

	out := make([]FileGroup, 0, len(order))
	for _, f := range order {
		out = append(out, *groups[f])
	}
	return out
}
