package docindex

import (
	"encoding/json"
	"sort"
)

// Section represents one header-delimited block of the resolved document.
// Line numbers are 0-based indices into the flattened line stream, not into
// any single physical file.
type Section struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Level      int      `json:"level"`
	Content    string   `json:"content"`
	LineStart  int      `json:"line_start"`
	LineEnd    int      `json:"line_end"`
	SourceFile string   `json:"source_file"`
	Children   []string `json:"children"`
	ParentID   string   `json:"parent_id,omitempty"`

	// DocumentPosition equals LineStart. Consumers use it as a stable
	// cross-section ordering key.
	DocumentPosition int `json:"document_position"`
}

// HasParent reports whether the section is nested under another section.
func (s Section) HasParent() bool {
	return s.ParentID != ""
}

// Clone returns a copy that shares no slices with s.
func (s Section) Clone() Section {
	c := s
	c.Children = append([]string{}, s.Children...)
	return c
}

// String returns a JSON representation of the Section for debugging.
func (s Section) String() string {
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}

// Include is one include directive edge, in the order it was encountered.
type Include struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Index is the result of one parse pass over a root file. It is never
// mutated after ParseProject returns.
type Index struct {
	root     string
	sections []Section
	byID     map[string]int
	included map[string]struct{}
	includes []Include
	lines    []string
	sources  []string
}

// Root returns the root file the index was parsed from.
func (ix *Index) Root() string {
	return ix.root
}

// Len returns the number of addressable sections.
func (ix *Index) Len() int {
	return len(ix.byID)
}

// Section returns a copy of the section with the given id.
func (ix *Index) Section(id string) (Section, bool) {
	slot, ok := ix.byID[id]
	if !ok {
		return Section{}, false
	}
	return ix.sections[slot].Clone(), true
}

// Sections returns every addressable section in document order. Entries
// shadowed by a later section with the same id are left out.
func (ix *Index) Sections() []Section {
	out := make([]Section, 0, len(ix.byID))
	for slot, s := range ix.sections {
		if ix.byID[s.ID] != slot {
			continue
		}
		out = append(out, s.Clone())
	}
	return out
}

// Roots returns the top-level sections (those without a parent) in
// document order.
func (ix *Index) Roots() []Section {
	var out []Section
	for _, s := range ix.Sections() {
		if !s.HasParent() {
			out = append(out, s)
		}
	}
	return out
}

// Walk traverses the section tree depth-first in document order, calling fn
// with each section and its depth below the top level.
func (ix *Index) Walk(fn func(s Section, depth int)) {
	type frame struct {
		id    string
		depth int
	}
	roots := ix.Roots()
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{id: roots[i].ID})
	}
	seen := make(map[string]bool, len(ix.byID))
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[f.id] {
			continue
		}
		seen[f.id] = true
		s, ok := ix.Section(f.id)
		if !ok {
			continue
		}
		fn(s, f.depth)
		for i := len(s.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: s.Children[i], depth: f.depth + 1})
		}
	}
}

// IncludedFiles returns every file reached through an include directive,
// sorted. The root file is never part of this set.
func (ix *Index) IncludedFiles() []string {
	out := make([]string, 0, len(ix.included))
	for f := range ix.included {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// IsIncluded reports whether path was reached through an include directive.
func (ix *Index) IsIncluded(path string) bool {
	_, ok := ix.included[path]
	return ok
}

// Includes returns the include directive edges in the order they were met.
func (ix *Index) Includes() []Include {
	return append([]Include(nil), ix.includes...)
}

// Lines returns a copy of the flattened, include-resolved line stream.
func (ix *Index) Lines() []string {
	return append([]string(nil), ix.lines...)
}

// LineSource returns the file that contributed line i of the flattened
// stream.
func (ix *Index) LineSource(i int) (string, bool) {
	if i < 0 || i >= len(ix.sources) {
		return "", false
	}
	return ix.sources[i], true
}
