package docindex

import (
	"regexp"
	"strings"
)

// headerPattern accepts AsciiDoc (=) and Markdown (#) headings alike,
// regardless of file extension. It is applied to the trimmed line.
var headerPattern = regexp.MustCompile(`^(=+|#+)\s+(.+)$`)

// builder turns the flattened line stream into the section arena. Sections
// live in a flat slice; the stack and parent/child links refer to them by
// slot or id, never by pointer.
type builder struct {
	sources []string
	blocks  blockTracker
	ids     idAllocator

	sections []Section
	byID     map[string]int
	stack    []openSection
	buffer   []string
}

func newBuilder(sources []string, policy CollisionPolicy, fences bool) *builder {
	return &builder{
		sources: sources,
		blocks:  blockTracker{fences: fences},
		ids:     idAllocator{policy: policy},
		byID:    make(map[string]int),
	}
}

// build scans every line once and returns the arena and its id index.
func (b *builder) build(lines []string) ([]Section, map[string]int) {
	for i, line := range lines {
		if b.blocks.observe(line) {
			b.content(line)
			continue
		}
		m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			b.content(line)
			continue
		}
		b.header(i, len(m[1]), strings.TrimSpace(m[2]))
	}
	b.finish(len(lines) - 1)
	return b.sections, b.byID
}

// content buffers a line for the innermost open section. Lines before the
// first header have no section and are dropped.
func (b *builder) content(line string) {
	if len(b.stack) == 0 {
		return
	}
	b.buffer = append(b.buffer, line)
}

func (b *builder) header(i, level int, title string) {
	if n := len(b.stack); n > 0 {
		top := &b.sections[b.stack[n-1].slot]
		top.Content = b.flush()
		top.LineEnd = i - 1
	}

	// Anything at the same or a deeper level cannot be an ancestor of the
	// new header, so its span ends here.
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].level >= level {
		b.sections[b.stack[len(b.stack)-1].slot].LineEnd = i - 1
		b.stack = b.stack[:len(b.stack)-1]
	}

	parentSlot := -1
	if n := len(b.stack); n > 0 {
		parentSlot = b.stack[n-1].slot
	}

	id, segment := b.ids.allocate(title, level, b.stack, b.byID)

	s := Section{
		ID:               id,
		Title:            title,
		Level:            level,
		LineStart:        i,
		LineEnd:          i,
		SourceFile:       b.sources[i],
		Children:         []string{},
		DocumentPosition: i,
	}
	if parentSlot >= 0 {
		parent := &b.sections[parentSlot]
		s.ParentID = parent.ID
		if !containsID(parent.Children, id) {
			parent.Children = append(parent.Children, id)
		}
	}

	slot := len(b.sections)
	b.sections = append(b.sections, s)
	b.byID[id] = slot
	b.stack = append(b.stack, openSection{slot: slot, level: level, segment: segment})
}

// finish closes every section still open at end of stream.
func (b *builder) finish(last int) {
	if n := len(b.stack); n > 0 {
		b.sections[b.stack[n-1].slot].Content = b.flush()
	}
	for _, e := range b.stack {
		b.sections[e.slot].LineEnd = last
	}
	b.stack = nil
}

func (b *builder) flush() string {
	text := strings.TrimSpace(strings.Join(b.buffer, "\n"))
	b.buffer = b.buffer[:0]
	return text
}

func containsID(ids []string, id string) bool {
	for _, c := range ids {
		if c == id {
			return true
		}
	}
	return false
}
