package docindex

import "strings"

// blockDelimiters are the AsciiDoc delimited-block fences: listing/source,
// literal, sidebar and example. A block closes only on the token that
// opened it, so blocks of the same kind cannot nest.
var blockDelimiters = [...]string{"----", "....", "****", "===="}

// markdownFences open a fenced code block when MarkdownFences is enabled.
// The opening fence may be longer than three characters and may carry an
// info string. The closing fence is bare and at least as long as the opening
// run of the same character.
var markdownFences = [...]string{"```", "~~~"}

// blockTracker follows delimited-block state while the section builder walks
// the flattened stream. The zero value is outside any block.
type blockTracker struct {
	fences bool
	delim  string
	fenced bool // delim is a Markdown fence run
}

// inside reports whether the tracker is currently within a delimited block.
func (b *blockTracker) inside() bool {
	return b.delim != ""
}

// observe feeds one line through the tracker and reports whether the line
// belongs to a delimited block (its fences included). Such lines are always
// content and must never be tested against the header pattern.
func (b *blockTracker) observe(line string) bool {
	trimmed := strings.TrimSpace(line)

	if b.inside() {
		if b.closes(trimmed) {
			b.delim = ""
			b.fenced = false
		}
		return true
	}

	for _, d := range blockDelimiters {
		if trimmed == d {
			b.delim = d
			return true
		}
	}
	if b.fences {
		for _, f := range markdownFences {
			if strings.HasPrefix(trimmed, f) {
				b.delim = fenceRun(trimmed)
				b.fenced = true
				return true
			}
		}
	}
	return false
}

func (b *blockTracker) closes(trimmed string) bool {
	if !b.fenced {
		return trimmed == b.delim
	}
	return len(trimmed) >= len(b.delim) && fenceRun(trimmed) == trimmed && trimmed[0] == b.delim[0]
}

// fenceRun returns the leading run of the fence character line starts with.
func fenceRun(line string) string {
	n := 0
	for n < len(line) && line[n] == line[0] {
		n++
	}
	return line[:n]
}
