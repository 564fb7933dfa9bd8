package docindex

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/itsmostafa/docidx/internal/log"
)

// Sentinel lines stand in for content that could not be expanded. They are
// AsciiDoc comments, so the section builder treats them as plain content.
const (
	depthSentinel = "// Include depth limit reached: %s"
	cycleSentinel = "// Circular include skipped: %s"
	readSentinel  = "// Error reading file: %s"
)

// includePattern matches a whole include directive line. The attribute list
// is accepted but never interpreted.
var includePattern = regexp.MustCompile(`^include::([^\[\]]+)\[[^\]]*\]$`)

// resolver expands include directives into one flattened line stream. lines
// and sources stay index-aligned: sources[i] is the file that contributed
// lines[i].
type resolver struct {
	maxDepth int
	readFile func(string) ([]byte, error)

	visited  map[string]struct{}
	included map[string]struct{}
	includes []Include
	lines    []string
	sources  []string
}

func newResolver(maxDepth int, readFile func(string) ([]byte, error)) *resolver {
	return &resolver{
		maxDepth: maxDepth,
		readFile: readFile,
		visited:  make(map[string]struct{}),
		included: make(map[string]struct{}),
	}
}

// resolve appends the expansion of file to the stream. depth is the number
// of directives followed to reach file; the root file is resolved at 0.
func (r *resolver) resolve(file string, depth int) {
	file = filepath.Clean(file)

	if depth >= r.maxDepth {
		log.Warn().Str("file", file).Int("depth", depth).Msg("include depth limit reached")
		r.emit(fmt.Sprintf(depthSentinel, file), file)
		return
	}
	if _, seen := r.visited[file]; seen {
		log.Debug().Str("file", file).Msg("include already expanded in this pass")
		r.emit(fmt.Sprintf(cycleSentinel, file), file)
		return
	}
	r.visited[file] = struct{}{}
	if depth > 0 {
		r.included[file] = struct{}{}
	}

	data, err := r.readFile(file)
	if err != nil {
		log.Warn().Err(err).Str("file", file).Msg("failed to read document file")
		r.emit(fmt.Sprintf(readSentinel, file), file)
		return
	}

	for _, line := range splitLines(string(data)) {
		m := includePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			r.emit(line, file)
			continue
		}
		target := includeTarget(file, m[1])
		r.includes = append(r.includes, Include{From: file, To: target})
		r.resolve(target, depth+1)
	}
}

func (r *resolver) emit(line, source string) {
	r.lines = append(r.lines, line)
	r.sources = append(r.sources, source)
}

// includeTarget resolves a directive path relative to the including file's
// directory.
func includeTarget(from, ref string) string {
	ref = filepath.FromSlash(strings.TrimSpace(ref))
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(filepath.Dir(from), ref)
}

// splitLines splits text into lines, normalising CRLF endings. A single
// trailing newline terminates the last line rather than starting an empty
// one, and empty text has no lines at all.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
