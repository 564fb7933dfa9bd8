package docindex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/itsmostafa/docidx/internal/log"
)

// RootPattern selects root file candidates at the top of a project
// directory. Files whose name starts with an underscore are include
// fragments by convention and are never roots.
const RootPattern = "*.{adoc,ad,asciidoc,md,markdown}"

// ErrNoSnapshot is returned by Project.Snapshot before the first successful
// Refresh.
var ErrNoSnapshot = errors.New("docindex: project has not been indexed yet")

// Snapshot is one complete, immutable parse of a project. A new Snapshot is
// built for every refresh and replaces the previous one wholesale.
type Snapshot struct {
	Generation string    `json:"generation"`
	ParsedAt   time.Time `json:"parsed_at"`
	Dir        string    `json:"dir"`

	indexes  []*Index
	included map[string]struct{}
}

// Indexes returns one index per root file, ordered by root path.
func (s *Snapshot) Indexes() []*Index {
	return append([]*Index(nil), s.indexes...)
}

// RootFiles returns the root file of every index.
func (s *Snapshot) RootFiles() []string {
	out := make([]string, len(s.indexes))
	for i, ix := range s.indexes {
		out[i] = ix.Root()
	}
	return out
}

// Section looks an id up across all roots. When two roots define the same id
// the root that sorts first wins.
func (s *Snapshot) Section(id string) (Section, *Index, bool) {
	for _, ix := range s.indexes {
		if sec, ok := ix.Section(id); ok {
			return sec, ix, true
		}
	}
	return Section{}, nil, false
}

// Sections returns the addressable sections of all roots, root by root in
// document order, with ids shadowed by an earlier root left out.
func (s *Snapshot) Sections() []Section {
	var out []Section
	seen := make(map[string]struct{})
	for _, ix := range s.indexes {
		for _, sec := range ix.Sections() {
			if _, dup := seen[sec.ID]; dup {
				continue
			}
			seen[sec.ID] = struct{}{}
			out = append(out, sec)
		}
	}
	return out
}

// Len returns the number of sections reachable through Section.
func (s *Snapshot) Len() int {
	return len(s.Sections())
}

// IncludedFiles returns the union of included files over all roots, sorted.
func (s *Snapshot) IncludedFiles() []string {
	out := make([]string, 0, len(s.included))
	for f := range s.included {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// IsIncluded reports whether any root reached path through a directive.
func (s *Snapshot) IsIncluded(path string) bool {
	_, ok := s.included[filepath.Clean(path)]
	return ok
}

// Project indexes every root file of a documentation directory and
// publishes the result as a Snapshot.
type Project struct {
	dir    string
	parser *Parser

	refreshMu sync.Mutex
	current   atomic.Pointer[Snapshot]
}

// NewProject creates a project rooted at dir. The parser configuration is
// validated up front.
func NewProject(dir string, parser *Parser) (*Project, error) {
	if parser == nil {
		parser = NewParser()
	}
	if err := parser.Validate(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", abs)
	}
	return &Project{dir: abs, parser: parser}, nil
}

// Dir returns the absolute project directory.
func (p *Project) Dir() string {
	return p.dir
}

// DiscoverRoots lists root file candidates in the project directory, sorted.
func (p *Project) DiscoverRoots() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(p.dir), RootPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list root files: %w", err)
	}
	var roots []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "_") {
			continue
		}
		roots = append(roots, filepath.Join(p.dir, filepath.FromSlash(m)))
	}
	sort.Strings(roots)
	return roots, nil
}

// Refresh runs a full, non-incremental parse of the project and publishes
// it. The new snapshot is assembled completely before a single pointer swap
// makes it visible; on error the previous snapshot stays published.
func (p *Project) Refresh() (*Snapshot, error) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	start := time.Now()
	roots, err := p.DiscoverRoots()
	if err != nil {
		return nil, err
	}

	parsed := make([]*Index, 0, len(roots))
	for _, root := range roots {
		ix, err := p.parser.ParseProject(root)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", root, err)
		}
		parsed = append(parsed, ix)
	}

	snap := &Snapshot{
		Generation: uuid.New().String(),
		ParsedAt:   time.Now(),
		Dir:        p.dir,
		indexes:    dropIncludedRoots(parsed),
		included:   make(map[string]struct{}),
	}
	for _, ix := range parsed {
		for f := range ix.included {
			snap.included[f] = struct{}{}
		}
	}

	p.current.Store(snap)

	log.Info().
		Str("generation", snap.Generation).
		Int("roots", len(snap.indexes)).
		Int("sections", snap.Len()).
		Int("included", len(snap.included)).
		Dur("took", time.Since(start)).
		Msg("project indexed")

	return snap, nil
}

// Snapshot returns the most recently published snapshot.
func (p *Project) Snapshot() (*Snapshot, error) {
	snap := p.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// dropIncludedRoots removes root candidates that another root includes. Two
// roots that include each other are both kept.
func dropIncludedRoots(indexes []*Index) []*Index {
	kept := make([]*Index, 0, len(indexes))
	for _, ix := range indexes {
		includedElsewhere := false
		for _, other := range indexes {
			if other == ix {
				continue
			}
			if other.IsIncluded(ix.Root()) && !ix.IsIncluded(other.Root()) {
				includedElsewhere = true
				break
			}
		}
		if !includedElsewhere {
			kept = append(kept, ix)
		}
	}
	return kept
}

// IsAggregator reports whether a file is mostly include directives: at least
// one directive and at most three other lines, ignoring blank lines,
// document attributes (:name: value) and comments.
func IsAggregator(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	includes, other := 0, 0
	for _, line := range splitLines(string(data)) {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, ":"), strings.HasPrefix(line, "//"):
		case strings.HasPrefix(line, "include::"):
			includes++
		default:
			other++
		}
	}
	return includes > 0 && other <= 3
}
