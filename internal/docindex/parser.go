package docindex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/itsmostafa/docidx/internal/log"
)

// DefaultMaxIncludeDepth is the include nesting limit used by NewParser.
const DefaultMaxIncludeDepth = 4

// ErrInvalidDepth is returned when MaxIncludeDepth is not positive.
var ErrInvalidDepth = errors.New("docindex: max include depth must be positive")

// Parser builds section indexes. A Parser holds configuration only, so one
// value can be shared between goroutines.
type Parser struct {
	// MaxIncludeDepth bounds include nesting. The root file is at depth 0; a
	// file reached at this depth is replaced by a sentinel line.
	MaxIncludeDepth int

	// Collisions selects the duplicate-id policy. Empty means CollisionSuffix.
	Collisions CollisionPolicy

	// MarkdownFences additionally treats ``` and ~~~ fences as delimited
	// blocks.
	MarkdownFences bool

	// ReadFile reads a document file. Nil means os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// NewParser returns a Parser with the default configuration.
func NewParser() *Parser {
	return &Parser{
		MaxIncludeDepth: DefaultMaxIncludeDepth,
		Collisions:      CollisionSuffix,
	}
}

// Validate reports configuration errors. These are caller errors; problems
// with file contents are never reported through Validate or ParseProject.
func (p *Parser) Validate() error {
	if p.MaxIncludeDepth <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, p.MaxIncludeDepth)
	}
	if _, err := ParseCollisionPolicy(string(p.Collisions)); err != nil {
		return err
	}
	return nil
}

// ParseProject resolves includes starting at rootFile and builds the section
// index of the resulting document. Every call starts from scratch; nothing
// is carried over from earlier calls.
//
// Missing files, unreadable includes, include cycles and excessive nesting
// degrade to sentinel lines in the flattened stream. The only errors are
// configuration errors.
func (p *Parser) ParseProject(rootFile string) (*Index, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	policy, _ := ParseCollisionPolicy(string(p.Collisions))

	readFile := p.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	start := time.Now()
	root := filepath.Clean(rootFile)

	r := newResolver(p.MaxIncludeDepth, readFile)
	r.resolve(root, 0)

	sections, byID := newBuilder(r.sources, policy, p.MarkdownFences).build(r.lines)

	ix := &Index{
		root:     root,
		sections: sections,
		byID:     byID,
		included: r.included,
		includes: r.includes,
		lines:    r.lines,
		sources:  r.sources,
	}

	log.Debug().
		Str("root", root).
		Int("lines", len(r.lines)).
		Int("sections", ix.Len()).
		Int("included", len(r.included)).
		Dur("took", time.Since(start)).
		Msg("parsed document")

	return ix, nil
}
