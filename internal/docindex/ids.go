package docindex

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
)

// fallbackSegment replaces a slug that normalised to nothing, e.g. a title
// written entirely in non-Latin script.
const fallbackSegment = "section"

// Slug normalises a heading title into an id segment: lowercase, anything
// outside [a-z0-9 -] dropped, whitespace runs replaced by a single hyphen.
func Slug(title string) string {
	s := slugDisallowed.ReplaceAllString(strings.ToLower(title), "")
	return slugSpaces.ReplaceAllString(s, "-")
}

// CollisionPolicy decides what happens when a new header produces an id that
// is already taken in the same parse pass.
type CollisionPolicy string

const (
	// CollisionSuffix appends -2, -3, ... to the new section's own segment
	// until the id is unique. Descendants inherit the suffixed segment.
	CollisionSuffix CollisionPolicy = "suffix"

	// CollisionOverwrite keeps the later section under the id; the earlier
	// one stays in document order but is no longer addressable.
	CollisionOverwrite CollisionPolicy = "overwrite"
)

// ErrUnknownCollisionPolicy is returned for a policy name that is not one of
// the CollisionPolicy constants.
var ErrUnknownCollisionPolicy = errors.New("docindex: unknown collision policy")

// ParseCollisionPolicy converts a configuration value into a policy. The
// empty string selects CollisionSuffix.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CollisionSuffix:
		return CollisionSuffix, nil
	case CollisionOverwrite:
		return CollisionOverwrite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCollisionPolicy, s)
	}
}

// openSection is a stack entry of the section builder: an arena slot plus the
// two facts id allocation needs about it.
type openSection struct {
	slot    int
	level   int
	segment string
}

// idAllocator assigns hierarchical dotted ids.
type idAllocator struct {
	policy CollisionPolicy
}

// allocate builds the id for a new header. The prefix is the stored segment
// of every open section whose level is below the new level, outermost first.
// Each ancestor contributes the segment it was given at creation, so a level
// skipped anywhere in the chain never shows up as an empty segment. taken
// holds the ids already assigned in this pass.
func (a idAllocator) allocate(title string, level int, stack []openSection, taken map[string]int) (id, segment string) {
	parts := make([]string, 0, len(stack)+1)
	for _, e := range stack {
		if e.level < level {
			parts = append(parts, e.segment)
		}
	}

	base := Slug(title)
	if base == "" {
		base = fallbackSegment
	}
	segment = base
	id = joinID(parts, segment)

	if a.policy == CollisionOverwrite {
		return id, segment
	}
	for n := 2; ; n++ {
		if _, dup := taken[id]; !dup {
			return id, segment
		}
		segment = fmt.Sprintf("%s-%d", base, n)
		id = joinID(parts, segment)
	}
}

func joinID(prefix []string, segment string) string {
	if len(prefix) == 0 {
		return segment
	}
	return strings.Join(prefix, ".") + "." + segment
}
