package query

import (
	"fmt"

	"github.com/itsmostafa/docidx/internal/docindex"
)

// Report is the outcome of Validate. Issues make the structure invalid;
// warnings do not.
type Report struct {
	Valid         bool     `json:"valid"`
	Issues        []string `json:"issues"`
	Warnings      []string `json:"warnings"`
	TotalSections int      `json:"total_sections"`
}

// Validate checks the structural consistency of a snapshot: every child id
// resolves, every parent exists and sits at a strictly lower level, and
// sections are not empty. Level skips are allowed.
func Validate(snap *docindex.Snapshot) Report {
	r := Report{Issues: []string{}, Warnings: []string{}}

	for _, ix := range snap.Indexes() {
		for _, s := range ix.Sections() {
			r.TotalSections++

			for _, child := range s.Children {
				if _, ok := ix.Section(child); !ok {
					r.Issues = append(r.Issues, fmt.Sprintf("missing child section: %s (referenced by %s)", child, s.ID))
				}
			}

			if s.HasParent() {
				parent, ok := ix.Section(s.ParentID)
				switch {
				case !ok:
					r.Issues = append(r.Issues, fmt.Sprintf("missing parent section: %s (parent of %s)", s.ParentID, s.ID))
				case parent.Level >= s.Level:
					r.Warnings = append(r.Warnings, fmt.Sprintf("level hierarchy violation: %s (level %d) should be deeper than parent %s (level %d)",
						s.ID, s.Level, parent.ID, parent.Level))
				}
			}

			if s.Content == "" && len(s.Children) == 0 {
				r.Warnings = append(r.Warnings, fmt.Sprintf("empty section: %s", s.ID))
			}
		}
	}

	r.Valid = len(r.Issues) == 0
	return r
}
