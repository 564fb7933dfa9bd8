package query

import "github.com/itsmostafa/docidx/internal/docindex"

// RootDeps is the include tree of one root file.
type RootDeps struct {
	Root       string             `json:"root"`
	Aggregator bool               `json:"aggregator"`
	Includes   []docindex.Include `json:"includes"`
}

// Deps lists include relationships across a snapshot.
type Deps struct {
	Roots         []RootDeps `json:"roots"`
	IncludedFiles []string   `json:"included_files"`
}

// Dependencies returns the include edges of every root and the union of
// included files.
func Dependencies(snap *docindex.Snapshot) Deps {
	d := Deps{IncludedFiles: snap.IncludedFiles()}
	for _, ix := range snap.Indexes() {
		d.Roots = append(d.Roots, RootDeps{
			Root:       ix.Root(),
			Aggregator: docindex.IsAggregator(ix.Root()),
			Includes:   ix.Includes(),
		})
	}
	return d
}
