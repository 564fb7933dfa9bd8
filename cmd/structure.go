package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/docindex"
	"github.com/itsmostafa/docidx/internal/query"
	"github.com/itsmostafa/docidx/internal/render"
)

var structureDepth int
var structureLevel int
var structureParent string
var structureLimit int
var structureOffset int
var structureJSON bool

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Print the section tree",
	Long: `Print the section tree of every root document.

With --level or --parent the output is a flat, paginated list instead:
--level N lists every section of that level, --parent ID lists the direct
children of one section, and both together list the children of that level.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if structureLevel <= 0 && structureParent == "" {
			tree := query.Structure(snap, structureDepth)
			if structureJSON {
				return writeJSON(out, tree)
			}
			render.Tree(out, tree)
			return nil
		}

		var sections []docindex.Section
		if structureParent != "" {
			sections, err = query.Children(snap, structureParent, structureLevel)
			if err != nil {
				return err
			}
		} else {
			sections = query.SectionsAtLevel(snap, structureLevel)
		}

		page := query.Paginate(sections, structureLimit, structureOffset)
		if structureJSON {
			return writeJSON(out, page)
		}
		render.SectionList(out, page.Items)
		return nil
	},
}

func init() {
	structureCmd.Flags().IntVarP(&structureDepth, "depth", "d", 0, "Deepest section level to show (0 = all)")
	structureCmd.Flags().IntVar(&structureLevel, "level", 0, "List only sections of this level")
	structureCmd.Flags().StringVar(&structureParent, "parent", "", "List only the children of this section id")
	structureCmd.Flags().IntVarP(&structureLimit, "limit", "l", 0, "Maximum number of sections in a flat list (0 = all)")
	structureCmd.Flags().IntVar(&structureOffset, "offset", 0, "Number of sections to skip in a flat list")
	structureCmd.Flags().BoolVar(&structureJSON, "json", false, "Print the tree as JSON")
	rootCmd.AddCommand(structureCmd)
}
