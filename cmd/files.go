package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/query"
	"github.com/itsmostafa/docidx/internal/render"
)

var filesJSON bool

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List sections grouped by the file they come from",
	Long: `List every root and included file with the sections whose header it
contains. Roots come first; roots that only stitch other files together are
marked as aggregators.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		groups := query.ByFile(snap)
		if filesJSON {
			return writeJSON(cmd.OutOrStdout(), groups)
		}
		render.Files(cmd.OutOrStdout(), snap.Dir, groups)
		return nil
	},
}

func init() {
	filesCmd.Flags().BoolVar(&filesJSON, "json", false, "Print file groups as JSON")
	rootCmd.AddCommand(filesCmd)
}
