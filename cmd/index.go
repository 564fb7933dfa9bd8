package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/query"
	"github.com/itsmostafa/docidx/internal/render"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the project and print a summary",
	Long:  `Discover root documents, resolve their includes and report what was indexed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		if indexJSON {
			return writeJSON(cmd.OutOrStdout(), query.ProjectMetadata(snap))
		}
		render.Summary(cmd.OutOrStdout(), snap)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "Print project metadata as JSON")
	rootCmd.AddCommand(indexCmd)
}
