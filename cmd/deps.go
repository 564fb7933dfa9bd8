package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/query"
	"github.com/itsmostafa/docidx/internal/render"
)

var depsJSON bool

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Show which files each root includes",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		deps := query.Dependencies(snap)
		if depsJSON {
			return writeJSON(cmd.OutOrStdout(), deps)
		}
		render.Dependencies(cmd.OutOrStdout(), snap.Dir, deps)
		return nil
	},
}

func init() {
	depsCmd.Flags().BoolVar(&depsJSON, "json", false, "Print dependencies as JSON")
	rootCmd.AddCommand(depsCmd)
}
