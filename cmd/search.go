package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/query"
	"github.com/itsmostafa/docidx/internal/render"
)

var searchLimit int
var searchOffset int
var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search section titles and content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}

		page := query.Paginate(query.Search(snap, strings.Join(args, " ")), searchLimit, searchOffset)
		if searchJSON {
			return writeJSON(cmd.OutOrStdout(), page)
		}
		render.SearchResults(cmd.OutOrStdout(), page.Items)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum number of results (0 = all)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(searchCmd)
}
