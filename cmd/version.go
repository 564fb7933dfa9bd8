package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docidx %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
