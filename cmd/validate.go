package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/query"
	"github.com/itsmostafa/docidx/internal/render"
)

var errInvalidIndex = errors.New("index has structural issues")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the section hierarchy for structural problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		report := query.Validate(snap)
		render.Validation(cmd.OutOrStdout(), report)
		if !report.Valid {
			return errInvalidIndex
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
