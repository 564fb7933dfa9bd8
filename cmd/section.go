package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/docindex"
	"github.com/itsmostafa/docidx/internal/query"
	"github.com/itsmostafa/docidx/internal/render"
	"github.com/itsmostafa/docidx/internal/store"
)

var sectionJSON bool
var sectionMeta bool
var sectionDB string

var sectionCmd = &cobra.Command{
	Use:   "section <id>",
	Short: "Print one section by its dotted id",
	Long: `Print one section by its dotted id. With --db the section is read from a
database written by "docidx export" instead of parsing the project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var s docindex.Section
		if sectionDB != "" {
			if sectionMeta {
				return errors.New("--meta cannot be combined with --db")
			}
			st, err := store.Open(sectionDB)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()
			s, err = st.LoadSection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
		} else {
			_, _, snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}
			if sectionMeta {
				meta, err := query.Metadata(snap, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), meta)
			}
			s, err = query.Section(snap, args[0])
			if err != nil {
				return err
			}
		}

		if sectionJSON {
			return writeJSON(cmd.OutOrStdout(), s)
		}
		render.Section(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	sectionCmd.Flags().BoolVar(&sectionJSON, "json", false, "Print the section as JSON")
	sectionCmd.Flags().BoolVar(&sectionMeta, "meta", false, "Print word and token counts instead of content")
	sectionCmd.Flags().StringVar(&sectionDB, "db", "", "Read the section from an exported database")
	rootCmd.AddCommand(sectionCmd)
}
