package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/store"
)

var exportDB string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the index to a SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		path := cfg.Store.Path
		if cmd.Flags().Changed("db") {
			path = exportDB
		}

		st, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		if err := st.SaveSnapshot(cmd.Context(), snap); err != nil {
			return fmt.Errorf("failed to export snapshot: %w", err)
		}

		n, err := st.CountSections(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to verify export: %w", err)
		}
		gen, _, err := st.Generation(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to verify export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sections to %s (generation %s)\n", n, path, gen)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "", "Database path (default store.path from config)")
	rootCmd.AddCommand(exportCmd)
}
