package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/log"
	"github.com/itsmostafa/docidx/internal/render"
	"github.com/itsmostafa/docidx/internal/store"
	"github.com/itsmostafa/docidx/internal/watch"
)

var watchExport bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-index whenever documentation files change",
	Long: `Index the project, then keep watching it. Every change triggers a full
re-parse; the previous index stays in place if the re-parse fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, project, snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		render.Summary(out, snap)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var st *store.Store
		if watchExport {
			st, err = store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SaveSnapshot(ctx, snap); err != nil {
				return err
			}
		}

		w := watch.New(watch.Options{
			Root:     project.Dir(),
			Patterns: cfg.Watch.Patterns,
			Interval: cfg.Watch.Interval,
			Debounce: cfg.Watch.Debounce,
		}, func(changed []string) {
			log.Debug().Strs("files", changed).Msg("re-indexing")
			snap, err := project.Refresh()
			if err != nil {
				log.Error().Err(err).Msg("re-index failed, keeping previous index")
				return
			}
			render.Summary(out, snap)
			if st != nil {
				if err := st.SaveSnapshot(ctx, snap); err != nil {
					log.Error().Err(err).Msg("failed to export snapshot")
				}
			}
		})
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		<-ctx.Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchExport, "export", false, "Also write every new index to the SQLite store")
	rootCmd.AddCommand(watchCmd)
}
