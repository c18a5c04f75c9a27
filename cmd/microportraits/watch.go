package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cltl/micro-portraits/internal/watch"

	"github.com/spf13/cobra"
)

func watchCmd(opts *options) *cobra.Command {
	var (
		outDir     string
		sqlitePath string
		debounce   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Extract documents in DIR whenever they are created or change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			extractor, err := opts.extractor()
			if err != nil {
				return err
			}
			st, closeStore, err := openStore(ctx, sqlitePath, "")
			if err != nil {
				return err
			}
			defer closeStore()

			w, err := watch.NewWatcher(watch.NewWatcherParams{
				Dir:       args[0],
				OutDir:    outDir,
				Debounce:  debounce,
				Extractor: extractor,
				Store:     st,
			})
			if err != nil {
				return err
			}
			if err := w.Sync(ctx); err != nil {
				return err
			}
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "directory receiving one CSV file per document")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "also store rows in this sqlite database")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "how long to collect changes before extracting")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
