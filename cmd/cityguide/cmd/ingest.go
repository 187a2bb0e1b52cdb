package cmd

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tutar/city-guide-sub000/internal/ingest"
	"github.com/tutar/city-guide-sub000/internal/output"
)

func newIngestCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the corpus into the catalog and indexes",
		Long: `Ingest reads every JSON file in the corpus directory, saves the
documents to the catalog, and rebuilds the keyword and embedding
indexes.

Re-ingesting a document with the same ID replaces it. With --watch,
the command keeps running and re-ingests whenever a corpus file
changes.

Examples:
  cityguide ingest
  cityguide ingest --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd.Context(), cmd, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and re-ingest on corpus changes")

	return cmd
}

func runIngest(ctx context.Context, cmd *cobra.Command, watch bool) error {
	cfg, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	out := output.New(cmd.OutOrStdout())

	// One ingest at a time per data dir. A second concurrent ingest
	// would race catalog writes and index rebuilds.
	lock, err := ingest.AcquireDirLock(cfg.Paths.DataDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	env, err := openEnvironment(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	count, err := env.loader.LoadDir(ctx, cfg.Paths.CorpusDir)
	if err != nil {
		return err
	}
	out.Successf("Ingested %d documents from %s", count, cfg.Paths.CorpusDir)

	total, err := env.catalog.Count(ctx)
	if err == nil {
		out.Statusf("📚", "Catalog now holds %d documents", total)
	}

	if !watch {
		return nil
	}

	watcher, err := ingest.NewWatcher(env.loader, cfg.Paths.CorpusDir,
		ingest.WithDebounce(cfg.Ingest.WatchDebounceDuration()),
		ingest.WithWatchLogger(logger),
	)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	out.Statusf("👀", "Watching %s for changes (ctrl-c to stop)", cfg.Paths.CorpusDir)
	logger.Info("watch_started", slog.String("dir", cfg.Paths.CorpusDir))

	if err := watcher.Run(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
