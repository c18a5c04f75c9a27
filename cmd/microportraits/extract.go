package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cltl/micro-portraits/internal/config"
	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/format/csvrows"
	"github.com/cltl/micro-portraits/pkg/loader"
	ioloader "github.com/cltl/micro-portraits/pkg/loader/io"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/portrait"
	"github.com/cltl/micro-portraits/pkg/store"
	pgxstore "github.com/cltl/micro-portraits/pkg/store/pgx"
	"github.com/cltl/micro-portraits/pkg/store/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var errDuplicateDocument = errors.New("duplicate document id")

func extractCmd(opts *options) *cobra.Command {
	var (
		outPath    string
		sqlitePath string
		postgres   string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract portraits from parsed documents and write them as CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			extractor, err := opts.extractor()
			if err != nil {
				return err
			}

			st, closeStore, err := openStore(ctx, sqlitePath, postgres)
			if err != nil {
				return err
			}
			defer closeStore()

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			results, err := extractAll(ctx, extractor, args, formatName)
			if err != nil {
				return err
			}
			if err := writeResults(out, results); err != nil {
				return err
			}
			if st == nil {
				return nil
			}

			runID, err := util.NewID()
			if err != nil {
				return err
			}
			for _, res := range results {
				if err := st.SaveDocument(ctx, res.DocumentID, runID, res.Rows()); err != nil {
					return fmt.Errorf("failed to store %s: %w", res.DocumentID, err)
				}
			}
			logger.Info("[CLI] Stored documents", "documents", len(results), "run", runID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write CSV to this file instead of stdout")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "also store rows in this sqlite database")
	cmd.Flags().StringVar(&postgres, "postgres", "", "also store rows in postgres (use \"env\" for DATABASE_URL)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "input format (naf or json); guessed from the extension by default")
	cmd.MarkFlagsMutuallyExclusive("sqlite", "postgres")
	return cmd
}

// extractAll extracts every path and returns the results in argument
// order. Two documents that end up with the same id are rejected since
// their rows would share portrait ids.
func extractAll(ctx context.Context, extractor *portrait.ExtractorClient, paths []string, formatName string) ([]*portrait.Result, error) {
	l := ioloader.NewIODocumentLoader()
	files := make([]loader.DocumentFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, loader.NewDocumentFile(loader.NewDocumentFileParams{
			ID:       util.DocumentIDFromPath(p),
			FilePath: p,
			Format:   formatName,
			Loader:   l,
		}))
	}

	start := time.Now()
	results := make([]*portrait.Result, len(files))
	err := extractor.ExtractFiles(ctx, files, func(i int, res *portrait.Result) error {
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(results))
	diagnostics := 0
	for i, r := range results {
		if prev, dup := seen[r.DocumentID]; dup {
			return nil, fmt.Errorf("%w: %s and %s both have document id %q", errDuplicateDocument, prev, paths[i], r.DocumentID)
		}
		seen[r.DocumentID] = paths[i]
		diagnostics += len(r.Diagnostics)
	}
	logger.Info("[CLI] Extracted documents",
		"documents", len(results),
		"diagnostics", diagnostics,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return results, nil
}

func writeResults(w io.Writer, results []*portrait.Result) error {
	cw := csvrows.NewWriter(w)
	for _, res := range results {
		if err := cw.Write(res.Rows()); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// openStore opens the storage selected on the command line, if any. The
// returned close function is always safe to call.
func openStore(ctx context.Context, sqlitePath, postgres string) (store.PortraitStorage, func(), error) {
	switch {
	case sqlitePath != "":
		s, err := sqlite.Open(ctx, sqlitePath)
		if err != nil {
			return nil, func() {}, err
		}
		return s, func() { s.Close() }, nil
	case postgres != "":
		url := postgres
		if url == "env" {
			url = util.GetEnv("DATABASE_URL")
		}
		if err := config.Require(map[string]string{"postgres": url}); err != nil {
			return nil, func() {}, err
		}
		pool, err := pgxpool.New(ctx, url)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return pgxstore.NewPortraitDBStorageWithConnection(pool), pool.Close, nil
	}
	return nil, func() {}, nil
}
