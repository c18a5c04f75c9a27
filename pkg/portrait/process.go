package portrait

import (
	"context"
	"fmt"
	"sync"

	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/format"
	"github.com/cltl/micro-portraits/pkg/loader"
	"github.com/cltl/micro-portraits/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ExtractBytes decodes data in the named format and extracts it.
func (c *ExtractorClient) ExtractBytes(data []byte, formatName, documentID string) (*Result, error) {
	dec, err := format.ForName(formatName)
	if err != nil {
		return nil, err
	}
	doc, err := dec.Decode(data, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", documentID, err)
	}
	return c.Extract(doc)
}

// ExtractFile loads file through its loader, decodes it and extracts it.
// Documents without an id are named after the file.
func (c *ExtractorClient) ExtractFile(ctx context.Context, file loader.DocumentFile) (*Result, error) {
	dec, err := format.Resolve(file.Format, file.FilePath)
	if err != nil {
		return nil, err
	}

	data, err := file.GetBytes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file.FilePath, err)
	}

	id := file.ID
	if id == "" {
		id = util.DocumentIDFromPath(file.FilePath)
	}
	doc, err := dec.Decode(data, id)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", file.FilePath, err)
	}
	return c.Extract(doc)
}

// ExtractFiles extracts files concurrently, at most ParallelDocuments at a
// time. sink is called once per document with the file's index in files,
// in completion order and never concurrently. The first error cancels the
// remaining work.
func (c *ExtractorClient) ExtractFiles(ctx context.Context, files []loader.DocumentFile, sink func(i int, res *Result) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelDocuments)

	var mu sync.Mutex
	for i, file := range files {
		g.Go(func() error {
			res, err := c.ExtractFile(ctx, file)
			if err != nil {
				logger.Error("[Portrait] Failed to extract file", "file", file.FilePath, "err", err)
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			return sink(i, res)
		})
	}
	return g.Wait()
}
