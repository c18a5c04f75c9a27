package io

import (
	"context"
	"fmt"
	"os"

	"github.com/cltl/micro-portraits/pkg/loader"
)

// IODocumentLoader loads documents directly from the local filesystem with caching.
type IODocumentLoader struct {
	cache *loader.Cache
}

// NewIODocumentLoader creates a new filesystem-based document loader.
func NewIODocumentLoader() *IODocumentLoader {
	return &IODocumentLoader{
		cache: loader.NewCache(),
	}
}

// GetFileBytes reads the file content from the filesystem. Results are cached.
func (l *IODocumentLoader) GetFileBytes(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		b, err := os.ReadFile(file.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.FilePath, err)
		}
		return b, nil
	})
}

// Forget drops the cached content of file so that the next load rereads
// it from disk.
func (l *IODocumentLoader) Forget(file loader.DocumentFile) {
	l.cache.Forget(loader.CacheKey(file))
}
