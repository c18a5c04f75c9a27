package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DocumentFile represents a parsed document that can be fed to the
// extractor. Format names the annotation format of the content ("naf",
// "json"); an empty Format is resolved from the file extension.
//
// The actual file content is retrieved via the associated DocumentLoader.
type DocumentFile struct {
	ID       string
	FilePath string
	Format   string
	Loader   DocumentLoader
}

// NewDocumentFileParams defines the input parameters for creating a new
// DocumentFile.
type NewDocumentFileParams struct {
	ID       string
	FilePath string
	Format   string
	Loader   DocumentLoader
}

// NewDocumentFile creates a DocumentFile from params.
func NewDocumentFile(params NewDocumentFileParams) DocumentFile {
	return DocumentFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		Format:   params.Format,
		Loader:   params.Loader,
	}
}

// GetBytes retrieves the raw content of the file using its Loader.
//
// Example:
//
//	data, err := file.GetBytes(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
func (f *DocumentFile) GetBytes(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileBytes(ctx, *f)
}

// DocumentLoader defines the interface for loading the contents of a
// DocumentFile. Implementations may load files from disk, cloud storage,
// or other sources.
type DocumentLoader interface {
	GetFileBytes(ctx context.Context, file DocumentFile) ([]byte, error)
}

// CacheKey identifies a file in loader caches.
func CacheKey(file DocumentFile) string {
	return file.ID + ":" + file.FilePath
}

// Cache memoises file contents and collapses concurrent loads of the same
// key into a single fetch.
type Cache struct {
	mu    sync.RWMutex
	data  map[string][]byte
	group singleflight.Group
}

func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.data[key]
	return b, ok
}

// Load returns the cached content for key or calls fetch once to fill it.
func (c *Cache) Load(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if cached, ok := c.get(key); ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.get(key); ok {
			return cached, nil
		}
		b, err := fetch()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.data[key] = b
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Forget drops key from the cache.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	c.group.Forget(key)
}
