package jsondoc

import (
	"os"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 128

// Cache keeps recently parsed documents keyed by file path. Entries are
// validated by content hash: a file that changed on disk is reparsed,
// so callers never see a stale parse.
type Cache struct {
	docs *lru.Cache[string, cachedDoc]
}

type cachedDoc struct {
	hash uint64
	doc  *Document
}

// NewCache creates a cache holding up to size documents. A non-positive
// size falls back to a default.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	docs, _ := lru.New[string, cachedDoc](size)
	return &Cache{docs: docs}
}

// Get returns the parsed form of content, reusing the cached parse for
// path when the content hash matches.
func (c *Cache) Get(path string, content []byte) *Document {
	sum := xxhash.Sum64(content)
	if entry, ok := c.docs.Get(path); ok && entry.hash == sum {
		return entry.doc
	}
	doc := Parse(content)
	c.docs.Add(path, cachedDoc{hash: sum, doc: doc})
	return doc
}

// Load reads and parses the file at path through the cache.
func (c *Cache) Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.Get(path, content), nil
}

// Forget drops the cached parse for path, if any.
func (c *Cache) Forget(path string) {
	c.docs.Remove(path)
}
