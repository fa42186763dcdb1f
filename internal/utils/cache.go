package utils

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultFileCacheSize bounds the number of source files kept in memory
const DefaultFileCacheSize = 1024

// fileEntry is a cached file body with the stat it was read under
type fileEntry struct {
	content string
	modTime time.Time
	size    int64
}

// FileCache holds file contents keyed by path. An entry is served only
// while the file's modification time and size are unchanged.
type FileCache struct {
	entries *lru.Cache[string, fileEntry]
}

// NewFileCache creates a cache holding at most size files. A
// non-positive size uses DefaultFileCacheSize.
func NewFileCache(size int) *FileCache {
	if size <= 0 {
		size = DefaultFileCacheSize
	}
	// lru.New only fails for a non-positive size
	entries, _ := lru.New[string, fileEntry](size)
	return &FileCache{entries: entries}
}

// Get returns the cached content for path if the file is unchanged on disk.
// A stale entry is evicted.
func (c *FileCache) Get(path string) (string, bool) {
	entry, ok := c.entries.Get(path)
	if !ok {
		return "", false
	}

	stat, err := os.Stat(path)
	if err == nil && stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
		return entry.content, true
	}

	c.entries.Remove(path)
	return "", false
}

// Put stores content for path together with the file's current stat
func (c *FileCache) Put(path, content string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.entries.Add(path, fileEntry{
		content: content,
		modTime: stat.ModTime(),
		size:    stat.Size(),
	})
	return nil
}

// Delete drops path from the cache
func (c *FileCache) Delete(path string) {
	c.entries.Remove(path)
}

// Len returns the number of cached files
func (c *FileCache) Len() int {
	return c.entries.Len()
}
