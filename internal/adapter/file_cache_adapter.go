package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/domain"
)

// FileCacheAdapter implements domain.Cache as a flat JSON map persisted to a
// single file. The whole map is loaded at construction and rewritten on every
// mutation. Expirations are ignored: entries live until overwritten. This is
// the faithful persistence format for resolved image descriptors; growth is
// unbounded by design.
type FileCacheAdapter struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// NewFileCacheAdapter loads (or initializes) the cache file at path.
func NewFileCacheAdapter(path string) (*FileCacheAdapter, error) {
	c := &FileCacheAdapter{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", path, err)
	}
	return c, nil
}

func (c *FileCacheAdapter) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	val, ok := c.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return val, nil
}

// Set overwrites any existing entry for key and rewrites the whole file.
// Concurrent writers for the same key race last-writer-wins, which is
// acceptable: entries are idempotent re-derivations of the same query.
func (c *FileCacheAdapter) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
	return c.flushLocked()
}

func (c *FileCacheAdapter) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return nil
	}
	delete(c.entries, key)
	return c.flushLocked()
}

func (c *FileCacheAdapter) Ping(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

func (c *FileCacheAdapter) flushLocked() error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entries: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp, c.path)
}

var _ domain.Cache = (*FileCacheAdapter)(nil)
