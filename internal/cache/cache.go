// Package cache answers whether a previously provisioned terraform
// binary already exists under the per-user cache root. It only reads;
// entries are written as a side effect of successful extraction and may
// be removed externally at any time, so every miss is an ordinary
// answer, never an error.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tfwrap/tfwrap/internal/version"
)

// DefaultRoot returns the cache root directory, honoring the
// TFWRAP_CACHE_DIR override before falling back to the per-user cache
// directory.
func DefaultRoot() (string, error) {
	if dir := os.Getenv("TFWRAP_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user cache directory: %w", err)
	}
	return filepath.Join(base, "tfwrap"), nil
}

// Cache is a read-only view of the per-version directory store.
// Layout: <root>/<version>/<binary>.
type Cache struct {
	root   string
	binary string
}

// New creates a cache view over root for the named tool binary.
func New(root, binary string) *Cache {
	return &Cache{root: root, binary: binary}
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// VersionDir returns the directory holding the given version's binary.
func (c *Cache) VersionDir(v string) string {
	return filepath.Join(c.root, v)
}

// BinaryPath returns where the given version's binary lives, whether or
// not it exists yet.
func (c *Cache) BinaryPath(v string) string {
	return filepath.Join(c.root, v, c.binary)
}

// Find looks up a cached binary. With a desired version it answers only
// for that exact version; without one it returns the best available
// version. A missing cache root or no usable entry is a miss.
func (c *Cache) Find(desired string) (string, bool) {
	if desired != "" {
		return c.lookup(desired)
	}
	return c.Best()
}

// Best enumerates version-named subdirectories of the cache root and
// returns the binary under the highest version by component-wise
// numeric comparison.
func (c *Cache) Best() (string, bool) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return "", false
	}

	var best, bestPath string
	for _, entry := range entries {
		if !entry.IsDir() || !version.Pattern.MatchString(entry.Name()) {
			continue
		}
		path, ok := c.lookup(entry.Name())
		if !ok {
			continue
		}
		if best == "" || version.Compare(entry.Name(), best) > 0 {
			best = entry.Name()
			bestPath = path
		}
	}

	if best == "" {
		return "", false
	}
	return bestPath, true
}

func (c *Cache) lookup(v string) (string, bool) {
	path := c.BinaryPath(v)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return "", false
	}
	return path, true
}
