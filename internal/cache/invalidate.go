package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Clear removes every cached page and leaves an empty cache directory behind.
func (c *PageCache) Clear() error {
	if c == nil || strings.TrimSpace(c.Dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(c.Dir); err != nil {
		return err
	}
	return c.ensureDir()
}

// PurgeOlderThan removes entries whose SavedAt is older than maxAge and
// returns how many were removed. Unreadable or malformed meta files are left
// alone. A non-positive maxAge is a no-op.
func (c *PageCache) PurgeOlderThan(maxAge time.Duration) (int, error) {
	if maxAge <= 0 || c == nil || c.Dir == "" {
		return 0, nil
	}
	if _, err := os.Stat(c.Dir); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	now := time.Now().UTC()
	removed := 0
	err := filepath.WalkDir(c.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), metaSuffix) {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var e Entry
		if err := json.Unmarshal(b, &e); err != nil {
			return nil
		}
		if now.Sub(e.SavedAt) <= maxAge {
			return nil
		}
		removed++
		_ = os.Remove(path)
		_ = os.Remove(strings.TrimSuffix(path, metaSuffix) + bodySuffix)
		return nil
	})
	return removed, err
}
