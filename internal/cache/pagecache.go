package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrMiss is returned when no entry exists for a URL.
var ErrMiss = errors.New("cache miss")

// Entry is the metadata stored next to a cached page body. ETag and
// LastModified drive conditional revalidation.
type Entry struct {
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	SavedAt      time.Time `json:"saved_at"`
}

// PageCache stores fetched pages on disk as <key>.meta.json and <key>.body
// where key is sha256(url). There is no eviction beyond PurgeOlderThan.
type PageCache struct {
	Dir string
	// StrictPerms writes 0700 directories and 0600 files.
	StrictPerms bool
}

func (c *PageCache) dirMode() os.FileMode {
	if c.StrictPerms {
		return 0o700
	}
	return 0o755
}

func (c *PageCache) fileMode() os.FileMode {
	if c.StrictPerms {
		return 0o600
	}
	return 0o644
}

func (c *PageCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	if err := os.MkdirAll(c.Dir, c.dirMode()); err != nil {
		return err
	}
	if c.StrictPerms {
		return os.Chmod(c.Dir, 0o700)
	}
	return nil
}

// Key returns the file stem used for url.
func Key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (c *PageCache) metaPath(key string) string { return filepath.Join(c.Dir, key+metaSuffix) }
func (c *PageCache) bodyPath(key string) string { return filepath.Join(c.Dir, key+bodySuffix) }

const (
	metaSuffix = ".meta.json"
	bodySuffix = ".body"
)

// Meta returns the stored metadata for url or ErrMiss.
func (c *PageCache) Meta(_ context.Context, url string) (Entry, error) {
	var e Entry
	if err := c.ensureDir(); err != nil {
		return e, err
	}
	b, err := os.ReadFile(c.metaPath(Key(url)))
	if errors.Is(err, os.ErrNotExist) {
		return e, ErrMiss
	}
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return e, fmt.Errorf("decode meta: %w", err)
	}
	return e, nil
}

// Body returns the stored page body for url or ErrMiss.
func (c *PageCache) Body(_ context.Context, url string) ([]byte, error) {
	if err := c.ensureDir(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(c.bodyPath(Key(url)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMiss
	}
	return b, err
}

// Save writes body first and then the metadata, each through a temp file and
// rename, so a present meta file always has a complete body next to it.
func (c *PageCache) Save(_ context.Context, e Entry, body []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	key := Key(e.URL)
	if err := c.writeAtomic(c.bodyPath(key), body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	meta, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := c.writeAtomic(c.metaPath(key), meta); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

func (c *PageCache) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, c.fileMode()); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
