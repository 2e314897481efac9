package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPageCache_SaveAndLoad(t *testing.T) {
	c := &PageCache{Dir: filepath.Join(t.TempDir(), "pages")}
	ctx := context.Background()
	e := Entry{URL: "https://example.com/a", ContentType: "text/html", ETag: `"v1"`}
	if err := c.Save(ctx, e, []byte("<p>hello</p>")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := c.Meta(ctx, e.URL)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if got.ETag != `"v1"` || got.ContentType != "text/html" || got.SavedAt.IsZero() {
		t.Fatalf("unexpected meta: %+v", got)
	}
	body, err := c.Body(ctx, e.URL)
	if err != nil || string(body) != "<p>hello</p>" {
		t.Fatalf("body=%q err=%v", body, err)
	}
}

func TestPageCache_Miss(t *testing.T) {
	c := &PageCache{Dir: t.TempDir()}
	if _, err := c.Meta(context.Background(), "https://nothing.example"); !errors.Is(err, ErrMiss) {
		t.Fatalf("want ErrMiss, got %v", err)
	}
	if _, err := c.Body(context.Background(), "https://nothing.example"); !errors.Is(err, ErrMiss) {
		t.Fatalf("want ErrMiss, got %v", err)
	}
}

func TestPageCache_UnconfiguredDir(t *testing.T) {
	var c PageCache
	if err := c.Save(context.Background(), Entry{URL: "x"}, nil); err == nil {
		t.Fatalf("expected error without dir")
	}
}

func TestPageCache_StrictPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "strict")
	c := &PageCache{Dir: dir, StrictPerms: true}
	url := "https://example.com/x"
	if err := c.Save(context.Background(), Entry{URL: url}, []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if got := info.Mode() & 0o777; got != 0o700 {
		t.Fatalf("dir mode = %o, want 0700", got)
	}
	for _, f := range []string{Key(url) + bodySuffix, Key(url) + metaSuffix} {
		fi, err := os.Stat(filepath.Join(dir, f))
		if err != nil {
			t.Fatalf("stat %s: %v", f, err)
		}
		if got := fi.Mode() & 0o777; got != 0o600 {
			t.Fatalf("%s mode = %o, want 0600", f, got)
		}
	}
}

func TestPageCache_PurgeOlderThan(t *testing.T) {
	c := &PageCache{Dir: t.TempDir()}
	ctx := context.Background()
	old := Entry{URL: "https://old.example", SavedAt: time.Now().UTC().Add(-48 * time.Hour)}
	fresh := Entry{URL: "https://fresh.example"}
	if err := c.Save(ctx, old, []byte("old")); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := c.Save(ctx, fresh, []byte("fresh")); err != nil {
		t.Fatalf("save fresh: %v", err)
	}
	n, err := c.PurgeOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("removed %d, want 1", n)
	}
	if _, err := c.Body(ctx, old.URL); !errors.Is(err, ErrMiss) {
		t.Fatalf("old body should be gone, got %v", err)
	}
	if _, err := c.Body(ctx, fresh.URL); err != nil {
		t.Fatalf("fresh body should remain: %v", err)
	}
}

func TestPageCache_Clear(t *testing.T) {
	c := &PageCache{Dir: t.TempDir()}
	if err := c.Save(context.Background(), Entry{URL: "https://a.example"}, []byte("a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
}
