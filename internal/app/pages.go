package app

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// pageMemo remembers extracted page text per URL for the length of a run,
// so rows sharing a link fetch it once. Concurrent lookups of one URL share
// a single load. Failed loads are not remembered.
type pageMemo struct {
	cache *lru.Cache[string, string]
	group singleflight.Group
}

// newPageMemo returns nil for size <= 0, which disables memoization.
func newPageMemo(size int) (*pageMemo, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &pageMemo{cache: c}, nil
}

func (m *pageMemo) get(ctx context.Context, url string, load func(context.Context) (string, error)) (string, error) {
	if m == nil {
		return load(ctx)
	}
	if text, ok := m.cache.Get(url); ok {
		return text, nil
	}
	v, err, _ := m.group.Do(url, func() (any, error) {
		text, err := load(ctx)
		if err != nil {
			return "", err
		}
		m.cache.Add(url, text)
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
