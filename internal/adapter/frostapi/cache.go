package frostapi

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
	"github.com/couchcryptid/frost-depth-toolkit/internal/observability"
)

// municipalityKey normalises a municipality name for matching: surrounding
// and repeated spaces are dropped and letters are case folded, so
// "ØYGARDEN", "Øygarden" and " øygarden " name the same place.
func municipalityKey(name string) string {
	// A Caser keeps state between calls; one per call keeps this goroutine safe.
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// CachedSourceFinder remembers the station resolved for each municipality.
// Failed lookups are not remembered, so a station that appears later is found.
type CachedSourceFinder struct {
	inner   domain.SourceFinder
	cache   *sourceCache
	metrics *observability.Metrics
}

// NewCachedSourceFinder wraps inner with a cache of up to maxEntries
// municipalities.
func NewCachedSourceFinder(inner domain.SourceFinder, maxEntries int, metrics *observability.Metrics) *CachedSourceFinder {
	return &CachedSourceFinder{
		inner:   inner,
		cache:   newSourceCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSourceFinder) FindSource(ctx context.Context, municipality string) (domain.Source, error) {
	key := municipalityKey(municipality)
	if src, ok := c.cache.lookup(key); ok {
		c.metrics.SourceCache.WithLabelValues("hit").Inc()
		return src, nil
	}
	c.metrics.SourceCache.WithLabelValues("miss").Inc()

	src, err := c.inner.FindSource(ctx, municipality)
	if err != nil {
		return src, err
	}
	c.cache.store(key, src)
	return src, nil
}

// sourceCache holds resolved stations by municipality key, dropping the
// least recently used municipality once full.
type sourceCache struct {
	mu     sync.Mutex
	limit  int
	recent *list.List // of *resolved, most recently used first
	byKey  map[string]*list.Element
}

type resolved struct {
	key    string
	source domain.Source
}

func newSourceCache(limit int) *sourceCache {
	return &sourceCache{
		limit:  max(limit, 1),
		recent: list.New(),
		byKey:  make(map[string]*list.Element),
	}
}

func (c *sourceCache) lookup(key string) (domain.Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	if !ok {
		return domain.Source{}, false
	}
	c.recent.MoveToFront(el)
	return el.Value.(*resolved).source, true
}

func (c *sourceCache) store(key string, src domain.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byKey[key]; ok {
		el.Value.(*resolved).source = src
		c.recent.MoveToFront(el)
		return
	}
	c.byKey[key] = c.recent.PushFront(&resolved{key: key, source: src})

	for c.recent.Len() > c.limit {
		oldest := c.recent.Back()
		c.recent.Remove(oldest)
		delete(c.byKey, oldest.Value.(*resolved).key)
	}
}

func (c *sourceCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recent.Len()
}
