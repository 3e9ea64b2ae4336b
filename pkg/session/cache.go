package session

import (
	"context"
	"sync"
	"time"

	"github.com/racelytics/f1-analysis-service-go/log"
)

type loaderFunc[V any] func(key string) (*V, error)

type item[V any] struct {
	data    *V
	expires time.Time
}

// loaderCache memoizes loaded values for a fixed expiry. Misses and
// expired entries go through the loader; load errors are not cached.
type loaderCache[V any] struct {
	mu    sync.Mutex
	items map[string]item[V]
	ttl   time.Duration
	load  loaderFunc[V]
	l     *log.Logger
}

func newLoaderCache[V any](
	ttl time.Duration, load loaderFunc[V], l *log.Logger,
) *loaderCache[V] {
	return &loaderCache[V]{
		items: make(map[string]item[V]),
		ttl:   ttl,
		load:  load,
		l:     l,
	}
}

func (c *loaderCache[V]) Get(_ context.Context, key string) (*V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.items[key]; ok && time.Now().Before(it.expires) {
		return it.data, nil
	}
	c.l.Debug("cache miss", log.String("key", key))
	v, err := c.load(key)
	if err != nil {
		return nil, err
	}
	c.items[key] = item[V]{data: v, expires: time.Now().Add(c.ttl)}
	return v, nil
}

func (c *loaderCache[V]) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
