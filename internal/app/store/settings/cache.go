// internal/app/store/settings/cache.go
package settingsstore

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
)

// DefaultTTL bounds how stale a cached settings read can be across
// processes. In-process writes invalidate immediately, so the window
// only applies to writes made by another process.
const DefaultTTL = 30 * time.Second

// Getter is the read interface Cached wraps.
type Getter interface {
	Get(ctx context.Context) (models.Settings, error)
}

// Cached is a read-through cache over the settings singleton. Settings
// are read on nearly every operation but change rarely; the TTL keeps
// the staleness window bounded instead of caching forever.
type Cached struct {
	inner Getter
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	value     models.Settings
	fetchedAt time.Time
}

// NewCached wraps inner with a TTL cache. A non-positive ttl uses
// DefaultTTL.
func NewCached(inner Getter, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{inner: inner, ttl: ttl, now: time.Now}
}

// Get returns the cached settings, refreshing from storage when the TTL
// has lapsed. A refresh failure with a warm cache returns the stale
// value rather than failing the caller's operation.
func (c *Cached) Get(ctx context.Context) (models.Settings, error) {
	c.mu.RLock()
	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	fresh, err := c.inner.Get(ctx)
	if err != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if !c.fetchedAt.IsZero() {
			return c.value, nil
		}
		return models.Settings{}, err
	}

	c.mu.Lock()
	c.value = fresh
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return fresh, nil
}

// Invalidate drops the cached value. Called after every in-process
// settings write.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}
