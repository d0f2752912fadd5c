// ABOUTME: In-memory TTL cache of the role_definitions override map.
// ABOUTME: Invalidated on writes through this process; TTL bounds staleness across instances.
package access

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/rbac"
	"github.com/tufailahmed1608-png/nexusaios-sub001/internal/store"
)

// OverrideCache caches the dynamic permission overrides so that every
// navigation's burst of feature checks does not hit the database each time.
type OverrideCache struct {
	store *store.Store
	ttl   time.Duration

	mu        sync.RWMutex
	overrides rbac.Overrides
	loadedAt  time.Time
}

// NewOverrideCache returns a cache that reloads from s at most every ttl.
func NewOverrideCache(s *store.Store, ttl time.Duration) *OverrideCache {
	return &OverrideCache{store: s, ttl: ttl}
}

// Overrides returns the current override map. On a load failure it degrades
// to an empty map — every role falls back to the static baseline — and logs
// the error; feature gating must never hard-fail the application. The failure
// is not cached: the next call retries.
func (c *OverrideCache) Overrides(ctx context.Context) rbac.Overrides {
	c.mu.RLock()
	if c.overrides != nil && time.Since(c.loadedAt) < c.ttl {
		o := c.overrides
		c.mu.RUnlock()
		return o
	}
	c.mu.RUnlock()

	loaded, err := c.store.LoadOverrides(ctx)
	if err != nil {
		slog.WarnContext(ctx, "override load failed, falling back to baseline", "error", err)
		return rbac.Overrides{}
	}

	c.mu.Lock()
	c.overrides = loaded
	c.loadedAt = time.Now()
	c.mu.Unlock()
	return loaded
}

// Invalidate drops the cached map. Call after any write to role_definitions.
func (c *OverrideCache) Invalidate() {
	c.mu.Lock()
	c.overrides = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}
