package location

import (
	"context"
	"sync"
	"time"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// maxCachedFixes bounds the number of clients remembered at once.
const maxCachedFixes = 4096

type cachedFix struct {
	coords  models.Coordinates
	fixedAt time.Time
}

// CachingLocator reuses the last successful fix of each client while it is younger
// than Options.MaximumAge. Clients are told apart by ClientIP.
type CachingLocator struct {
	next Locator
	now  func() time.Time

	mu    sync.Mutex
	fixes map[string]cachedFix
}

// NewCachingLocator wraps next with a per-client fix cache.
func NewCachingLocator(next Locator) *CachingLocator {
	return &CachingLocator{next: next, now: time.Now, fixes: map[string]cachedFix{}}
}

// Locate returns the cached fix when allowed, otherwise asks the wrapped locator.
// Failures are never cached.
func (c *CachingLocator) Locate(ctx context.Context, opts Options) (*models.Coordinates, error) {
	client := ClientIP(ctx)

	c.mu.Lock()
	fix, ok := c.fixes[client]
	if ok && opts.MaximumAge > 0 && c.now().Sub(fix.fixedAt) <= opts.MaximumAge {
		c.mu.Unlock()
		return &fix.coords, nil
	}
	c.mu.Unlock()

	coords, err := c.next.Locate(ctx, opts)
	if err != nil {
		return nil, err
	}
	if coords == nil {
		return nil, ErrUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.fixes) >= maxCachedFixes {
		c.evict(opts.MaximumAge)
	}
	c.fixes[client] = cachedFix{coords: *coords, fixedAt: c.now()}

	return coords, nil
}

// evict drops fixes older than maxAge, or every fix when none has expired.
// Callers must hold c.mu.
func (c *CachingLocator) evict(maxAge time.Duration) {
	now := c.now()
	for client, fix := range c.fixes {
		if now.Sub(fix.fixedAt) > maxAge {
			delete(c.fixes, client)
		}
	}
	if len(c.fixes) >= maxCachedFixes {
		clear(c.fixes)
	}
}
