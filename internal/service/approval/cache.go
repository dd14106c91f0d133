package approval

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"
)

type cacheKey struct {
	requestID string
	version   int64
}

// ResolutionCache memoizes resolutions by (request ID, approvals version).
// A new decision bumps the version, so a stale entry is never served; it is
// only dropped later by Prune.
type ResolutionCache struct {
	mu       sync.RWMutex
	entries  map[cacheKey]approval.Resolution
	latest   map[string]int64
	maxItems int
}

// NewResolutionCache creates a cache holding at most maxItems entries.
// maxItems <= 0 disables the bound.
func NewResolutionCache(maxItems int) *ResolutionCache {
	return &ResolutionCache{
		entries:  make(map[cacheKey]approval.Resolution),
		latest:   make(map[string]int64),
		maxItems: maxItems,
	}
}

func (c *ResolutionCache) Get(requestID string, version int64) (approval.Resolution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[cacheKey{requestID: requestID, version: version}]
	if !ok {
		return approval.Resolution{}, false
	}
	return res.Clone(), true
}

func (c *ResolutionCache) Put(requestID string, version int64, res approval.Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{requestID: requestID, version: version}
	if _, exists := c.entries[key]; !exists && c.maxItems > 0 && len(c.entries) >= c.maxItems {
		c.pruneLocked()
		if len(c.entries) >= c.maxItems {
			// Still full after dropping superseded versions: start over.
			c.entries = make(map[cacheKey]approval.Resolution)
		}
	}

	c.entries[key] = res.Clone()
	if version > c.latest[requestID] {
		c.latest[requestID] = version
	}
}

// Len returns the number of cached resolutions.
func (c *ResolutionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune drops entries superseded by a newer version of the same request and
// returns how many were removed.
func (c *ResolutionCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pruneLocked()
}

func (c *ResolutionCache) pruneLocked() int {
	removed := 0
	live := make(map[string]struct{}, len(c.latest))
	for key := range c.entries {
		if key.version < c.latest[key.requestID] {
			delete(c.entries, key)
			removed++
			continue
		}
		live[key.requestID] = struct{}{}
	}
	for id := range c.latest {
		if _, ok := live[id]; !ok {
			delete(c.latest, id)
		}
	}
	return removed
}

// PruneJob adapts Prune to the cron job signature.
func (c *ResolutionCache) PruneJob(ctx context.Context) error {
	removed := c.Prune()
	slog.Debug("Resolution cache pruned", "removed", removed, "remaining", c.Len())
	return nil
}

// CachedResolver resolves through a ResolutionCache. Requests without an ID
// are resolved directly.
type CachedResolver struct {
	cache *ResolutionCache
}

func NewCachedResolver(cache *ResolutionCache) *CachedResolver {
	return &CachedResolver{cache: cache}
}

// Remember stores a resolution computed elsewhere, for a version that is
// known to be persisted.
func (r *CachedResolver) Remember(req *approval.LeaveRequest, res approval.Resolution) {
	if req == nil || req.ID == "" || r.cache == nil {
		return
	}
	r.cache.Put(req.ID, req.ApprovalsVersion, res)
}

func (r *CachedResolver) Resolve(req *approval.LeaveRequest) (approval.Resolution, error) {
	if req == nil {
		return approval.Resolution{}, approval.ErrNilRequest
	}
	if req.ID == "" || r.cache == nil {
		return Resolve(req)
	}
	if res, ok := r.cache.Get(req.ID, req.ApprovalsVersion); ok {
		return res, nil
	}
	res, err := Resolve(req)
	if err != nil {
		return approval.Resolution{}, err
	}
	r.cache.Put(req.ID, req.ApprovalsVersion, res)
	return res, nil
}
