package schema

import (
	"context"
	"sync"

	"github.com/directus-community/directus-node/pkg/types"
)

// RelationCache memoizes per-collection relation lookups keyed by server URL
// and collection name. Entries live for the life of the cache; schema
// relations change rarely relative to a workflow execution, so no TTL or
// invalidation is kept. A redundant duplicate fetch under concurrent misses
// is benign since the fetched slice is deterministic.
type RelationCache struct {
	mu      sync.RWMutex
	entries map[string][]types.Relation
}

// NewRelationCache creates an empty cache.
func NewRelationCache() *RelationCache {
	return &RelationCache{entries: make(map[string][]types.Relation)}
}

// RelationsFor returns the relations touching collection on the instance at
// serverURL. On a miss it calls fetchAll once, filters client-side, and
// stores the filtered slice. A fetch failure caches an empty list so a
// transient error degrades to "no relationships known" instead of
// retry-storming the server.
func (c *RelationCache) RelationsFor(
	ctx context.Context,
	serverURL, collection string,
	fetchAll func(context.Context) ([]types.Relation, error),
) []types.Relation {
	key := serverURL + ":" + collection

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	all, err := fetchAll(ctx)
	if err != nil {
		all = nil
	}

	filtered := make([]types.Relation, 0)
	for _, r := range all {
		if r.ManyCollection == collection || r.OneCollection == collection {
			filtered = append(filtered, r)
		}
	}

	c.mu.Lock()
	c.entries[key] = filtered
	c.mu.Unlock()
	return filtered
}

// Len reports the number of cached collections. Used by tests.
func (c *RelationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
