package service

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// workspaceCache is a small in-memory LRU keyed by client id.
// Concurrency: methods are safe for concurrent use.
type workspaceCache struct {
	mu     sync.Mutex
	cap    int
	ll     *list.List               // front = most-recently used
	items  map[string]*list.Element // key -> element
	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
}

type cacheEntry struct {
	key   string
	value *Workspace
}

// DefaultWorkspaceCacheSize bounds the number of live workspaces kept in memory.
const DefaultWorkspaceCacheSize = 1024

func newWorkspaceCache(capacity int) *workspaceCache {
	if capacity <= 0 {
		capacity = DefaultWorkspaceCacheSize
	}
	return &workspaceCache{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[string]*list.Element, capacity),
	}
}

func (c *workspaceCache) Get(key string) (*Workspace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, found := c.items[key]; found {
		c.ll.MoveToFront(el)
		c.hits.Add(1)
		return el.Value.(*cacheEntry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Add inserts value unless key is already cached, and returns whichever is cached afterwards.
func (c *workspaceCache) Add(key string, value *Workspace) *Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, found := c.items[key]; found {
		c.ll.MoveToFront(el)
		return el.Value.(*cacheEntry).value
	}
	el := c.ll.PushFront(&cacheEntry{key: key, value: value})
	c.items[key] = el
	c.evictIfNeeded()
	return value
}

func (c *workspaceCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		return true
	}
	return false
}

func (c *workspaceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// CacheStats are simple counters for observability.
type CacheStats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
	Capacity  int    `json:"capacity"`
}

func (c *workspaceCache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
		Size:      c.Len(),
		Capacity:  c.cap,
	}
}

// Helpers (caller must hold c.mu).
func (c *workspaceCache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*cacheEntry).key)
}

func (c *workspaceCache) evictIfNeeded() {
	for c.ll.Len() > c.cap {
		el := c.ll.Back()
		if el == nil {
			return
		}
		c.removeElement(el)
		c.evicts.Add(1)
	}
}
