package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache is a size-bounded cache whose entries expire ttl after their
// last write. Reads through GetOrCreate refresh the expiry.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	onEvict func(key string, data T)
	now     func() time.Time
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// NewLRUCache creates a new LRU cache with TTL. A maxSize below 1 is
// treated as 1.
func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// OnEvict registers a callback run, outside the lock, for every entry that
// leaves the cache through expiry, capacity or Delete.
func (c *LRUCache[T]) OnEvict(fn func(key string, data T)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get retrieves a value from the cache
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	var zero T
	elem, exists := c.items[key]
	if !exists {
		c.mu.Unlock()
		return zero, false
	}
	item := elem.Value.(*cacheItem[T])
	if c.now().After(item.expiresAt) {
		evicted := c.removeElement(elem)
		c.mu.Unlock()
		c.notify(evicted)
		return zero, false
	}
	c.lru.MoveToFront(elem)
	c.mu.Unlock()
	return item.data, true
}

// GetOrCreate returns the live entry for key, refreshing its expiry, or
// stores and returns create(). created reports which happened.
func (c *LRUCache[T]) GetOrCreate(key string, create func() T) (data T, created bool) {
	c.mu.Lock()
	var evicted []*cacheItem[T]
	now := c.now()
	if elem, ok := c.items[key]; ok {
		item := elem.Value.(*cacheItem[T])
		if !now.After(item.expiresAt) {
			item.expiresAt = now.Add(c.ttl)
			c.lru.MoveToFront(elem)
			c.mu.Unlock()
			return item.data, false
		}
		evicted = append(evicted, c.removeElement(elem))
	}
	data = create()
	evicted = append(evicted, c.insert(key, data, now)...)
	c.mu.Unlock()
	c.notify(evicted...)
	return data, true
}

// Set stores a value in the cache
func (c *LRUCache[T]) Set(key string, data T) {
	c.mu.Lock()
	now := c.now()
	if elem, exists := c.items[key]; exists {
		elem.Value = &cacheItem[T]{key: key, data: data, expiresAt: now.Add(c.ttl)}
		c.lru.MoveToFront(elem)
		c.mu.Unlock()
		return
	}
	evicted := c.insert(key, data, now)
	c.mu.Unlock()
	c.notify(evicted...)
}

func (c *LRUCache[T]) insert(key string, data T, now time.Time) []*cacheItem[T] {
	elem := c.lru.PushFront(&cacheItem[T]{key: key, data: data, expiresAt: now.Add(c.ttl)})
	c.items[key] = elem

	var evicted []*cacheItem[T]
	for c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		evicted = append(evicted, c.removeElement(oldest))
	}
	return evicted
}

// Delete removes a key from the cache
func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	elem, exists := c.items[key]
	if !exists {
		c.mu.Unlock()
		return
	}
	evicted := c.removeElement(elem)
	c.mu.Unlock()
	c.notify(evicted)
}

func (c *LRUCache[T]) removeElement(elem *list.Element) *cacheItem[T] {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
	return item
}

func (c *LRUCache[T]) notify(items ...*cacheItem[T]) {
	c.mu.Lock()
	fn := c.onEvict
	c.mu.Unlock()
	if fn == nil {
		return
	}
	for _, it := range items {
		fn(it.key, it.data)
	}
}

// CleanExpired removes all expired entries and returns count of removed items
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	now := c.now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*cacheItem[T]).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	evicted := make([]*cacheItem[T], 0, len(toRemove))
	for _, elem := range toRemove {
		evicted = append(evicted, c.removeElement(elem))
	}
	c.mu.Unlock()
	c.notify(evicted...)
	return len(evicted)
}

// Range calls fn for every live entry, most recently used first. fn must
// not call back into the cache.
func (c *LRUCache[T]) Range(fn func(key string, data T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		item := elem.Value.(*cacheItem[T])
		if !now.After(item.expiresAt) {
			fn(item.key, item.data)
		}
	}
}

// Size returns the current number of items in the cache
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
