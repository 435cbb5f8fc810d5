// internal/cache/lru.go
//
// Tiny LRU cache with optional per-entry TTL, used to hold the country
// catalog fetched from the upstream REST API.  No external deps; good for
// a few thousand entries.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a non‑generic least‑recently‑used cache.
// Keys must be comparable; values can be any.  Safe for concurrent use.
type LRU struct {
	mu   sync.Mutex
	cap  int
	ll   *list.List
	dict map[any]*list.Element
}

type pair struct {
	key     any
	val     any
	expires time.Time // zero means never
}

// New returns an LRU with the given capacity.  Panics on cap < 1.
func New(capacity int) *LRU {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[any]*list.Element, capacity),
	}
}

// Get retrieves a value or nil and marks it MRU.  Expired entries are
// evicted on access and report a miss.
func (c *LRU) Get(key any) (val any, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, hit := c.dict[key]
	if !hit {
		return nil, false
	}
	p := ele.Value.(pair)
	if !p.expires.IsZero() && time.Now().After(p.expires) {
		c.ll.Remove(ele)
		delete(c.dict, key)
		return nil, false
	}
	c.ll.MoveToFront(ele)
	return p.val, true
}

// Add inserts or updates a value with no expiry.
func (c *LRU) Add(key, val any) { c.AddTTL(key, val, 0) }

// AddTTL inserts or updates a value that expires after ttl.  A ttl of
// zero or less means the entry never expires.
func (c *LRU) AddTTL(key, val any, ttl time.Duration) {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.dict[key]; hit {
		ele.Value = pair{key, val, expires}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(pair{key, val, expires})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(pair).key)
	}
}

// Len reports current size.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
