package alert

import "sync"

// Cache is the delivered-alert marker set behind the polling endpoint. Each
// (train, coach, event) key passes through Filter at most once per process
// lifetime, until Reset clears the set. State is deliberately in-process
// only: a restart re-delivers whatever is still the latest pulled state.
type Cache struct {
	mu        sync.Mutex
	delivered map[string]struct{}
}

func NewCache() *Cache {
	return &Cache{delivered: make(map[string]struct{})}
}

// Filter returns the alerts not yet handed to any poller and marks them
// delivered. Check and insert happen under one lock so concurrent pollers
// cannot both claim the same alert.
func (c *Cache) Filter(alerts []Alert) []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		key := a.Key()
		if _, seen := c.delivered[key]; seen {
			continue
		}
		c.delivered[key] = struct{}{}
		fresh = append(fresh, a)
	}
	return fresh
}

// Seen reports whether the key has already been delivered.
func (c *Cache) Seen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.delivered[key]
	return ok
}

// Size returns the number of delivered markers.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.delivered)
}

// Reset clears the marker set unconditionally (operator escape hatch).
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivered = make(map[string]struct{})
}
