package cache

import (
	"sync"

	"github.com/m3rciful/moviebot/app/movie"
)

type itemKey struct {
	userID string
	itemID int64
}

// Items remembers the last item payload shown to a user, keyed by (user, item).
type Items struct {
	mu    sync.RWMutex
	items map[itemKey]movie.Item
}

// NewItems returns an empty item cache.
func NewItems() *Items {
	return &Items{items: make(map[itemKey]movie.Item)}
}

// Set records or overwrites the payload for (userID, itemID).
func (c *Items) Set(userID string, itemID int64, item movie.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[itemKey{userID: userID, itemID: itemID}] = item
}

// Get returns the most recent payload stored for (userID, itemID).
func (c *Items) Get(userID string, itemID int64) (movie.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[itemKey{userID: userID, itemID: itemID}]
	return it, ok
}

// Len returns the number of cached items.
func (c *Items) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
