// Package cache holds the process-wide volatile lookups shared by all updates.
// Entries are never evicted; a restart empties them.
package cache

import "sync"

// Identities maps a chat to the backend user id resolved for it.
type Identities struct {
	mu    sync.RWMutex
	users map[int64]string
}

// NewIdentities returns an empty identity cache.
func NewIdentities() *Identities {
	return &Identities{users: make(map[int64]string)}
}

// Set records or overwrites the user id for a chat.
func (c *Identities) Set(chatID int64, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[chatID] = userID
}

// Get returns the user id for a chat, if resolved.
func (c *Identities) Get(chatID int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[chatID]
	return u, ok
}

// Len returns the number of resolved chats.
func (c *Identities) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}
