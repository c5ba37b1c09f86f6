package main

import (
	"sync"
	"time"
)

// sessionCache provides thread-safe caching of router session IDs with
// expiration, so consecutive relay requests reuse an authenticated session
// instead of running the login handshake every time. Keys are router base
// URLs. In-memory only; nothing survives a restart.
type sessionCache struct {
	mu      sync.RWMutex
	data    map[string]cachedSession
	timeout time.Duration
}

// cachedSession holds a SID and its creation time for expiration tracking
type cachedSession struct {
	sid       string
	timestamp time.Time
}

// get returns the cached SID for a router if present and still fresh
func (c *sessionCache) get(router string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached, exists := c.data[router]
	if !exists || time.Since(cached.timestamp) >= c.timeout {
		return "", false
	}
	return cached.sid, true
}

// set stores a SID with the current timestamp
func (c *sessionCache) set(router, sid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[router] = cachedSession{sid, time.Now()}
}

// clear drops the cached SID for a specific router
func (c *sessionCache) clear(router string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, router)
}

// clearAll drops every cached SID
func (c *sessionCache) clearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]cachedSession)
}
