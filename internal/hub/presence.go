package hub

import "sync"

// Presence is the authoritative, process-local mapping from user ID to
// that user's live connection. It holds at most one connection per user;
// a newer connection for the same user displaces the older one
// (last-connect-wins). The table is rebuilt empty on restart: presence
// is a property of the live process, not of durable state.
type Presence struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewPresence() *Presence {
	return &Presence{
		clients: make(map[string]*Client),
	}
}

// Set registers the client as the user's live connection and returns
// the connection it displaced, if any. The caller is responsible for
// closing the displaced connection.
func (p *Presence) Set(userID string, c *Client) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.clients[userID]
	p.clients[userID] = c
	if prev == c {
		return nil
	}
	return prev
}

// Clear removes the user's presence entry. No-op if absent.
func (p *Presence) Clear(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.clients, userID)
}

// ClearIf removes the entry only if c is still the registered
// connection, so a stale socket's teardown cannot evict the connection
// that replaced it. Reports whether the entry was removed.
func (p *Presence) ClearIf(userID string, c *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.clients[userID] != c {
		return false
	}
	delete(p.clients, userID)
	return true
}

// Get returns the user's live connection, if present.
func (p *Presence) Get(userID string) (*Client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.clients[userID]
	return c, ok
}

// IsPresent reports whether the user has a live connection.
func (p *Presence) IsPresent(userID string) bool {
	_, ok := p.Get(userID)
	return ok
}

// Len returns the number of connected users.
func (p *Presence) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}
