package hub

import (
	"testing"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/config"
)

func newTestClient(id string) *Client {
	return NewClient(id, nil, config.WebSocketConfig{SendQueueSize: 8})
}

func TestPresenceSetAndGet(t *testing.T) {
	p := NewPresence()

	c1 := newTestClient("c1")
	if prev := p.Set("u1", c1); prev != nil {
		t.Fatalf("Set on empty table returned displaced client %s", prev.ID)
	}

	got, ok := p.Get("u1")
	if !ok || got != c1 {
		t.Fatal("Get did not return the registered client")
	}
	if !p.IsPresent("u1") {
		t.Fatal("IsPresent = false for registered user")
	}
	if p.IsPresent("u2") {
		t.Fatal("IsPresent = true for unknown user")
	}
	if p.Len() != 1 {
		t.Fatalf("Len = %d, want 1", p.Len())
	}
}

func TestPresenceLastConnectWins(t *testing.T) {
	p := NewPresence()

	c1 := newTestClient("c1")
	c2 := newTestClient("c2")

	p.Set("u1", c1)
	prev := p.Set("u1", c2)
	if prev != c1 {
		t.Fatal("Set did not return the displaced client")
	}

	got, _ := p.Get("u1")
	if got != c2 {
		t.Fatal("newest connection does not own the presence entry")
	}
	if p.Len() != 1 {
		t.Fatalf("Len = %d after displacement, want 1", p.Len())
	}
}

func TestPresenceClearIf(t *testing.T) {
	p := NewPresence()

	c1 := newTestClient("c1")
	c2 := newTestClient("c2")

	p.Set("u1", c1)
	p.Set("u1", c2)

	// The displaced connection's teardown must not evict its
	// replacement.
	if p.ClearIf("u1", c1) {
		t.Fatal("ClearIf removed an entry owned by another client")
	}
	if !p.IsPresent("u1") {
		t.Fatal("replacement entry was evicted")
	}

	if !p.ClearIf("u1", c2) {
		t.Fatal("ClearIf refused to remove the owning client")
	}
	if p.IsPresent("u1") {
		t.Fatal("entry still present after ClearIf")
	}
}

func TestPresenceClear(t *testing.T) {
	p := NewPresence()
	p.Set("u1", newTestClient("c1"))
	p.Clear("u1")
	if p.IsPresent("u1") {
		t.Fatal("entry still present after Clear")
	}
	// clearing a missing entry is a no-op
	p.Clear("u2")
}
