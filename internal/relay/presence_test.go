package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceJoinAndLookup(t *testing.T) {
	p := NewPresence()
	p.Join("u1", "Alice", "conn-1")
	p.Join("u2", "Bob", "conn-2")

	entry, ok := p.Lookup("u1")
	assert.True(t, ok)
	assert.Equal(t, "conn-1", entry.ConnID)
	assert.Equal(t, "Alice", entry.Name)

	_, ok = p.Lookup("nobody")
	assert.False(t, ok)
}

func TestPresenceReconnectReplacesHandle(t *testing.T) {
	p := NewPresence()
	p.Join("u1", "Alice", "conn-1")
	p.Join("u1", "Alice", "conn-9")

	entry, ok := p.Lookup("u1")
	assert.True(t, ok)
	assert.Equal(t, "conn-9", entry.ConnID)

	// Exactly one entry per identity
	assert.Len(t, p.Snapshot(), 1)

	// The stale handle no longer resolves
	_, removed := p.RemoveByConn("conn-1")
	assert.False(t, removed)
}

func TestPresenceRemoveByConn(t *testing.T) {
	p := NewPresence()
	p.Join("u1", "Alice", "conn-1")
	p.Join("u2", "Bob", "conn-2")

	entry, ok := p.RemoveByConn("conn-1")
	assert.True(t, ok)
	assert.Equal(t, "u1", entry.UserID)

	_, ok = p.Lookup("u1")
	assert.False(t, ok)
	assert.Len(t, p.Snapshot(), 1)

	// Removing a connection that never joined is a no-op
	_, ok = p.RemoveByConn("conn-1")
	assert.False(t, ok)
}

func TestPresenceSnapshotOrder(t *testing.T) {
	p := NewPresence()
	p.Join("u1", "Alice", "conn-1")
	p.Join("u2", "Bob", "conn-2")
	p.Join("u3", "Carol", "conn-3")

	// Reconnect keeps join order
	p.Join("u1", "Alice", "conn-4")

	snapshot := p.Snapshot()
	assert.Equal(t, []string{"u1", "u2", "u3"}, []string{snapshot[0].UserID, snapshot[1].UserID, snapshot[2].UserID})
	assert.Equal(t, "conn-4", snapshot[0].SocketID)
}
