package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallsBeginAndBusy(t *testing.T) {
	c := NewCalls()
	assert.False(t, c.Busy("alice"))

	c.Begin("alice", "conn-a", "bob", "conn-b")
	assert.True(t, c.Busy("alice"))
	assert.True(t, c.Busy("bob"))
	assert.False(t, c.Busy("carol"))
}

func TestCallsEndRemovesBothLegs(t *testing.T) {
	c := NewCalls()
	c.Begin("alice", "conn-a", "bob", "conn-b")

	peer, ok := c.End("alice")
	assert.True(t, ok)
	assert.Equal(t, "bob", peer)
	assert.False(t, c.Busy("alice"))
	assert.False(t, c.Busy("bob"))

	// A second end is a no-op, not an error
	_, ok = c.End("alice")
	assert.False(t, ok)
	_, ok = c.End("bob")
	assert.False(t, ok)
}

func TestCallsEndByConn(t *testing.T) {
	c := NewCalls()
	c.Begin("alice", "conn-a", "bob", "conn-b")
	c.Begin("carol", "conn-c", "dave", "conn-d")

	userID, peerID, peerConn, ok := c.EndByConn("conn-a")
	assert.True(t, ok)
	assert.Equal(t, "alice", userID)
	assert.Equal(t, "bob", peerID)
	assert.Equal(t, "conn-b", peerConn)

	assert.False(t, c.Busy("alice"))
	assert.False(t, c.Busy("bob"))

	// The unrelated call is untouched
	assert.True(t, c.Busy("carol"))
	assert.True(t, c.Busy("dave"))

	_, _, _, ok = c.EndByConn("conn-a")
	assert.False(t, ok)
}
