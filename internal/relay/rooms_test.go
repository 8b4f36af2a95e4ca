package relay

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callify/signaling/config"
)

func testLimits() config.RelayLimits {
	return config.RelayLimits{
		MaxParticipantsPerRoom: 3,
		MaxRooms:               2,
		MaxMessageLength:       10,
		MaxMessagesPerRoom:     5,
	}
}

func TestRoomsStartSetsHost(t *testing.T) {
	rs := NewRooms(testLimits())

	room, err := rs.Start("r1", "host", "Host", "conn-h")
	require.NoError(t, err)

	participants := room.Participants()
	require.Len(t, participants, 1)
	assert.True(t, participants[0].IsHost)
	assert.Equal(t, "host", participants[0].UserID)
}

func TestRoomsStartIdempotent(t *testing.T) {
	rs := NewRooms(testLimits())

	rs.Start("r1", "host", "Host", "conn-h")
	room, err := rs.Start("r1", "host", "Host", "conn-h2")
	require.NoError(t, err)

	participants := room.Participants()
	require.Len(t, participants, 1)
	assert.True(t, participants[0].IsHost)
	assert.Equal(t, "conn-h2", participants[0].SocketID)
}

func TestRoomsJoinAndRejoinKeepsHostFlag(t *testing.T) {
	rs := NewRooms(testLimits())
	rs.Start("r1", "host", "Host", "conn-h")

	room, err := rs.Join("r1", "u1", "Alice", "conn-1")
	require.NoError(t, err)
	require.Len(t, room.Participants(), 2)

	// Host rejoining through the join path keeps the flag and position
	room, err = rs.Join("r1", "host", "Host", "conn-h2")
	require.NoError(t, err)

	participants := room.Participants()
	require.Len(t, participants, 2)
	assert.Equal(t, "host", participants[0].UserID)
	assert.True(t, participants[0].IsHost)
	assert.Equal(t, "conn-h2", participants[0].SocketID)
	assert.False(t, participants[1].IsHost)
}

func TestRoomsJoinFullRoom(t *testing.T) {
	rs := NewRooms(testLimits())
	for i := 0; i < 3; i++ {
		_, err := rs.Join("r1", fmt.Sprintf("u%d", i), "User", fmt.Sprintf("conn-%d", i))
		require.NoError(t, err)
	}

	_, err := rs.Join("r1", "u9", "Late", "conn-9")
	assert.Equal(t, ErrRoomFull, err)

	// Failed join mutates nothing
	room, _ := rs.Get("r1")
	assert.Len(t, room.Participants(), 3)
}

func TestRoomsServerFull(t *testing.T) {
	rs := NewRooms(testLimits())
	rs.Join("r1", "u1", "A", "conn-1")
	rs.Join("r2", "u2", "B", "conn-2")

	_, err := rs.Join("r3", "u3", "C", "conn-3")
	assert.Equal(t, ErrServerFull, err)
	_, err = rs.Start("r3", "u3", "C", "conn-3")
	assert.Equal(t, ErrServerFull, err)
	assert.Equal(t, 2, rs.Count())
}

func TestRoomsLeaveDeletesEmptyRoom(t *testing.T) {
	rs := NewRooms(testLimits())
	rs.Join("r1", "u1", "Alice", "conn-1")
	rs.Join("r1", "u2", "Bob", "conn-2")

	left, room, ok := rs.Leave("r1", "u1")
	assert.True(t, ok)
	assert.Equal(t, "Alice", left.UserName)
	require.NotNil(t, room)
	assert.Len(t, room.Participants(), 1)

	_, room, ok = rs.Leave("r1", "u2")
	assert.True(t, ok)
	assert.Nil(t, room)
	assert.Equal(t, 0, rs.Count())

	_, _, ok = rs.Leave("r1", "u2")
	assert.False(t, ok)
}

func TestRoomsRemoveConn(t *testing.T) {
	rs := NewRooms(testLimits())
	rs.Join("r1", "u1", "Alice", "conn-1")
	rs.Join("r1", "u2", "Bob", "conn-2")
	rs.Join("r2", "u1", "Alice", "conn-1")

	departures := rs.RemoveConn("conn-1")
	require.Len(t, departures, 2)

	for _, dep := range departures {
		assert.Equal(t, "u1", dep.Participant.UserID)
		switch dep.RoomID {
		case "r1":
			require.NotNil(t, dep.Room)
			assert.Len(t, dep.Room.Participants(), 1)
		case "r2":
			assert.Nil(t, dep.Room) // emptied and deleted
		default:
			t.Fatalf("unexpected room %s", dep.RoomID)
		}
	}
	assert.Equal(t, 1, rs.Count())

	assert.Empty(t, rs.RemoveConn("conn-1"))
}

func TestRoomsMessageHistoryEviction(t *testing.T) {
	rs := NewRooms(testLimits())
	rs.Join("r1", "u1", "Alice", "conn-1")

	for i := 0; i < 7; i++ {
		err := rs.AppendMessage("r1", StoredMessage{SenderID: "u1", Text: fmt.Sprintf("m%d", i)})
		require.NoError(t, err)
	}

	messages := rs.Messages("r1")
	require.Len(t, messages, 5)
	assert.Equal(t, "m2", messages[0].Text)
	assert.Equal(t, "m6", messages[4].Text)

	assert.Equal(t, ErrRoomNotFound, rs.AppendMessage("nope", StoredMessage{Text: "x"}))
}
