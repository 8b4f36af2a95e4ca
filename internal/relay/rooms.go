package relay

import (
	"errors"

	"github.com/callify/signaling/config"
)

var (
	ErrServerFull   = errors.New("server room capacity reached")
	ErrRoomFull     = errors.New("room participant capacity reached")
	ErrRoomNotFound = errors.New("room not found")
)

// Participant is one member of a meeting room.
type Participant struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	SocketID string `json:"socketId"`
	IsHost   bool   `json:"isHost"`
}

// StoredMessage is one retained chat entry. History is bounded per
// room and exists only for the room's lifetime.
type StoredMessage struct {
	SenderID   string
	SenderName string
	Text       string
	Timestamp  string
}

// Room holds an ordered participant list plus its chat history.
type Room struct {
	ID           string
	participants []Participant
	messages     []StoredMessage
}

// Participants returns a snapshot of the member list in join order.
func (r *Room) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// ConnIDs returns member connection handles, optionally excluding one.
func (r *Room) ConnIDs(exclude string) []string {
	ids := make([]string, 0, len(r.participants))
	for _, p := range r.participants {
		if p.SocketID != exclude {
			ids = append(ids, p.SocketID)
		}
	}
	return ids
}

// Rooms is the meeting-room registry. Rooms are created lazily on
// first join and destroyed when the last participant leaves. Capacity
// checks never mutate state.
//
// Owned by the Router, single-goroutine access, no locking.
type Rooms struct {
	rooms  map[string]*Room
	limits config.RelayLimits
}

func NewRooms(limits config.RelayLimits) *Rooms {
	return &Rooms{rooms: make(map[string]*Room), limits: limits}
}

// Count returns the number of live rooms.
func (rs *Rooms) Count() int {
	return len(rs.rooms)
}

// Get returns a room if it exists.
func (rs *Rooms) Get(roomID string) (*Room, bool) {
	room, ok := rs.rooms[roomID]
	return room, ok
}

// Start creates the room if absent and inserts the host participant
// with IsHost set. Re-entry by the same user is idempotent and does
// not clear an existing host flag.
func (rs *Rooms) Start(roomID, hostID, hostName, connID string) (*Room, error) {
	if len(rs.rooms) >= rs.limits.MaxRooms {
		return nil, ErrServerFull
	}

	room, ok := rs.rooms[roomID]
	if !ok {
		room = &Room{ID: roomID}
		rs.rooms[roomID] = room
	}

	for i := range room.participants {
		if room.participants[i].UserID == hostID {
			room.participants[i].SocketID = connID
			return room, nil
		}
	}
	room.participants = append(room.participants, Participant{
		UserID:   hostID,
		UserName: hostName,
		SocketID: connID,
		IsHost:   true,
	})
	return room, nil
}

// Join inserts the participant, or on rejoin updates the connection
// handle in place, keeping position and host flag.
func (rs *Rooms) Join(roomID, userID, userName, connID string) (*Room, error) {
	if len(rs.rooms) >= rs.limits.MaxRooms {
		return nil, ErrServerFull
	}

	room, ok := rs.rooms[roomID]
	if !ok {
		room = &Room{ID: roomID}
		rs.rooms[roomID] = room
	}

	for i := range room.participants {
		if room.participants[i].UserID == userID {
			room.participants[i].SocketID = connID
			return room, nil
		}
	}

	if len(room.participants) >= rs.limits.MaxParticipantsPerRoom {
		return nil, ErrRoomFull
	}

	room.participants = append(room.participants, Participant{
		UserID:   userID,
		UserName: userName,
		SocketID: connID,
	})
	return room, nil
}

// Leave removes the participant. If the room empties it is deleted and
// the returned room is nil.
func (rs *Rooms) Leave(roomID, userID string) (left Participant, room *Room, ok bool) {
	room, exists := rs.rooms[roomID]
	if !exists {
		return Participant{}, nil, false
	}

	for i, p := range room.participants {
		if p.UserID == userID {
			room.participants = append(room.participants[:i], room.participants[i+1:]...)
			if len(room.participants) == 0 {
				delete(rs.rooms, roomID)
				return p, nil, true
			}
			return p, room, true
		}
	}
	return Participant{}, nil, false
}

// Departure records one room a disconnecting connection was removed
// from. Room is nil when the room was deleted.
type Departure struct {
	RoomID      string
	Participant Participant
	Room        *Room
}

// RemoveConn drops the connection from every room it participates in,
// deleting rooms that empty out.
func (rs *Rooms) RemoveConn(connID string) []Departure {
	var departures []Departure
	for roomID, room := range rs.rooms {
		for i, p := range room.participants {
			if p.SocketID == connID {
				room.participants = append(room.participants[:i], room.participants[i+1:]...)
				if len(room.participants) == 0 {
					delete(rs.rooms, roomID)
					departures = append(departures, Departure{RoomID: roomID, Participant: p})
				} else {
					departures = append(departures, Departure{RoomID: roomID, Participant: p, Room: room})
				}
				break
			}
		}
	}
	return departures
}

// AppendMessage retains a chat message in the room's history, evicting
// the oldest entry once the per-room cap is reached.
func (rs *Rooms) AppendMessage(roomID string, msg StoredMessage) error {
	room, ok := rs.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	if len(room.messages) >= rs.limits.MaxMessagesPerRoom {
		room.messages = room.messages[1:]
	}
	room.messages = append(room.messages, msg)
	return nil
}

// Messages returns the retained chat history for a room.
func (rs *Rooms) Messages(roomID string) []StoredMessage {
	room, ok := rs.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]StoredMessage, len(room.messages))
	copy(out, room.messages)
	return out
}
