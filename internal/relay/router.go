package relay

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Emitter delivers outbound events to connections. The Hub implements
// it over per-client send buffers; tests substitute a recorder.
type Emitter interface {
	ToConn(connID, event string, data any)
	ToAll(event string, data any)
	ToAllExcept(connID, event string, data any)
}

// Router owns the three relay registries and applies one forwarding
// rule per event type: resolve targets, validate, reshape, emit.
// Handlers run to completion against the registries before the next
// event is dispatched; the Hub guarantees serial delivery, so the
// registries carry no locks.
type Router struct {
	presence *Presence
	calls    *Calls
	rooms    *Rooms
	emit     Emitter
	log      *logrus.Entry
}

func NewRouter(presence *Presence, calls *Calls, rooms *Rooms, emit Emitter) *Router {
	return &Router{
		presence: presence,
		calls:    calls,
		rooms:    rooms,
		emit:     emit,
		log:      logrus.WithField("component", "router"),
	}
}

// Presence exposes the presence registry for diagnostics and tests.
func (rt *Router) Presence() *Presence { return rt.presence }

// Calls exposes the call session tracker for diagnostics and tests.
func (rt *Router) Calls() *Calls { return rt.calls }

// Rooms exposes the meeting-room registry for diagnostics and tests.
func (rt *Router) Rooms() *Rooms { return rt.rooms }

// Dispatch routes one inbound event. Malformed payloads are logged and
// dropped; they never crash a handler or partially forward.
func (rt *Router) Dispatch(connID string, env Envelope) {
	switch env.Event {
	case EventJoin:
		rt.handleJoin(connID, env.Data)
	case EventCallToUser:
		rt.handleCallToUser(connID, env.Data)
	case EventAnsweredCall:
		rt.handleAnsweredCall(connID, env.Data)
	case EventRejectCall:
		rt.handleRejectCall(connID, env.Data)
	case EventCallEnded:
		rt.handleCallEnded(connID, env.Data)
	case EventStartMeeting:
		rt.handleStartMeeting(connID, env.Data)
	case EventJoinMeeting:
		rt.handleJoinMeeting(connID, env.Data)
	case EventLeaveMeeting:
		rt.handleLeaveMeeting(connID, env.Data)
	case EventSendMeetingChat:
		rt.handleMeetingChat(connID, env.Data)
	case EventScreenShareOn, EventScreenShareOff:
		rt.handleScreenShare(connID, env.Event, env.Data)
	case EventCreatePoll:
		rt.handleCreatePoll(connID, env.Data)
	case EventVotePoll:
		rt.handleVotePoll(connID, env.Data)
	case EventUpdateNotes:
		rt.handleUpdateNotes(connID, env.Data)
	case EventShareNotes:
		rt.handleShareNotes(connID, env.Data)
	case EventWhiteboardDraw:
		rt.handleWhiteboardDraw(connID, env.Data)
	case EventClearWhiteboard:
		rt.handleClearWhiteboard(connID, env.Data)
	case EventWebRTCOffer, EventWebRTCAnswer, EventICECandidate:
		rt.handleRTCSignal(connID, env.Event, env.Data)
	default:
		rt.log.WithFields(logrus.Fields{"event": env.Event, "conn": connID}).Warn("Unknown event type")
	}
}

// decode unmarshals a payload and reports a dropped frame on failure.
func (rt *Router) decode(connID, event string, data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		rt.log.WithFields(logrus.Fields{"event": event, "conn": connID}).Warnf("Invalid payload: %v", err)
		return false
	}
	return true
}

func (rt *Router) dropInvalid(connID, event, reason string) {
	rt.log.WithFields(logrus.Fields{"event": event, "conn": connID}).Warnf("Dropping event: %s", reason)
}

func (rt *Router) handleJoin(connID string, data json.RawMessage) {
	var p JoinPayload
	if !rt.decode(connID, EventJoin, data, &p) {
		return
	}
	if p.ID == "" {
		rt.dropInvalid(connID, EventJoin, "missing user id")
		return
	}

	rt.presence.Join(p.ID, p.Name, connID)
	rt.emit.ToAll(EventOnlineUsers, rt.presence.Snapshot())
}

func (rt *Router) handleCallToUser(connID string, data json.RawMessage) {
	var p CallRequest
	if !rt.decode(connID, EventCallToUser, data, &p) {
		return
	}
	if p.CallToUserID == "" {
		rt.dropInvalid(connID, EventCallToUser, "missing callee id")
		return
	}

	callee, online := rt.presence.Lookup(p.CallToUserID)
	if !online {
		rt.emit.ToConn(connID, EventUserUnavailable, Notice{Message: "User is offline."})
		return
	}

	if rt.calls.Busy(p.CallToUserID) {
		rt.emit.ToConn(connID, EventUserBusy, Notice{Message: "User is currently in another call."})
		rt.emit.ToConn(callee.ConnID, EventIncomingBusyCall, IncomingCall{
			From:       p.From,
			Name:       p.Name,
			Email:      p.Email,
			ProfilePic: p.ProfilePic,
		})
		return
	}

	rt.emit.ToConn(callee.ConnID, EventCallToUser, IncomingCall{
		Signal:     p.SignalData,
		From:       p.From,
		Name:       p.Name,
		Email:      p.Email,
		ProfilePic: p.ProfilePic,
	})
}

func (rt *Router) handleAnsweredCall(connID string, data json.RawMessage) {
	var p CallAnswer
	if !rt.decode(connID, EventAnsweredCall, data, &p) {
		return
	}
	if p.To == "" || p.From == "" {
		rt.dropInvalid(connID, EventAnsweredCall, "missing call endpoints")
		return
	}

	caller, online := rt.presence.Lookup(p.To)
	if !online {
		rt.dropInvalid(connID, EventAnsweredCall, "caller no longer online")
		return
	}

	rt.emit.ToConn(caller.ConnID, EventCallAccepted, CallAccepted{Signal: p.Signal, From: p.From})
	rt.calls.Begin(p.From, connID, p.To, caller.ConnID)
}

func (rt *Router) handleRejectCall(connID string, data json.RawMessage) {
	var p CallReject
	if !rt.decode(connID, EventRejectCall, data, &p) {
		return
	}
	if p.To == "" {
		rt.dropInvalid(connID, EventRejectCall, "missing target")
		return
	}

	// A purely-ringing call has no tracker entry; reject is just a
	// forwarded notice.
	if caller, online := rt.presence.Lookup(p.To); online {
		rt.emit.ToConn(caller.ConnID, EventCallRejected, CallRejected{Name: p.Name, ProfilePic: p.ProfilePic})
	}
}

func (rt *Router) handleCallEnded(connID string, data json.RawMessage) {
	var p CallEnd
	if !rt.decode(connID, EventCallEnded, data, &p) {
		return
	}
	if p.To == "" {
		rt.dropInvalid(connID, EventCallEnded, "missing target")
		return
	}

	if other, online := rt.presence.Lookup(p.To); online {
		rt.emit.ToConn(other.ConnID, EventCallEndedNotice, CallEndedNotice{Name: p.Name})
	}

	// Either end may hang up first; End is idempotent.
	rt.calls.End(p.From)
	rt.calls.End(p.To)
}

func (rt *Router) handleStartMeeting(connID string, data json.RawMessage) {
	var p StartMeetingPayload
	if !rt.decode(connID, EventStartMeeting, data, &p) {
		return
	}
	if p.RoomID == "" || p.HostID == "" {
		rt.dropInvalid(connID, EventStartMeeting, "missing room or host id")
		return
	}

	room, err := rt.rooms.Start(p.RoomID, p.HostID, p.HostName, connID)
	if err == ErrServerFull {
		rt.emit.ToConn(connID, EventMeetingError, ErrorNotice{
			Error:   ErrCodeServerFull,
			Message: "Server has reached maximum room capacity. Please try again later.",
		})
		return
	}

	rt.emit.ToAllExcept(connID, EventMeetingStarted, MeetingStarted{
		RoomID:   p.RoomID,
		HostID:   p.HostID,
		HostName: p.HostName,
		Message:  fmt.Sprintf("%s started an instant meeting. Room ID: %s", p.HostName, p.RoomID),
	})
	rt.emit.ToConn(connID, EventMeetingUsers, room.Participants())

	rt.log.WithFields(logrus.Fields{"room": p.RoomID, "host": p.HostID}).Info("Instant meeting started")
}

func (rt *Router) handleJoinMeeting(connID string, data json.RawMessage) {
	var p JoinMeetingPayload
	if !rt.decode(connID, EventJoinMeeting, data, &p) {
		return
	}
	if p.RoomID == "" || p.UserID == "" {
		rt.dropInvalid(connID, EventJoinMeeting, "missing room or user id")
		return
	}

	room, err := rt.rooms.Join(p.RoomID, p.UserID, p.UserName, connID)
	switch err {
	case ErrServerFull:
		rt.emit.ToConn(connID, EventMeetingError, ErrorNotice{
			Error:   ErrCodeServerFull,
			Message: "Server has reached maximum room capacity. Please try again later.",
		})
		return
	case ErrRoomFull:
		rt.emit.ToConn(connID, EventMeetingError, ErrorNotice{
			Error:   ErrCodeRoomFull,
			Message: fmt.Sprintf("This meeting room is full (%d participants maximum). Please try joining later.", rt.rooms.limits.MaxParticipantsPerRoom),
		})
		return
	}

	for _, member := range room.ConnIDs(connID) {
		rt.emit.ToConn(member, EventUserJoinedRoom, RoomNotice{
			UserID:   p.UserID,
			UserName: p.UserName,
			Message:  fmt.Sprintf("%s joined the meeting", p.UserName),
		})
	}
	rt.broadcastParticipants(room)

	rt.log.WithFields(logrus.Fields{"room": p.RoomID, "user": p.UserID}).Info("User joined meeting")
}

func (rt *Router) handleLeaveMeeting(connID string, data json.RawMessage) {
	var p LeaveMeetingPayload
	if !rt.decode(connID, EventLeaveMeeting, data, &p) {
		return
	}
	if p.RoomID == "" || p.UserID == "" {
		rt.dropInvalid(connID, EventLeaveMeeting, "missing room or user id")
		return
	}

	left, room, ok := rt.rooms.Leave(p.RoomID, p.UserID)
	if !ok {
		return
	}
	rt.notifyDeparture(p.RoomID, left, room)
}

func (rt *Router) handleMeetingChat(connID string, data json.RawMessage) {
	var p ChatPayload
	if !rt.decode(connID, EventSendMeetingChat, data, &p) {
		return
	}

	maxLen := rt.rooms.limits.MaxMessageLength
	if p.Message == "" || len(p.Message) > maxLen {
		rt.emit.ToConn(connID, EventChatError, ErrorNotice{
			Error:   ErrCodeMessageTooLong,
			Message: fmt.Sprintf("Message must be between 1 and %d characters.", maxLen),
		})
		return
	}

	room, ok := rt.rooms.Get(p.RoomID)
	if !ok {
		rt.emit.ToConn(connID, EventChatError, ErrorNotice{
			Error:   ErrCodeRoomNotFound,
			Message: "Meeting room not found. Please rejoin the meeting.",
		})
		return
	}

	rt.rooms.AppendMessage(p.RoomID, StoredMessage{
		SenderID:   p.SenderID,
		SenderName: p.SenderName,
		Text:       p.Message,
		Timestamp:  p.Timestamp,
	})

	for _, member := range room.ConnIDs(connID) {
		rt.emit.ToConn(member, EventMeetingChat, ChatMessage{
			Message:    p.Message,
			SenderName: p.SenderName,
			SenderID:   p.SenderID,
			Timestamp:  p.Timestamp,
		})
	}
}

func (rt *Router) handleScreenShare(connID, event string, data json.RawMessage) {
	var p ScreenSharePayload
	if !rt.decode(connID, event, data, &p) {
		return
	}

	room, ok := rt.rooms.Get(p.RoomID)
	if !ok {
		return
	}

	verb := "started"
	if event == EventScreenShareOff {
		verb = "stopped"
	}
	for _, member := range room.ConnIDs(connID) {
		rt.emit.ToConn(member, event, RoomNotice{
			UserID:   p.UserID,
			UserName: p.UserName,
			Message:  fmt.Sprintf("%s %s screen sharing", p.UserName, verb),
		})
	}
}

func (rt *Router) handleCreatePoll(connID string, data json.RawMessage) {
	var p PollCreatePayload
	if !rt.decode(connID, EventCreatePoll, data, &p) {
		return
	}
	rt.relayToRoom(connID, p.RoomID, EventPollCreated, map[string]any{"poll": p.Poll})
}

func (rt *Router) handleVotePoll(connID string, data json.RawMessage) {
	var p PollVotePayload
	if !rt.decode(connID, EventVotePoll, data, &p) {
		return
	}

	// Votes go to every member, the voter included, so all tallies
	// update from the same event.
	room, ok := rt.rooms.Get(p.RoomID)
	if !ok {
		return
	}
	for _, member := range room.ConnIDs("") {
		rt.emit.ToConn(member, EventPollVoted, map[string]any{
			"pollId":      p.PollID,
			"optionIndex": p.OptionIndex,
			"userId":      p.UserID,
		})
	}
}

func (rt *Router) handleUpdateNotes(connID string, data json.RawMessage) {
	var p NotesUpdatePayload
	if !rt.decode(connID, EventUpdateNotes, data, &p) {
		return
	}
	rt.relayToRoom(connID, p.RoomID, EventNotesUpdated, map[string]any{
		"notes":    p.Notes,
		"userId":   p.UserID,
		"userName": p.UserName,
	})
}

func (rt *Router) handleShareNotes(connID string, data json.RawMessage) {
	var p NotesSharePayload
	if !rt.decode(connID, EventShareNotes, data, &p) {
		return
	}
	rt.relayToRoom(connID, p.RoomID, EventNotesShared, map[string]any{
		"notes":    p.Notes,
		"sharedBy": p.SharedBy,
	})
}

func (rt *Router) handleWhiteboardDraw(connID string, data json.RawMessage) {
	var p WhiteboardDrawPayload
	if !rt.decode(connID, EventWhiteboardDraw, data, &p) {
		return
	}
	rt.relayToRoom(connID, p.RoomID, EventWhiteboardDrawn, map[string]any{"drawing": p.Drawing})
}

func (rt *Router) handleClearWhiteboard(connID string, data json.RawMessage) {
	var p WhiteboardClearPayload
	if !rt.decode(connID, EventClearWhiteboard, data, &p) {
		return
	}
	rt.relayToRoom(connID, p.RoomID, EventWhiteboardClear, nil)
}

func (rt *Router) handleRTCSignal(connID, event string, data json.RawMessage) {
	var p RTCSignal
	if !rt.decode(connID, event, data, &p) {
		return
	}
	if p.To == "" {
		rt.dropInvalid(connID, event, "missing target connection")
		return
	}

	// Pure pass-through keyed by explicit target handle. The sender
	// handle is stamped server-side; the claimed identity rides along.
	rt.emit.ToConn(p.To, event, RTCForwarded{
		RoomID:     p.RoomID,
		Payload:    p.Payload,
		From:       connID,
		FromUserID: p.From,
	})
}

// relayToRoom forwards an opaque payload to every room member except
// the sender. Unknown rooms drop silently; relay events carry no
// error responses.
func (rt *Router) relayToRoom(connID, roomID, event string, data any) {
	room, ok := rt.rooms.Get(roomID)
	if !ok {
		return
	}
	for _, member := range room.ConnIDs(connID) {
		rt.emit.ToConn(member, event, data)
	}
}

// broadcastParticipants sends the post-mutation participant snapshot
// to every member of the room.
func (rt *Router) broadcastParticipants(room *Room) {
	snapshot := room.Participants()
	for _, member := range room.ConnIDs("") {
		rt.emit.ToConn(member, EventMeetingUsers, snapshot)
	}
}

// notifyDeparture tells the remaining members someone left and
// re-broadcasts the updated participant list. room is nil when the
// departure emptied (and deleted) the room.
func (rt *Router) notifyDeparture(roomID string, left Participant, room *Room) {
	if room == nil {
		return
	}
	for _, member := range room.ConnIDs("") {
		rt.emit.ToConn(member, EventUserLeftRoom, RoomNotice{
			UserID:   left.UserID,
			UserName: left.UserName,
			Message:  fmt.Sprintf("%s left the meeting", left.UserName),
		})
	}
	rt.broadcastParticipants(room)
}

// Disconnect resolves every effect of a dropped connection in one
// pass: implicit call end, room departures, presence removal. The
// surviving call leg is notified so its UI can tear down immediately
// instead of waiting on a client-side timeout.
func (rt *Router) Disconnect(connID string) {
	entry, joined := rt.presence.RemoveByConn(connID)

	if userID, _, peerConn, ok := rt.calls.EndByConn(connID); ok && peerConn != "" {
		rt.emit.ToConn(peerConn, EventCallEndedNotice, CallEndedNotice{Name: entry.Name})
		rt.log.WithFields(logrus.Fields{"user": userID, "conn": connID}).Info("Call ended by disconnect")
	}

	for _, dep := range rt.rooms.RemoveConn(connID) {
		rt.notifyDeparture(dep.RoomID, dep.Participant, dep.Room)
	}

	if joined {
		rt.emit.ToAll(EventOnlineUsers, rt.presence.Snapshot())
		rt.emit.ToAllExcept(connID, EventUserDisconnected, DisconnectNotice{SocketID: connID})
	}
}
