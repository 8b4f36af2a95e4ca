package relay

import "encoding/json"

// Client -> server event names.
const (
	EventJoin            = "join"
	EventCallToUser      = "callToUser"
	EventAnsweredCall    = "answeredCall"
	EventRejectCall      = "reject-call"
	EventCallEnded       = "call-ended"
	EventStartMeeting    = "start-instant-meeting"
	EventJoinMeeting     = "join-meeting-room"
	EventLeaveMeeting    = "leave-meeting-room"
	EventSendMeetingChat = "send-meeting-chat"
	EventScreenShareOn   = "screen-share-started"
	EventScreenShareOff  = "screen-share-stopped"
	EventCreatePoll      = "create-poll"
	EventVotePoll        = "vote-poll"
	EventUpdateNotes     = "update-notes"
	EventShareNotes      = "share-notes"
	EventWhiteboardDraw  = "whiteboard-draw"
	EventClearWhiteboard = "clear-whiteboard"
	EventWebRTCOffer     = "webrtc-offer"
	EventWebRTCAnswer    = "webrtc-answer"
	EventICECandidate    = "ice-candidate"
)

// Server -> client event names.
const (
	EventMe               = "me"
	EventOnlineUsers      = "online-users"
	EventCallAccepted     = "callAccepted"
	EventCallRejected     = "callRejected"
	EventCallEndedNotice  = "callEnded"
	EventUserUnavailable  = "userUnavailable"
	EventUserBusy         = "userBusy"
	EventIncomingBusyCall = "incomingCallWhileBusy"
	EventMeetingStarted   = "instant-meeting-started"
	EventMeetingUsers     = "meeting-participants"
	EventUserJoinedRoom   = "user-joined-meeting"
	EventUserLeftRoom     = "user-left-meeting"
	EventMeetingChat      = "meeting-chat-message"
	EventChatError        = "chat-error"
	EventMeetingError     = "meeting-error"
	EventPollCreated      = "poll-created"
	EventPollVoted        = "poll-voted"
	EventNotesUpdated     = "notes-updated"
	EventNotesShared      = "notes-shared"
	EventWhiteboardDrawn  = "whiteboard-drawing"
	EventWhiteboardClear  = "whiteboard-cleared"
	EventUserDisconnected = "user-disconnected"
)

// Typed error codes carried by chat-error and meeting-error events.
const (
	ErrCodeMessageTooLong = "MESSAGE_TOO_LONG"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeRoomFull       = "ROOM_FULL"
	ErrCodeServerFull     = "SERVER_FULL"
)

// Envelope is the wire frame: a named event plus its payload. Payloads
// form a closed set, decoded and validated per event before dispatch.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outbound is the marshaling counterpart of Envelope.
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// JoinPayload registers the connection's identity.
type JoinPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OnlineUser is one entry of the online-users snapshot.
type OnlineUser struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	SocketID string `json:"socketId"`
}

// CallRequest places a 1:1 call offer. SignalData is the opaque WebRTC
// session description; the server never inspects it.
type CallRequest struct {
	CallToUserID string          `json:"callToUserId"`
	SignalData   json.RawMessage `json:"signalData"`
	From         string          `json:"from"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	ProfilePic   string          `json:"profilepic"`
}

// IncomingCall is the forwarded offer delivered to the callee.
type IncomingCall struct {
	Signal     json.RawMessage `json:"signal"`
	From       string          `json:"from"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	ProfilePic string          `json:"profilepic"`
}

// CallAnswer accepts a ringing call. To is the caller's user ID.
type CallAnswer struct {
	Signal json.RawMessage `json:"signal"`
	To     string          `json:"to"`
	From   string          `json:"from"`
}

// CallAccepted is the forwarded answer delivered to the caller.
type CallAccepted struct {
	Signal json.RawMessage `json:"signal"`
	From   string          `json:"from"`
}

// CallReject declines a ringing call. No session state is involved.
type CallReject struct {
	To         string `json:"to"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilepic"`
}

// CallRejected is the notice delivered to the caller on reject.
type CallRejected struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profilepic"`
}

// CallEnd hangs up an active call from either end.
type CallEnd struct {
	To   string `json:"to"`
	Name string `json:"name"`
	From string `json:"from"`
}

// CallEndedNotice tells the other leg the call is over.
type CallEndedNotice struct {
	Name string `json:"name"`
}

// Notice is a plain informational message to one connection.
type Notice struct {
	Message string `json:"message"`
}

// ErrorNotice is a typed error event sent only to the triggering
// connection. Error is one of the ErrCode constants.
type ErrorNotice struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StartMeetingPayload creates a meeting room with the sender as host.
type StartMeetingPayload struct {
	RoomID   string `json:"roomId"`
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

// MeetingStarted is the discovery notice broadcast to non-members.
type MeetingStarted struct {
	RoomID   string `json:"roomId"`
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
	Message  string `json:"message"`
}

// JoinMeetingPayload joins an existing (or lazily created) room.
type JoinMeetingPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// LeaveMeetingPayload leaves a room explicitly.
type LeaveMeetingPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// RoomNotice announces a join or leave to the other room members.
type RoomNotice struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Message  string `json:"message"`
}

// ChatPayload is a room chat message. Length-capped; never persisted
// beyond the room's bounded in-memory history.
type ChatPayload struct {
	RoomID     string `json:"roomId"`
	Message    string `json:"message"`
	SenderName string `json:"senderName"`
	SenderID   string `json:"senderId"`
	Timestamp  string `json:"timestamp"`
}

// ChatMessage is the forwarded chat event.
type ChatMessage struct {
	Message    string `json:"message"`
	SenderName string `json:"senderName"`
	SenderID   string `json:"senderId"`
	Timestamp  string `json:"timestamp"`
}

// ScreenSharePayload flags screen sharing on or off within a room.
type ScreenSharePayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// PollCreatePayload relays a new poll. The poll body is opaque to the
// server; clients own poll state.
type PollCreatePayload struct {
	RoomID string          `json:"roomId"`
	Poll   json.RawMessage `json:"poll"`
}

// PollVotePayload relays a vote to every room member, sender included.
type PollVotePayload struct {
	RoomID      string `json:"roomId"`
	PollID      string `json:"pollId"`
	OptionIndex int    `json:"optionIndex"`
	UserID      string `json:"userId"`
}

// NotesUpdatePayload relays collaborative note edits.
type NotesUpdatePayload struct {
	RoomID   string          `json:"roomId"`
	Notes    json.RawMessage `json:"notes"`
	UserID   string          `json:"userId"`
	UserName string          `json:"userName"`
}

// NotesSharePayload relays a full notes share.
type NotesSharePayload struct {
	RoomID   string          `json:"roomId"`
	Notes    json.RawMessage `json:"notes"`
	SharedBy string          `json:"sharedBy"`
}

// WhiteboardDrawPayload relays one stroke. The server holds no canvas.
type WhiteboardDrawPayload struct {
	RoomID  string          `json:"roomId"`
	Drawing json.RawMessage `json:"drawing"`
}

// WhiteboardClearPayload wipes the shared whiteboard.
type WhiteboardClearPayload struct {
	RoomID string `json:"roomId"`
}

// RTCSignal is an opaque offer/answer/candidate relay keyed by an
// explicit target connection handle.
type RTCSignal struct {
	RoomID  string          `json:"roomId"`
	To      string          `json:"to"`
	Payload json.RawMessage `json:"payload"`
	From    string          `json:"from"`
}

// RTCForwarded is the relayed signal. From is stamped server-side with
// the sender's connection handle; FromUserID carries the claimed
// identity for UI purposes.
type RTCForwarded struct {
	RoomID     string          `json:"roomId"`
	Payload    json.RawMessage `json:"payload"`
	From       string          `json:"from"`
	FromUserID string          `json:"fromUserId"`
}

// DisconnectNotice names a connection that dropped.
type DisconnectNotice struct {
	SocketID string `json:"socketId"`
}
