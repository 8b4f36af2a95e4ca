package relay

// PresenceEntry maps a logical identity to its live connection handle.
type PresenceEntry struct {
	UserID string
	Name   string
	ConnID string
}

// Presence tracks which users are online. Identity survives reconnects:
// a join for a known userID replaces the connection handle in place, so
// each identity holds at most one connection at a time.
//
// Presence is owned by the Router and only ever touched from the hub's
// dispatch goroutine; it needs no locking.
type Presence struct {
	entries []PresenceEntry
}

func NewPresence() *Presence {
	return &Presence{}
}

// Join inserts the entry for userID or, on reconnect, replaces its
// connection handle (last write wins).
func (p *Presence) Join(userID, name, connID string) {
	for i := range p.entries {
		if p.entries[i].UserID == userID {
			p.entries[i].Name = name
			p.entries[i].ConnID = connID
			return
		}
	}
	p.entries = append(p.entries, PresenceEntry{UserID: userID, Name: name, ConnID: connID})
}

// RemoveByConn drops the entry holding the given connection handle.
// Unknown handles are a no-op: the connection never joined.
func (p *Presence) RemoveByConn(connID string) (PresenceEntry, bool) {
	for i, e := range p.entries {
		if e.ConnID == connID {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return e, true
		}
	}
	return PresenceEntry{}, false
}

// Lookup resolves a user to their current connection. Absence is the
// normal "offline" branch, not a fault.
func (p *Presence) Lookup(userID string) (PresenceEntry, bool) {
	for _, e := range p.entries {
		if e.UserID == userID {
			return e, true
		}
	}
	return PresenceEntry{}, false
}

// Snapshot returns the online-user list in join order.
func (p *Presence) Snapshot() []OnlineUser {
	users := make([]OnlineUser, 0, len(p.entries))
	for _, e := range p.entries {
		users = append(users, OnlineUser{UserID: e.UserID, Name: e.Name, SocketID: e.ConnID})
	}
	return users
}
