package relay

// callLeg is one end of an active 1:1 call.
type callLeg struct {
	PeerID string
	ConnID string
}

// Calls reserves identities for active 1:1 calls. An entry exists only
// between "answer accepted" and "ended/rejected/disconnected"; ringing
// is not tracked. Keying both ends rejects any second offer while a
// user is occupied, which also closes the double-answer race.
//
// Owned by the Router, single-goroutine access, no locking.
type Calls struct {
	active map[string]callLeg
}

func NewCalls() *Calls {
	return &Calls{active: make(map[string]callLeg)}
}

// Busy reports whether the user is in an active call.
func (c *Calls) Busy(userID string) bool {
	_, ok := c.active[userID]
	return ok
}

// Begin records an accepted call, both ends pointing at each other.
func (c *Calls) Begin(aID, aConn, bID, bConn string) {
	c.active[aID] = callLeg{PeerID: bID, ConnID: aConn}
	c.active[bID] = callLeg{PeerID: aID, ConnID: bConn}
}

// End removes the call for userID and its peer. Idempotent: ending an
// already-ended call is a no-op.
func (c *Calls) End(userID string) (peerID string, ok bool) {
	leg, ok := c.active[userID]
	if !ok {
		return "", false
	}
	delete(c.active, userID)
	delete(c.active, leg.PeerID)
	return leg.PeerID, true
}

// EndByConn resolves the call the given connection participates in and
// removes both legs, returning the surviving peer so the caller can
// notify it.
func (c *Calls) EndByConn(connID string) (userID, peerID, peerConn string, ok bool) {
	for id, leg := range c.active {
		if leg.ConnID == connID {
			peerConn = c.active[leg.PeerID].ConnID
			delete(c.active, id)
			delete(c.active, leg.PeerID)
			return id, leg.PeerID, peerConn, true
		}
	}
	return "", "", "", false
}
