package relay

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/callify/signaling/config"
)

// inboundEvent pairs a parsed frame with its source connection.
type inboundEvent struct {
	client *Client
	env    Envelope
}

// Hub owns the connection pool and runs the single dispatch loop.
// Every register, unregister, and inbound frame flows through its
// channels and is handled to completion in one goroutine, which is
// what lets the registries go lock-free and gives rooms their
// in-order broadcast guarantee.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent

	clients map[string]*Client
	router  *Router
	log     *logrus.Entry
}

func NewHub(limits config.RelayLimits) *Hub {
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundEvent, 256),
		clients:    make(map[string]*Client),
		log:        logrus.WithField("component", "hub"),
	}
	h.router = NewRouter(NewPresence(), NewCalls(), NewRooms(limits), h)
	return h
}

// Router exposes the dispatch core, mainly for diagnostics.
func (h *Hub) Router() *Router { return h.router }

// Register hands a new connection to the dispatch loop.
func (h *Hub) Register(c *Client) { h.register <- c }

// Unregister removes a dropped connection; called from ReadPump.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Inbound queues one frame for dispatch.
func (h *Hub) Inbound(c *Client, env Envelope) {
	h.inbound <- inboundEvent{client: c, env: env}
}

// Run processes hub events until the process exits. Start it once, in
// its own goroutine, before serving connections.
func (h *Hub) Run() {
	h.log.Info("Hub is running")
	for {
		select {
		case c := <-h.register:
			h.clients[c.ID] = c
			// Tell the connection its own handle first thing
			h.ToConn(c.ID, EventMe, c.ID)
			h.log.WithField("conn", c.ID).Info("Connection registered")

		case c := <-h.unregister:
			if _, ok := h.clients[c.ID]; !ok {
				continue
			}
			h.router.Disconnect(c.ID)
			delete(h.clients, c.ID)
			close(c.send)
			h.log.WithField("conn", c.ID).Info("Connection unregistered")

		case msg := <-h.inbound:
			// A client that unregistered may still have frames queued;
			// skip them rather than dispatch for a dead handle.
			if _, ok := h.clients[msg.client.ID]; !ok {
				continue
			}
			h.router.Dispatch(msg.client.ID, msg.env)
		}
	}
}

// marshal builds the wire frame for an outbound event.
func (h *Hub) marshal(event string, data any) ([]byte, bool) {
	frame, err := json.Marshal(outbound{Event: event, Data: data})
	if err != nil {
		h.log.WithField("event", event).Errorf("Failed to marshal frame: %v", err)
		return nil, false
	}
	return frame, true
}

// ToConn implements Emitter for a single connection. Unknown handles
// drop silently: the target raced a disconnect.
func (h *Hub) ToConn(connID, event string, data any) {
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	if frame, ok := h.marshal(event, data); ok {
		c.enqueue(frame)
	}
}

// ToAll implements Emitter for full broadcasts.
func (h *Hub) ToAll(event string, data any) {
	frame, ok := h.marshal(event, data)
	if !ok {
		return
	}
	for _, c := range h.clients {
		c.enqueue(frame)
	}
}

// ToAllExcept broadcasts to every connection but one.
func (h *Hub) ToAllExcept(connID, event string, data any) {
	frame, ok := h.marshal(event, data)
	if !ok {
		return
	}
	for id, c := range h.clients {
		if id != connID {
			c.enqueue(frame)
		}
	}
}
