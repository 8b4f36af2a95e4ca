package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/callify/signaling/internal/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// HandleRelay upgrades the connection and attaches it to the relay
// hub. Each connection gets a fresh handle; identity is established
// later by the join event.
func HandleRelay(hub *relay.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.Warnf("Failed to upgrade connection: %v", err)
			return
		}

		client := relay.NewClient(uuid.New().String(), hub, conn)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
