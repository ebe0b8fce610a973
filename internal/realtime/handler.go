package realtime

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The HTTP layer enforces the CORS allow-list; the socket endpoint
		// accepts any origin that got that far.
		return true
	},
}

// Handler upgrades HTTP requests to websocket connections and starts a
// client for each. The connection joins a room only once it sends join_room.
func Handler(hub *Hub, log *slog.Logger, handle EventHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Debug("websocket upgrade failed", "err", err)
			return
		}
		client := NewClient(hub, conn, log, handle)
		client.Start()
	}
}
