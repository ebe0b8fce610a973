package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 256
)

var errSlowConsumer = errors.New("send buffer full")

// EventHandler receives every decoded client→server event for one connection.
// The connection is exposed as a Sender so handlers stay independent of the
// transport framing.
type EventHandler func(ctx context.Context, conn Sender, ev Event)

// Client owns one websocket connection. Inbound frames are decoded and
// dispatched to the handler; outbound frames are queued on a buffered channel
// drained by the write pump, so a publisher never blocks on a slow socket.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	log    *slog.Logger
	handle EventHandler

	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewClient wraps an upgraded connection. Call Start to begin the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, log *slog.Logger, handle EventHandler) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		log:    log,
		handle: handle,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send queues a frame for delivery. Never blocks: a full buffer means the
// consumer is too slow to keep, so the caller treats it as a dead connection.
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return errors.New("connection closed")
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errSlowConsumer
	}
}

// Close leaves the hub and tears the connection down. Safe to call more than
// once; every exit path of the pumps funnels through here, so a dropped
// connection is always an implicit leave.
func (c *Client) Close() {
	c.once.Do(func() {
		c.hub.Leave(c)
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer c.Close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.log.Debug("dropping malformed frame", "err", err)
			continue
		}
		c.handle(context.Background(), c, ev)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
