package relay

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// clientMessage is the subscribe protocol: {"type":"join-board","boardId":"..."}
// or {"type":"leave-board","boardId":"..."}. Anything else is ignored and the
// connection stays usable.
type clientMessage struct {
	Type    string `json:"type"`
	BoardID string `json:"boardId"`
}

// Client is one websocket connection. It may belong to zero or more rooms at
// a time; room membership changes only through its own join/leave messages.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Run starts the read and write pumps and returns immediately.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// deliver queues a message without blocking. Returns false if the client's
// queue is full.
func (c *Client) deliver(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend is safe to call more than once; the write pump exits when the
// channel closes.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Debug("Websocket closed unexpectedly")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			// Malformed input is dropped silently; no error round trip.
			continue
		}

		switch msg.Type {
		case "join-board":
			if msg.BoardID != "" {
				c.hub.Join(c, msg.BoardID)
			}
		case "leave-board":
			c.hub.Leave(c, msg.BoardID)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
