package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"unimarket/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one authenticated WebSocket connection. Send is never closed:
// emitters may hold a stale reference to a connection that was just dropped,
// so teardown is signalled through done instead, and a send into a drained
// buffer is simply garbage collected with the client.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// shutdown signals both pumps to exit. Safe to call from any goroutine, any
// number of times.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// clientMessage is the inbound frame format. Clients only manage room
// membership and liveness over the socket; message sending goes through the
// REST API so it shares validation and persistence.
type clientMessage struct {
	Type     string `json:"type"`
	ThreadID string `json:"thread_id,omitempty"`
}

const (
	messageTypeJoinThread  = "join_thread"
	messageTypeLeaveThread = "leave_thread"
	messageTypePing        = "ping"
	messageTypePong        = "pong"
)

// ReadPump consumes inbound frames until the connection drops.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.shutdown()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket: read error for %s: %v", c.UserID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Debug("websocket: malformed frame from %s: %v", c.UserID, err)
			continue
		}

		switch msg.Type {
		case messageTypeJoinThread:
			if msg.ThreadID != "" {
				m.JoinRoom(msg.ThreadID, c.UserID)
			}
		case messageTypeLeaveThread:
			if msg.ThreadID != "" {
				m.LeaveRoom(msg.ThreadID, c.UserID)
			}
		case messageTypePing:
			if pong, err := json.Marshal(clientMessage{Type: messageTypePong}); err == nil {
				select {
				case c.Send <- pong:
				case <-c.done:
				default:
				}
			}
		default:
			logger.Debug("websocket: unknown frame type %q from %s", msg.Type, c.UserID)
		}
	}
}

// WritePump drains the send buffer onto the connection and keeps it alive
// with pings. It exits when the client is shut down or the socket errors.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Warn("websocket: write error for %s: %v", c.UserID, err)
				return
			}
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
