package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/config"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
)

// Client is one live WebSocket connection bound to an authenticated
// session. Writes go through the Send queue consumed by a single
// writer goroutine.
type Client struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Session *domain.Session

	config    config.WebSocketConfig
	closeOnce sync.Once
}

func NewClient(id string, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	queue := cfg.SendQueueSize
	if queue <= 0 {
		queue = 256
	}
	return &Client{
		ID:      id,
		Conn:    conn,
		Send:    make(chan []byte, queue),
		Session: domain.NewSession(id),
		config:  cfg,
	}
}

// Enqueue marshals an event onto the send queue. A full queue or a
// client whose writer has gone away drops the event; delivery over the
// socket is best-effort by design.
func (c *Client) Enqueue(event interface{}) bool {
	data, err := json.Marshal(event)
	if err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldConnID, c.ID).Msg("failed to marshal outbound event")
		return false
	}

	select {
	case c.Send <- data:
		return true
	default:
		l := log.L()
		l.Warn().Str(log.FieldConnID, c.ID).Msg("send queue full, dropping event")
		return false
	}
}

// ReadPump reads frames off the socket and hands them to handler.
// It returns when the peer closes or a read error occurs.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer c.Close()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l := log.L()
				l.Warn().Err(err).Str(log.FieldConnID, c.ID).Msg("websocket read error")
			}
			break
		}

		c.Session.UpdateActivity()
		handler(c, message)
	}
}

// WritePump drains the send queue onto the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close shuts the underlying connection. Safe to call more than once,
// and safe on clients that never had a connection (tests).
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.Session.Close()
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}
