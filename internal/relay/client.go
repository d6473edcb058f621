package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection bound to an authenticated user.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	userID    uint64
	companyID uint64
	rooms     map[string]struct{}

	// closed is owned by the hub's Run goroutine.
	closed bool
}

// NewClient wires a freshly upgraded connection into the hub and starts the
// read/write pumps.
func NewClient(hub *Hub, conn *websocket.Conn, userID, companyID uint64) *Client {
	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 32),
		userID:    userID,
		companyID: companyID,
		rooms:     make(map[string]struct{}),
	}

	hub.register <- client
	go client.writePump()
	go client.readPump()
	return client
}

// inboundMessage is what clients send: room subscriptions and ephemeral
// collaboration signals (typing). Anything mutating state goes through the
// REST API, never through the socket.
type inboundMessage struct {
	Type    string          `json:"type"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("websocket read error", zap.Error(err), zap.Uint64("user_id", c.userID))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg inboundMessage) {
	switch msg.Type {
	case "subscribe":
		if msg.Room != "" {
			c.hub.subscribe <- subscription{client: c, room: msg.Room}
		}
	case "unsubscribe":
		if msg.Room != "" {
			c.hub.subscribe <- subscription{client: c, room: msg.Room, leave: true}
		}
	case EventTyping:
		room := msg.Room
		if room == "" {
			room = RoomCompany
		}
		c.hub.Publish(context.Background(), Event{
			Type:      EventTyping,
			CompanyID: c.companyID,
			Rooms:     []string{room},
			Payload: map[string]any{
				"user_id": c.userID,
				"room":    room,
				"data":    msg.Payload,
			},
		})
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
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
