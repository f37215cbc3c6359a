package websocket

import (
	"encoding/json"
	"strings"
	"time"

	"ridepool/internal/models"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	UserID primitive.ObjectID
	Mode   string
	rooms  map[string]bool

	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewClient(hub *Hub, conn *websocket.Conn, userID primitive.ObjectID, mode string, pingPeriod, pongWait time.Duration) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		UserID:     userID,
		Mode:       mode,
		rooms:      make(map[string]bool),
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithUserID(c.UserID).WithError(err).Warn("WebSocket read failed")
			}
			break
		}

		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current frame.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		c.hub.logger.WithUserID(c.UserID).WithError(err).Debug("Ignoring malformed client message")
		return
	}

	msg.UserID = c.UserID
	msg.Timestamp = time.Now().Unix()

	switch msg.Type {
	case TypeJoinRoom:
		if roomID, ok := msg.Data["room_id"].(string); ok {
			if !c.hub.JoinRoom(c, roomID) {
				c.hub.logger.WithUserID(c.UserID).WithField("room_id", roomID).Warn("Refused room join")
			}
		}

	case TypeLeaveRoom:
		if roomID, ok := msg.Data["room_id"].(string); ok {
			c.hub.LeaveRoom(c, roomID)
		}

	case models.EventDriverLocation:
		// Positions are only relayed to the ride the driver is sharing.
		if strings.HasPrefix(msg.RoomID, "ride_") && c.inRoom(msg.RoomID) {
			c.hub.SendToRoom(msg.RoomID, msg)
		}

	default:
		c.hub.logger.WithUserID(c.UserID).WithField("type", msg.Type).Debug("Ignoring client message")
	}
}

func (c *Client) inRoom(roomID string) bool {
	c.hub.mutex.RLock()
	defer c.hub.mutex.RUnlock()
	return c.rooms[roomID]
}
