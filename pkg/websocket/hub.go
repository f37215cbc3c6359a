package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"ridepool/pkg/logger"
	"ridepool/pkg/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is the frame written to clients. It is the same shape the
// realtime client decodes.
type Message = realtime.Event

const (
	TypeWelcome   = "welcome"
	TypeJoinRoom  = "join_room"
	TypeLeaveRoom = "leave_room"
)

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex
	done       chan struct{}
	logger     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		rooms:      make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
		logger:     log.WithField("component", "websocket_hub"),
	}
}

// Run serves registrations until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				h.removeLocked(client)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Register hands a connected client to the hub. It returns false once the
// hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true
	h.joinRoom(client, realtime.UserRoom(client.UserID))
	h.mutex.Unlock()

	h.logger.WithUserID(client.UserID).Debug("Client registered")

	welcome := realtime.NewEvent(TypeWelcome, map[string]interface{}{
		"message": "Connected successfully",
	})
	welcome.UserID = client.UserID
	h.sendToClients([]*Client{client}, welcome)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.clients[client] {
		h.removeLocked(client)
		h.logger.WithUserID(client.UserID).Debug("Client unregistered")
	}
}

func (h *Hub) removeLocked(client *Client) {
	delete(h.clients, client)
	close(client.send)
	for roomID := range client.rooms {
		h.leaveRoomLocked(client, roomID)
	}
}

// SendToRoom delivers message to every client in roomID. Clients whose
// buffers are full are dropped.
func (h *Hub) SendToRoom(roomID string, message Message) {
	message.RoomID = roomID

	h.mutex.RLock()
	room := h.rooms[roomID]
	targets := make([]*Client, 0, len(room))
	for client := range room {
		targets = append(targets, client)
	}
	h.mutex.RUnlock()

	h.sendToClients(targets, message)
}

func (h *Hub) SendToUser(userID primitive.ObjectID, message Message) {
	h.SendToRoom(realtime.UserRoom(userID), message)
}

func (h *Hub) SendRideUpdate(rideID primitive.ObjectID, message Message) {
	h.SendToRoom(realtime.RideRoom(rideID), message)
}

func (h *Hub) sendToClients(clients []*Client, message Message) {
	if len(clients) == 0 {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal websocket message")
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for _, client := range clients {
		if !h.clients[client] {
			continue
		}
		select {
		case client.send <- data:
		default:
			select {
			case h.unregister <- client:
			default:
			}
		}
	}
}

func (h *Hub) JoinRoom(client *Client, roomID string) bool {
	if !canJoin(client, roomID) {
		return false
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if !h.clients[client] {
		return false
	}
	h.joinRoom(client, roomID)
	return true
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.leaveRoomLocked(client, roomID)
}

// RoomSize reports how many clients are in roomID.
func (h *Hub) RoomSize(roomID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

func (h *Hub) leaveRoomLocked(client *Client, roomID string) {
	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(client.rooms, roomID)
}

// canJoin keeps clients out of other users' personal rooms.
func canJoin(client *Client, roomID string) bool {
	switch {
	case strings.HasPrefix(roomID, "user_"):
		return roomID == realtime.UserRoom(client.UserID)
	case strings.HasPrefix(roomID, "ride_"):
		_, err := primitive.ObjectIDFromHex(strings.TrimPrefix(roomID, "ride_"))
		return err == nil
	default:
		return false
	}
}
