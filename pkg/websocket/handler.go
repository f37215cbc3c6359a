package websocket

import (
	"net/http"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/utils"
	"ridepool/pkg/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	hub        *Hub
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
	pongWait   time.Duration
}

func NewHandler(hub *Hub, cfg *config.WebSocketConfig) *Handler {
	pingPeriod, pongWait := cfg.PingInterval, cfg.PongTimeout
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	if pingPeriod <= 0 || pingPeriod >= pongWait {
		pingPeriod = pongWait * 9 / 10
	}

	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   cfg.ReadBufferSize,
			WriteBufferSize:  cfg.WriteBufferSize,
			HandshakeTimeout: cfg.HandshakeTimeout,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Native clients send no Origin header.
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
	}
}

// HandleWebSocket upgrades an authenticated request and registers the
// connection with the hub.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.WithUserID(userObjectID).WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, userObjectID, c.GetString("mode"), h.pingPeriod, h.pongWait)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Handler) SendRideUpdate(rideID primitive.ObjectID, updateType string, data map[string]interface{}) {
	h.hub.SendRideUpdate(rideID, realtime.NewEvent(updateType, data))
}

func (h *Handler) SendUserNotification(userID primitive.ObjectID, notificationType string, data map[string]interface{}) {
	msg := realtime.NewEvent(notificationType, data)
	msg.UserID = userID
	h.hub.SendToUser(userID, msg)
}

func (h *Handler) GetHub() *Hub {
	return h.hub
}
