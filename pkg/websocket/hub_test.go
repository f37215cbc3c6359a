package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/middleware"
	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"
	"ridepool/pkg/realtime"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "hub-secret"

type testServer struct {
	hub     *Hub
	handler *Handler
	url     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.Nop())
	go hub.Run(ctx)

	handler := NewHandler(hub, &config.WebSocketConfig{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: time.Second,
		AllowedOrigins:   []string{"*"},
	})

	r := gin.New()
	r.GET("/ws", middleware.AuthRequired(testSecret), handler.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return &testServer{hub: hub, handler: handler, url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"}
}

func (s *testServer) dial(t *testing.T, userID primitive.ObjectID, mode string) (*realtime.WebSocketBus, <-chan realtime.Event) {
	t.Helper()
	token, err := utils.GenerateAccessToken(userID, mode, "", testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	bus, err := realtime.DialWebSocket(context.Background(), s.url, token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { bus.Close() })

	events := make(chan realtime.Event, 16)
	for _, name := range []string{models.EventRideRequestUpdated, models.EventDriverLocation} {
		bus.Subscribe(name, func(e realtime.Event) { events <- e })
	}
	waitRoomSize(t, s.hub, realtime.UserRoom(userID), 1)
	return bus, events
}

func expectEvent(t *testing.T, events <-chan realtime.Event, eventType string) realtime.Event {
	t.Helper()
	select {
	case e := <-events:
		if e.Type != eventType {
			t.Fatalf("got event %q, want %q", e.Type, eventType)
		}
		return e
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", eventType)
	}
	return realtime.Event{}
}

func waitRoomSize(t *testing.T, hub *Hub, room string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(room) != n {
		if time.Now().After(deadline) {
			t.Fatalf("room %s has %d clients, want %d", room, hub.RoomSize(room), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSendUserNotification(t *testing.T) {
	s := newTestServer(t)
	riderID := primitive.NewObjectID()
	_, events := s.dial(t, riderID, "rider")

	s.handler.SendUserNotification(riderID, models.EventRideRequestUpdated, map[string]interface{}{"status": "accepted"})

	e := expectEvent(t, events, models.EventRideRequestUpdated)
	if e.RoomID != realtime.UserRoom(riderID) || e.Data["status"] != "accepted" {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestDriverLocationIsRelayedToRideRoom(t *testing.T) {
	s := newTestServer(t)
	rideRoom := realtime.RideRoom(primitive.NewObjectID())

	rider, riderEvents := s.dial(t, primitive.NewObjectID(), "rider")
	driver, _ := s.dial(t, primitive.NewObjectID(), "driver")

	ctx := context.Background()
	if err := rider.JoinRoom(ctx, rideRoom); err != nil {
		t.Fatal(err)
	}
	if err := driver.JoinRoom(ctx, rideRoom); err != nil {
		t.Fatal(err)
	}
	waitRoomSize(t, s.hub, rideRoom, 2)

	loc := realtime.NewEvent(models.EventDriverLocation, map[string]interface{}{"latitude": 1.5, "longitude": 2.5})
	loc.RoomID = rideRoom
	if err := driver.Publish(ctx, loc); err != nil {
		t.Fatal(err)
	}

	e := expectEvent(t, riderEvents, models.EventDriverLocation)
	if e.Data["latitude"] != 1.5 || e.RoomID != rideRoom {
		t.Fatalf("unexpected location event %+v", e)
	}
}

func TestCannotJoinAnotherUsersRoom(t *testing.T) {
	s := newTestServer(t)
	other := primitive.NewObjectID()
	bus, _ := s.dial(t, primitive.NewObjectID(), "rider")

	ctx := context.Background()
	if err := bus.JoinRoom(ctx, realtime.UserRoom(other)); err != nil {
		t.Fatal(err)
	}
	// Frames are handled in order, so once the second join lands the first
	// one has been decided.
	rideRoom := realtime.RideRoom(primitive.NewObjectID())
	if err := bus.JoinRoom(ctx, rideRoom); err != nil {
		t.Fatal(err)
	}
	waitRoomSize(t, s.hub, rideRoom, 1)

	if n := s.hub.RoomSize(realtime.UserRoom(other)); n != 0 {
		t.Fatalf("joined another user's room (%d clients)", n)
	}
}

func TestCanJoin(t *testing.T) {
	c := &Client{UserID: primitive.NewObjectID()}
	tests := []struct {
		room string
		want bool
	}{
		{realtime.UserRoom(c.UserID), true},
		{realtime.UserRoom(primitive.NewObjectID()), false},
		{realtime.RideRoom(primitive.NewObjectID()), true},
		{"ride_nothex", false},
		{"drivers", false},
	}
	for _, tt := range tests {
		if got := canJoin(c, tt.room); got != tt.want {
			t.Errorf("canJoin(%q) = %v, want %v", tt.room, got, tt.want)
		}
	}
}
