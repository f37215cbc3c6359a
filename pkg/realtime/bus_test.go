package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ridepool/internal/config"

	"github.com/gorilla/websocket"
)

func TestMemoryBusSubscribeUnsubscribe(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	var got []string
	sub := bus.Subscribe("new_message", func(e Event) {
		got = append(got, e.Data["content"].(string))
	})
	bus.Subscribe("new_ride_request", func(e Event) {
		t.Errorf("handler for another event fired: %v", e)
	})

	ctx := context.Background()
	bus.Publish(ctx, NewEvent("new_message", map[string]interface{}{"content": "hello"}))
	bus.Unsubscribe(sub)
	bus.Publish(ctx, NewEvent("new_message", map[string]interface{}{"content": "ignored"}))

	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("got %v, want [hello]", got)
	}
}

func TestMemoryBusHandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewMemoryBus()

	calls := 0
	var sub Subscription
	sub = bus.Subscribe("ride_status_changed", func(Event) {
		calls++
		bus.Unsubscribe(sub)
	})

	ctx := context.Background()
	bus.Publish(ctx, NewEvent("ride_status_changed", nil))
	bus.Publish(ctx, NewEvent("ride_status_changed", nil))
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestMemoryBusClosed(t *testing.T) {
	bus := NewMemoryBus()
	bus.Close()
	if err := bus.Publish(context.Background(), NewEvent("new_message", nil)); err != ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestEventDecode(t *testing.T) {
	e := NewEvent("driver_location", map[string]interface{}{"latitude": 52.1, "longitude": 4.3})
	var loc struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := e.Decode(&loc); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if loc.Latitude != 52.1 || loc.Longitude != 4.3 {
		t.Fatalf("decoded %+v", loc)
	}
}

func TestWebSocketBusDispatchesBatchedFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	gotAuth := make(chan string, 1)
	received := make(chan Event, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		first, _ := json.Marshal(NewEvent("new_ride_request", map[string]interface{}{"n": 1}))
		second, _ := json.Marshal(NewEvent("new_ride_request", map[string]interface{}{"n": 2}))
		frame := append(append(first, '\n'), second...)
		conn.WriteMessage(websocket.TextMessage, frame)

		_, msg, err := conn.ReadMessage()
		if err == nil {
			var e Event
			json.Unmarshal(msg, &e)
			received <- e
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus, err := New(ctx, &config.RealtimeConfig{Transport: TransportWebSocket, WebSocketURL: wsURL}, "tok", nil, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer bus.Close()

	var mu sync.Mutex
	var seen []float64
	done := make(chan struct{})
	bus.Subscribe("new_ride_request", func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.Data["n"].(float64))
		if len(seen) == 2 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("timed out waiting for events")
	}

	if auth := <-gotAuth; auth != "Bearer tok" {
		t.Errorf("Authorization = %q", auth)
	}

	if err := bus.(*WebSocketBus).JoinRoom(ctx, "ride_abc"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	select {
	case e := <-received:
		if e.Type != "join_room" || e.Data["room_id"] != "ride_abc" {
			t.Fatalf("server got %+v", e)
		}
	case <-ctx.Done():
		t.Fatal("server never received join_room")
	}
}

func TestNewRejectsUnknownTransport(t *testing.T) {
	if _, err := New(context.Background(), &config.RealtimeConfig{Transport: "carrier-pigeon"}, "", nil, nil); err == nil {
		t.Fatal("expected error")
	}
	if _, err := New(context.Background(), &config.RealtimeConfig{Transport: TransportRedis}, "", nil, nil); err == nil {
		t.Fatal("expected error without a redis client")
	}
}
