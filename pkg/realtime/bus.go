package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrClosed = errors.New("realtime bus closed")

// Event is one named push. The JSON shape matches what the devserver hub
// writes to websocket clients.
type Event struct {
	Type      string                 `json:"type"`
	RoomID    string                 `json:"room_id,omitempty"`
	UserID    primitive.ObjectID     `json:"user_id"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func NewEvent(eventType string, data map[string]interface{}) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}

// Decode re-reads the event payload into v.
func (e Event) Decode(v interface{}) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

type Handler func(Event)

type Subscription struct {
	id    uint64
	event string
}

// Bus is the subscription interface screens register against. Nothing is
// guaranteed about ordering, delivery or reconnection.
type Bus interface {
	Subscribe(event string, handler Handler) Subscription
	Unsubscribe(sub Subscription)
	Publish(ctx context.Context, event Event) error
	Close() error
}

// registry holds handlers by event name. Every Bus implementation embeds one
// and feeds it whatever its transport receives.
type registry struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string]map[uint64]Handler
}

func newRegistry() *registry {
	return &registry{handlers: make(map[string]map[uint64]Handler)}
}

func (r *registry) Subscribe(event string, handler Handler) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	if r.handlers[event] == nil {
		r.handlers[event] = make(map[uint64]Handler)
	}
	r.handlers[event][r.nextID] = handler
	return Subscription{id: r.nextID, event: event}
}

func (r *registry) Unsubscribe(sub Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hs, ok := r.handlers[sub.event]; ok {
		delete(hs, sub.id)
		if len(hs) == 0 {
			delete(r.handlers, sub.event)
		}
	}
}

// dispatch calls handlers outside the lock so they may (un)subscribe.
func (r *registry) dispatch(event Event) {
	r.mu.RLock()
	hs := make([]Handler, 0, len(r.handlers[event.Type]))
	for _, h := range r.handlers[event.Type] {
		hs = append(hs, h)
	}
	r.mu.RUnlock()

	for _, h := range hs {
		h(event)
	}
}

func (r *registry) reset() {
	r.mu.Lock()
	r.handlers = make(map[string]map[uint64]Handler)
	r.mu.Unlock()
}

// Room names the devserver hub routes by.
func UserRoom(userID primitive.ObjectID) string { return "user_" + userID.Hex() }
func RideRoom(rideID primitive.ObjectID) string { return "ride_" + rideID.Hex() }
