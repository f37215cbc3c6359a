package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ridepool/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// WebSocketBus receives devserver pushes and hands them to local
// subscribers. Publish writes the event back to the server, which routes it
// by room.
type WebSocketBus struct {
	*registry
	conn   *websocket.Conn
	logger *logger.Logger

	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

func DialWebSocket(ctx context.Context, url, token string, log *logger.Logger) (*WebSocketBus, error) {
	if log == nil {
		log = logger.Nop()
	}

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to dial websocket: %w", err)
	}

	b := &WebSocketBus{
		registry: newRegistry(),
		conn:     conn,
		logger:   log.WithField("component", "realtime"),
		done:     make(chan struct{}),
	}
	go b.readLoop()

	return b, nil
}

func (b *WebSocketBus) readLoop() {
	defer b.Close()

	b.conn.SetReadDeadline(time.Now().Add(pongWait))
	b.conn.SetPingHandler(func(appData string) error {
		b.conn.SetReadDeadline(time.Now().Add(pongWait))
		b.writeMu.Lock()
		defer b.writeMu.Unlock()
		return b.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	for {
		_, frame, err := b.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.logger.WithError(err).Warn("WebSocket connection lost")
			}
			return
		}

		// The server batches queued messages into one frame, newline separated.
		for _, raw := range bytes.Split(frame, []byte{'\n'}) {
			if len(bytes.TrimSpace(raw)) == 0 {
				continue
			}
			var event Event
			if err := json.Unmarshal(raw, &event); err != nil {
				b.logger.WithError(err).Warn("Dropping malformed event")
				continue
			}
			b.dispatch(event)
		}
	}
}

func (b *WebSocketBus) Publish(ctx context.Context, event Event) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	b.conn.SetWriteDeadline(deadline)
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

// JoinRoom asks the server to add this connection to a room, e.g. "ride_<id>".
func (b *WebSocketBus) JoinRoom(ctx context.Context, roomID string) error {
	return b.Publish(ctx, NewEvent("join_room", map[string]interface{}{"room_id": roomID}))
}

// Done is closed once the connection is gone.
func (b *WebSocketBus) Done() <-chan struct{} {
	return b.done
}

func (b *WebSocketBus) Close() error {
	var err error
	b.once.Do(func() {
		close(b.done)
		b.writeMu.Lock()
		b.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		b.writeMu.Unlock()
		err = b.conn.Close()
		b.reset()
	})
	return err
}
