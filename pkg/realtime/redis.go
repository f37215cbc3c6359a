package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ridepool/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisBus fans events out through a redis pub/sub channel, so several
// processes can share one event stream.
type RedisBus struct {
	*registry
	client  *redis.Client
	channel string
	pubsub  *redis.PubSub
	logger  *logger.Logger

	done chan struct{}
	once sync.Once
}

func NewRedisBus(ctx context.Context, client *redis.Client, channel string, log *logger.Logger) (*RedisBus, error) {
	if log == nil {
		log = logger.Nop()
	}

	pubsub := client.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so early publishes are not lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	b := &RedisBus{
		registry: newRegistry(),
		client:   client,
		channel:  channel,
		pubsub:   pubsub,
		logger:   log.WithField("component", "realtime"),
		done:     make(chan struct{}),
	}
	go b.receive()

	return b, nil
}

func (b *RedisBus) receive() {
	ch := b.pubsub.Channel()
	for {
		select {
		case <-b.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.WithError(err).Warn("Dropping malformed event")
				continue
			}
			b.dispatch(event)
		}
	}
}

func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

func (b *RedisBus) Close() error {
	var err error
	b.once.Do(func() {
		close(b.done)
		err = b.pubsub.Close()
		b.reset()
	})
	return err
}
