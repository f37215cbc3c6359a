package realtime

import (
	"context"
	"sync/atomic"
)

// MemoryBus delivers published events to local subscribers synchronously.
// It is the in-process stand-in for a real push channel.
type MemoryBus struct {
	*registry
	closed atomic.Bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{registry: newRegistry()}
}

func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.dispatch(event)
	return nil
}

func (b *MemoryBus) Close() error {
	b.closed.Store(true)
	b.reset()
	return nil
}
