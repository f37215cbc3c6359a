package services

import (
	"context"
	"sync"
)

// Optimistic is a list that shows a change before the server confirms it.
// Apply inserts a placeholder, reconciles it with the server's answer, and
// takes it out again if the server call fails.
type Optimistic[T any] struct {
	mu      sync.Mutex
	items   []T
	pending []T
	same    func(a, b T) bool
}

// NewOptimistic builds an empty list. same reports whether two items are
// the same entry.
func NewOptimistic[T any](same func(a, b T) bool) *Optimistic[T] {
	return &Optimistic[T]{same: same}
}

func (o *Optimistic[T]) Items() []T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]T(nil), o.items...)
}

// Set replaces the list, e.g. after a reload. Placeholders still waiting on
// the server are kept at the end, oldest first.
func (o *Optimistic[T]) Set(items []T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append([]T(nil), items...)
	for _, p := range o.pending {
		if o.indexLocked(p) < 0 {
			o.items = append(o.items, p)
		}
	}
}

func (o *Optimistic[T]) Apply(ctx context.Context, placeholder T, commit func(context.Context) (T, error)) (T, error) {
	o.mu.Lock()
	o.items = append(o.items, placeholder)
	o.pending = append(o.pending, placeholder)
	o.mu.Unlock()

	confirmed, err := commit(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()

	// Settled placeholders leave pending under the same lock that edits
	// items, so a concurrent Set cannot bring one back.
	for i := range o.pending {
		if o.same(o.pending[i], placeholder) {
			o.pending = append(o.pending[:i], o.pending[i+1:]...)
			break
		}
	}

	idx := o.indexLocked(placeholder)
	if err != nil {
		if idx >= 0 {
			o.items = append(o.items[:idx], o.items[idx+1:]...)
		}
		var zero T
		return zero, err
	}

	switch {
	case o.indexLocked(confirmed) >= 0:
		// A reload already brought the confirmed item in.
		if idx >= 0 {
			o.items = append(o.items[:idx], o.items[idx+1:]...)
		}
	case idx >= 0:
		o.items[idx] = confirmed
	default:
		o.items = append(o.items, confirmed)
	}
	return confirmed, nil
}

func (o *Optimistic[T]) indexLocked(item T) int {
	for i := range o.items {
		if o.same(o.items[i], item) {
			return i
		}
	}
	return -1
}
