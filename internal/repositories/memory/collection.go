package memory

import (
	"sync"

	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// collection keeps documents in insertion order and hands out copies so
// callers never share memory with the store.
type collection[T any] struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]*T
	order []primitive.ObjectID
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[primitive.ObjectID]*T)}
}

func (c *collection[T]) insert(id primitive.ObjectID, item *T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(id, item)
}

func (c *collection[T]) insertLocked(id primitive.ObjectID, item *T) {
	cp := *item
	c.items[id] = &cp
	c.order = append(c.order, id)
}

// insertUnless stores item unless a stored document satisfies conflict, in
// which case a copy of the first such document is returned.
func (c *collection[T]) insertUnless(id primitive.ObjectID, item *T, conflict func(*T) bool) *T {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, oid := range c.order {
		if existing := c.items[oid]; conflict(existing) {
			cp := *existing
			return &cp
		}
	}
	c.insertLocked(id, item)
	return nil
}

func (c *collection[T]) get(id primitive.ObjectID) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (c *collection[T]) find(match func(*T) bool) []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*T, 0)
	for _, id := range c.order {
		if item := c.items[id]; match(item) {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out
}

func (c *collection[T]) modify(id primitive.ObjectID, fn func(*T) error) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *item
	if err := fn(&cp); err != nil {
		return nil, err
	}
	c.items[id] = &cp
	out := cp
	return &out, nil
}

func (c *collection[T]) remove(id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// applyUpdates merges a field map keyed by bson names into doc, the same
// shape the mongo repositories pass to $set.
func applyUpdates[T any](doc *T, updates map[string]interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range updates {
		m[k] = v
	}
	if raw, err = bson.Marshal(m); err != nil {
		return err
	}
	var next T
	if err := bson.Unmarshal(raw, &next); err != nil {
		return err
	}
	*doc = next
	return nil
}
