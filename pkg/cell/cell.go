package cell

import (
	"reflect"
	"sync"
	"sync/atomic"
)

var lastID atomic.Uint64

// Cell is an observable value holder. Get returns the current value
// synchronously; subscribers are called only when Set stores a value that
// differs from the current one under the cell's equality function.
type Cell[T any] struct {
	id uint64

	// value is the current value.
	value T

	// mu protects value.
	mu sync.RWMutex

	// equal decides whether a new value is a change. Nil means defaultEquals.
	equal func(T, T) bool

	subMu   sync.RWMutex
	subs    []subscriber[T]
	nextSub uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// New creates a cell holding initial.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{id: lastID.Add(1), value: initial}
}

// WithEquals sets the equality function used to detect changes.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// ID returns the unique identifier of the cell.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores v and notifies subscribers if it differs from the current
// value. It reports whether the value changed.
func (c *Cell[T]) Set(v T) bool {
	c.mu.Lock()
	changed := !c.equals(c.value, v)
	if changed {
		c.value = v
	}
	c.mu.Unlock()

	if changed {
		c.notify(v)
	}
	return changed
}

// Update atomically replaces the value with fn(current) and notifies
// subscribers if it changed.
func (c *Cell[T]) Update(fn func(T) T) bool {
	c.mu.Lock()
	next := fn(c.value)
	changed := !c.equals(c.value, next)
	if changed {
		c.value = next
	}
	c.mu.Unlock()

	if changed {
		c.notify(next)
	}
	return changed
}

// Subscribe registers fn to be called with every new value. The returned
// function removes this subscription only; calling it twice is a no-op.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.subMu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(id) })
	}
}

// Subscribers returns the number of active subscriptions.
func (c *Cell[T]) Subscribers() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subs)
}

func (c *Cell[T]) unsubscribe(id uint64) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// notify calls subscribers in subscription order without holding locks.
func (c *Cell[T]) notify(v T) {
	c.subMu.RLock()
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.subMu.RUnlock()

	for _, s := range subs {
		s.fn(v)
	}
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for basic comparable types and reflect.DeepEqual
// for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
