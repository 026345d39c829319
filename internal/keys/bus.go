// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keys dispatches keyboard events to subscribers. A component
// subscribes when it appears and calls the returned func when it goes
// away, so no handler outlives its owner.
package keys

import (
	"sort"
	"sync"
)

// Key is a key code as reported by the browser (KeyboardEvent.code).
type Key string

const (
	Enter  Key = "Enter"
	Escape Key = "Escape"
)

// Event is one key press.
type Event struct {
	Key Key

	// InputFocused reports whether the search input had focus.
	InputFocused bool
}

// Handler receives events.
type Handler func(Event)

// Bus fans events out to subscribers in subscription order.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]Handler
}

// NewBus returns a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers h. The returned func unsubscribes it and may be
// called more than once.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Dispatch delivers e to every current subscriber. Handlers run without
// the bus lock held and may subscribe or unsubscribe.
func (b *Bus) Dispatch(e Event) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, len(ids))
	for i, id := range ids {
		handlers[i] = b.subs[id]
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
