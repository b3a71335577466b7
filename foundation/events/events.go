// Package events supports streaming chain activity messages to any number
// of subscribers, such as websocket clients watching the node.
package events

import (
	"fmt"
	"sync"
)

// Subscribers that fall behind lose messages instead of blocking the
// mining path. The buffer gives a slow websocket writer room to catch up.
const messageBuffer = 100

// Events fans chain activity messages out to subscribed channels.
type Events struct {
	subs map[string]chan string
	mu   sync.RWMutex
}

// New constructs an Events value for subscribing to chain activity.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Shutdown closes and removes every subscription.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}

// Acquire returns the channel for the specified id, creating the
// subscription if it does not exist yet.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	evt.subs[id] = make(chan string, messageBuffer)
	return evt.subs[id]
}

// Release closes and removes the subscription for the specified id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subs, id)
	close(ch)
	return nil
}

// Send delivers a message to every subscription without blocking. A
// subscriber with a full buffer misses the message.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
