// Package events allows for the registering and receiving of event messages.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer sets how far a subscriber can lag behind before messages are
// dropped for it. Websocket sends can take a while.
const messageBuffer = 100

// Events maintains a mapping of unique ids and channels so goroutines can
// register and receive event messages.
type Events struct {
	subscribers map[string]chan string
	mu          sync.RWMutex
}

// New constructs an events value for registering and receiving event
// messages.
func New() *Events {
	return &Events{
		subscribers: make(map[string]chan string),
	}
}

// Acquire takes a unique id and returns a channel that can be used to
// receive event messages.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subscribers[id]; exists {
		return ch
	}

	evt.subscribers[id] = make(chan string, messageBuffer)
	return evt.subscribers[id]
}

// Release closes and removes the channel that was provided by the call
// to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subscribers[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subscribers, id)
	close(ch)

	return nil
}

// Send delivers the message to every registered channel. Send will not block
// waiting for a receiver on any given channel.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Shutdown closes and removes all channels that were provided by calls
// to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subscribers {
		delete(evt.subscribers, id)
		close(ch)
	}
}
