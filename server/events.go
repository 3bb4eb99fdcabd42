package server

import (
	"sync"

	"petitionserver/matching"
)

// eventBus fans pipeline progress events out to SSE subscribers. Publishing
// never blocks: a subscriber that cannot keep up loses events rather than
// stalling the pipeline.
type eventBus struct {
	mu          sync.Mutex
	subscribers map[chan matching.ProgressEvent]struct{}
	bufferSize  int
}

func newEventBus(bufferSize int) *eventBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &eventBus{
		subscribers: make(map[chan matching.ProgressEvent]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new subscriber channel
func (b *eventBus) Subscribe() chan matching.ProgressEvent {
	ch := make(chan matching.ProgressEvent, b.bufferSize)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel
func (b *eventBus) Unsubscribe(ch chan matching.ProgressEvent) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers an event to every subscriber that has buffer room
func (b *eventBus) Publish(ev matching.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
