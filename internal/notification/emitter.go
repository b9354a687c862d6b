package notification

import (
	"sync"

	"github.com/google/uuid"
)

// Event is the payload delivered to live listeners when a notification
// is stored for them.
type Event struct {
	NotificationID uuid.UUID `json:"notificationId"`
	RecipientID    uuid.UUID `json:"recipientId"`
}

const subscriberBuffer = 16

// Emitter is an in-process pub/sub hub keyed by recipient. Publishing
// never blocks: a subscriber that stops draining its channel misses
// events instead of stalling the writer.
type Emitter struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan Event]struct{}
}

func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[uuid.UUID]map[chan Event]struct{})}
}

// Subscribe registers a listener for one recipient and returns the
// event channel with its cancel function. Cancel is idempotent.
func (e *Emitter) Subscribe(recipientID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	e.mu.Lock()
	if e.subs[recipientID] == nil {
		e.subs[recipientID] = make(map[chan Event]struct{})
	}
	e.subs[recipientID][ch] = struct{}{}
	e.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs[recipientID], ch)
			if len(e.subs[recipientID]) == 0 {
				delete(e.subs, recipientID)
			}
			e.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every live listener of its recipient.
func (e *Emitter) Publish(event Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for ch := range e.subs[event.RecipientID] {
		select {
		case ch <- event:
		default:
		}
	}
}
