package events

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// EventType labels what happened.
type EventType string

const (
	EventWalletRegistered EventType = "wallet_registered"
	EventItemAdded        EventType = "item_added"
	EventScoreUpdated     EventType = "score_updated"
	EventWinnerDeclared   EventType = "winner_declared"
)

// All lists every event type, for subscribers that want the full feed.
var All = []EventType{
	EventWalletRegistered,
	EventItemAdded,
	EventScoreUpdated,
	EventWinnerDeclared,
}

// Event carries a typed payload emitted after a state change.
// ID is assigned by the emitter; CallID links back to the triggering call.
type Event struct {
	ID     string         `json:"id"`
	Type   EventType      `json:"type"`
	CallID string         `json:"call_id,omitempty"`
	Data   map[string]any `json:"data"`
}

// Handler is a callback invoked for matching events.
type Handler func(Event)

// Emitter is a simple pub/sub broker. Subscribe before Emit.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewEmitter creates an Emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers h to be called whenever typ is emitted.
func (e *Emitter) Subscribe(typ EventType, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[typ] = append(e.handlers[typ], h)
}

// SubscribeAll registers h for every known event type.
func (e *Emitter) SubscribeAll(h Handler) {
	for _, typ := range All {
		e.Subscribe(typ, h)
	}
}

// Emit assigns ev a fresh ID and delivers it to all subscribers for
// ev.Type synchronously. Each handler is guarded by panic recovery so a
// misbehaving subscriber cannot fail the triggering call.
func (e *Emitter) Emit(ev Event) {
	ev.ID = uuid.NewString()
	e.mu.RLock()
	handlers := e.handlers[ev.Type]
	e.mu.RUnlock()
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[events] handler panicked for %s: %v", ev.Type, r)
				}
			}()
			h(ev)
		}()
	}
}
