// Package host executes signed calls against the registry. It plays the
// role of the execution environment: it authenticates the envelope,
// derives the caller identity, and dispatches to the handler registered
// for the call type.
package host

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/veynar/podium/core"
)

// Handler is the function signature every call module must implement.
type Handler func(ctx *Context, payload json.RawMessage) error

// Registry maps CallTypes to Handlers. Thread-safe for concurrent registration.
type Registry struct {
	mu       sync.RWMutex
	handlers map[core.CallType]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[core.CallType]Handler)}
}

// Register associates typ with h. Panics on duplicate registration.
func (r *Registry) Register(typ core.CallType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[typ]; exists {
		panic(fmt.Sprintf("host: handler already registered for call type %q", typ))
	}
	r.handlers[typ] = h
}

// Execute dispatches payload to the handler registered for typ.
func (r *Registry) Execute(typ core.CallType, ctx *Context, payload json.RawMessage) error {
	r.mu.RLock()
	h, ok := r.handlers[typ]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("host: no handler registered for call type %q", typ)
	}
	return h(ctx, payload)
}

// globalRegistry is the package-level singleton that modules register into.
var globalRegistry = NewRegistry()

// Register adds a handler to the global registry.
// Module init() functions call this to self-register.
func Register(typ core.CallType, h Handler) {
	globalRegistry.Register(typ, h)
}
