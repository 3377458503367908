package host

import (
	"fmt"

	"github.com/veynar/podium/core"
	"github.com/veynar/podium/crypto"
	"github.com/veynar/podium/events"
	"github.com/veynar/podium/registry"
)

// Context is passed to every Handler and provides access to the store,
// the triggering call, the authenticated caller address, and the event
// emitter.
type Context struct {
	Store   *registry.Store
	Call    *core.Call
	Caller  string
	Emitter *events.Emitter
}

// Dispatcher verifies and executes calls using the global Handler registry.
// Calls are processed one at a time to completion; a handler either
// persists its full effect or none of it.
type Dispatcher struct {
	store   *registry.Store
	emitter *events.Emitter
}

// NewDispatcher creates a Dispatcher with the given store and event emitter.
func NewDispatcher(store *registry.Store, emitter *events.Emitter) *Dispatcher {
	return &Dispatcher{store: store, emitter: emitter}
}

// Execute verifies the call signature, derives the caller identity from
// the signing key, and dispatches to the registered handler. A call
// that fails verification never reaches a handler.
func (d *Dispatcher) Execute(call *core.Call) error {
	if err := call.Verify(); err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	pub, err := crypto.PubKeyFromHex(call.From)
	if err != nil {
		return fmt.Errorf("caller key: %w", err)
	}

	ctx := &Context{
		Store:   d.store,
		Call:    call,
		Caller:  pub.Address(),
		Emitter: d.emitter,
	}
	return globalRegistry.Execute(call.Type, ctx, call.Payload)
}
