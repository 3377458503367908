// Package contest wires the registry operations into the host: one
// handler per mutating call type, each emitting an event on success.
package contest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/veynar/podium/core"
	"github.com/veynar/podium/events"
	"github.com/veynar/podium/host"
)

func init() {
	host.Register(core.CallRegister, handleRegister)
	host.Register(core.CallAddItem, handleAddItem)
	host.Register(core.CallSetScore, handleSetScore)
	host.Register(core.CallPickWinner, handlePickWinner)
}

func handleRegister(ctx *host.Context, _ json.RawMessage) error {
	if err := ctx.Store.Register(ctx.Caller); err != nil {
		return err
	}
	emit(ctx, events.EventWalletRegistered, map[string]any{
		"address": ctx.Caller,
	})
	return nil
}

func handleAddItem(ctx *host.Context, payload json.RawMessage) error {
	var p core.AddItemPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode add_item payload: %w", err)
	}
	if p.Item == "" {
		return errors.New("item identifier required")
	}

	if err := ctx.Store.AddItem(ctx.Caller, p.Item); err != nil {
		return err
	}
	emit(ctx, events.EventItemAdded, map[string]any{
		"address": ctx.Caller,
		"item":    p.Item,
	})
	return nil
}

func handleSetScore(ctx *host.Context, payload json.RawMessage) error {
	var p core.SetScorePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode set_score payload: %w", err)
	}

	if err := ctx.Store.SetScore(ctx.Caller, p.Score); err != nil {
		return err
	}
	emit(ctx, events.EventScoreUpdated, map[string]any{
		"address": ctx.Caller,
		"score":   p.Score,
	})
	return nil
}

func handlePickWinner(ctx *host.Context, _ json.RawMessage) error {
	winner, err := ctx.Store.DetermineWinner()
	if err != nil {
		return err
	}
	emit(ctx, events.EventWinnerDeclared, map[string]any{
		"winner":    winner,
		"picked_by": ctx.Caller,
	})
	return nil
}

func emit(ctx *host.Context, typ events.EventType, data map[string]any) {
	if ctx.Emitter == nil {
		return
	}
	ctx.Emitter.Emit(events.Event{
		Type:   typ,
		CallID: ctx.Call.ID,
		Data:   data,
	})
}
