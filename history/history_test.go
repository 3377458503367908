package history_test

import (
	"testing"

	"github.com/veynar/podium/events"
	"github.com/veynar/podium/history"
	"github.com/veynar/podium/internal/testutil"
)

func newTestHistory(t *testing.T) (*history.History, *events.Emitter) {
	t.Helper()
	emitter := events.NewEmitter()
	return history.New(testutil.NewMemDB(), emitter), emitter
}

// TestActivityOrder verifies entries come back in emission order with
// increasing sequence numbers.
func TestActivityOrder(t *testing.T) {
	hist, emitter := newTestHistory(t)

	emitter.Emit(events.Event{
		Type: events.EventWalletRegistered,
		Data: map[string]any{"address": "alice"},
	})
	emitter.Emit(events.Event{
		Type: events.EventItemAdded,
		Data: map[string]any{"address": "alice", "item": "sword"},
	})
	emitter.Emit(events.Event{
		Type: events.EventScoreUpdated,
		Data: map[string]any{"address": "alice", "score": 10},
	})

	entries, err := hist.ActivityByWallet("alice")
	if err != nil {
		t.Fatal(err)
	}
	want := []events.EventType{
		events.EventWalletRegistered,
		events.EventItemAdded,
		events.EventScoreUpdated,
	}
	if len(entries) != len(want) {
		t.Fatalf("entries: got %d want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Event != want[i] {
			t.Errorf("entry %d: got %s want %s", i, e.Event, want[i])
		}
		if e.Seq != uint64(i+1) {
			t.Errorf("entry %d seq: got %d want %d", i, e.Seq, i+1)
		}
	}
}

// TestActivityIsolatedPerWallet verifies one wallet's log never leaks
// into another's, including prefix-overlapping addresses.
func TestActivityIsolatedPerWallet(t *testing.T) {
	hist, emitter := newTestHistory(t)

	emitter.Emit(events.Event{
		Type: events.EventWalletRegistered,
		Data: map[string]any{"address": "al"},
	})
	emitter.Emit(events.Event{
		Type: events.EventWalletRegistered,
		Data: map[string]any{"address": "alice"},
	})

	entries, err := hist.ActivityByWallet("al")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("entries for al: got %d want 1", len(entries))
	}

	empty, err := hist.ActivityByWallet("bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("entries for bob: got %d want 0", len(empty))
	}
}

// TestWinnerHistory verifies every declaration is recorded, including
// picks that found no winner.
func TestWinnerHistory(t *testing.T) {
	hist, emitter := newTestHistory(t)

	emitter.Emit(events.Event{
		Type: events.EventWinnerDeclared,
		Data: map[string]any{"winner": "", "picked_by": "alice"},
	})
	emitter.Emit(events.Event{
		Type: events.EventWinnerDeclared,
		Data: map[string]any{"winner": "bob", "picked_by": "alice"},
	})

	entries, err := hist.Winners()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("winner entries: got %d want 2", len(entries))
	}
	if w, _ := entries[0].Data["winner"].(string); w != "" {
		t.Errorf("first pick winner: got %q want none", w)
	}
	if w, _ := entries[1].Data["winner"].(string); w != "bob" {
		t.Errorf("second pick winner: got %q want bob", w)
	}
}
