// Package history maintains an append-only activity log derived from
// registry events, so clients can query what happened to a wallet
// without replaying calls. It is secondary data layered next to the
// aggregate in the same key-value store.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/veynar/podium/core"
	"github.com/veynar/podium/events"
	"github.com/veynar/podium/storage"
)

const (
	prefixWalletActivity = "hist:acct:"
	prefixWinners        = "hist:winner:"
	prefixSeq            = "histn:"
)

// Entry is one recorded occurrence. Seq is monotonically increasing
// within its log; keys embed it zero-padded so storage order is
// chronological.
type Entry struct {
	Seq    uint64           `json:"seq"`
	Event  events.EventType `json:"event"`
	CallID string           `json:"call_id,omitempty"`
	Data   map[string]any   `json:"data"`
}

// History subscribes to registry events and appends log entries.
type History struct {
	db      storage.DB
	emitter *events.Emitter
}

// New creates a History backed by db and subscribes to all registry events.
func New(db storage.DB, emitter *events.Emitter) *History {
	h := &History{db: db, emitter: emitter}
	emitter.Subscribe(events.EventWalletRegistered, h.onWalletEvent)
	emitter.Subscribe(events.EventItemAdded, h.onWalletEvent)
	emitter.Subscribe(events.EventScoreUpdated, h.onWalletEvent)
	emitter.Subscribe(events.EventWinnerDeclared, h.onWinnerDeclared)
	return h
}

// ActivityByWallet returns every recorded entry for the given address,
// oldest first.
func (h *History) ActivityByWallet(address string) ([]Entry, error) {
	return h.readLog(prefixWalletActivity + address + ":")
}

// Winners returns every winner declaration, oldest first. Entries with
// an empty "winner" record a pick that found no winner.
func (h *History) Winners() ([]Entry, error) {
	return h.readLog(prefixWinners)
}

// ---- event handlers ----

func (h *History) onWalletEvent(ev events.Event) {
	address, _ := ev.Data["address"].(string)
	if address == "" {
		return
	}
	_ = h.append(prefixWalletActivity+address+":", "acct:"+address, ev)
}

func (h *History) onWinnerDeclared(ev events.Event) {
	_ = h.append(prefixWinners, "winner", ev)
}

// ---- log helpers ----

// append writes ev as the next entry of the log under keyPrefix.
// seqName identifies the log's sequence counter.
func (h *History) append(keyPrefix, seqName string, ev events.Event) error {
	seq, err := h.nextSeq(seqName)
	if err != nil {
		return err
	}
	entry := Entry{
		Seq:    seq,
		Event:  ev.Type,
		CallID: ev.CallID,
		Data:   ev.Data,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s%016d", keyPrefix, seq)
	return h.db.Set([]byte(key), data)
}

func (h *History) readLog(keyPrefix string) ([]Entry, error) {
	it := h.db.NewIterator([]byte(keyPrefix))
	defer it.Release()
	var entries []Entry
	for it.Next() {
		var e Entry
		if err := json.Unmarshal(it.Value(), &e); err != nil {
			return nil, fmt.Errorf("history unmarshal %q: %w", it.Key(), err)
		}
		entries = append(entries, e)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return entries, nil
}

// nextSeq increments and returns the sequence counter for name.
// The host processes one call at a time, so read-modify-write is safe.
func (h *History) nextSeq(name string) (uint64, error) {
	key := []byte(prefixSeq + name)
	var seq uint64
	data, err := h.db.Get(key)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return 0, err
	}
	if err == nil {
		seq, err = strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("history sequence %q: %w", name, err)
		}
	}
	seq++
	if err := h.db.Set(key, []byte(strconv.FormatUint(seq, 10))); err != nil {
		return 0, err
	}
	return seq, nil
}
